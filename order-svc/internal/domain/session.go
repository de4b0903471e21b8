package domain

import "time"

type Page string

const (
	PageBrowse Page = "browse"
	PageDetail Page = "detail"
	PageCart   Page = "cart"
	PageLogin  Page = "login"
	PageAdmin  Page = "admin"
)

const CategoryAll = "all"

// Session is the per-visitor view and cart state. It is stored server-side by ID
// and handed to exactly one event handler at a time.
type Session struct {
	ID             string    `json:"id"`
	Page           Page      `json:"page"`
	SelectedDishID *int      `json:"selected_dish_id,omitempty"`
	Category       string    `json:"category"`
	Search         string    `json:"search,omitempty"`
	Table          int       `json:"table"`
	Cart           Cart      `json:"cart"`
	Admin          bool      `json:"admin"`
	Flash          string    `json:"flash,omitempty"`
	Error          string    `json:"error,omitempty"`
	LastOrderID    int       `json:"last_order_id,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		Page:     PageBrowse,
		Category: CategoryAll,
		Table:    1,
		Cart:     Cart{},
	}
}

// GoTo moves to page p. The selected dish only survives on the detail page.
func (s *Session) GoTo(p Page) {
	s.Page = p
	if p != PageDetail {
		s.SelectedDishID = nil
	}
}

func (s *Session) Select(dishID int) {
	s.Page = PageDetail
	s.SelectedDishID = &dishID
}

// ClearMessages drops the flash and error left by the previous interaction.
func (s *Session) ClearMessages() {
	s.Flash = ""
	s.Error = ""
}
