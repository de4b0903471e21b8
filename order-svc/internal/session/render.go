package session

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
	"github.com/lemon630/order-meal/order-svc/internal/service"
)

type RenderOptions struct {
	PlaceholderImage string
	ImageWidth       int
	ImageMinWidth    int
	ImageMaxWidth    int
}

// View is what the client draws for the current page.
type View struct {
	Page      domain.Page `json:"page"`
	Table     int         `json:"table"`
	CartCount int         `json:"cart_count"`
	Admin     bool        `json:"admin"`
	Flash     string      `json:"flash,omitempty"`
	Error     string      `json:"error,omitempty"`
	Data      any         `json:"data"`
}

type Renderer interface {
	Render(ctx context.Context, sess *domain.Session) (any, error)
}

var errStaleSelection = errors.New("selected dish no longer exists")

// Render draws the session's current page. A detail page whose dish has been
// deleted falls back to browse.
func (r *Router) Render(ctx context.Context, sess *domain.Session) (*View, error) {
	renderer, ok := r.renderers[sess.Page]
	if !ok {
		sess.GoTo(domain.PageBrowse)
		renderer = r.renderers[domain.PageBrowse]
	}
	if sess.Page == domain.PageAdmin && !sess.Admin {
		sess.GoTo(domain.PageLogin)
		renderer = r.renderers[domain.PageLogin]
	}

	data, err := renderer.Render(ctx, sess)
	if errors.Is(err, errStaleSelection) {
		sess.GoTo(domain.PageBrowse)
		sess.Flash = "This dish is no longer available"
		data, err = r.renderers[domain.PageBrowse].Render(ctx, sess)
	}
	if err != nil {
		return nil, err
	}

	return &View{
		Page:      sess.Page,
		Table:     sess.Table,
		CartCount: sess.Cart.Count(),
		Admin:     sess.Admin,
		Flash:     sess.Flash,
		Error:     sess.Error,
		Data:      data,
	}, nil
}

type BrowseView struct {
	Categories []string          `json:"categories"`
	Category   string            `json:"category"`
	Search     string            `json:"search,omitempty"`
	Items      []domain.MenuItem `json:"items"`
}

type browseRenderer struct {
	catalog     service.CatalogServiceInterface
	placeholder string
}

func (b *browseRenderer) Render(ctx context.Context, sess *domain.Session) (any, error) {
	items, err := b.catalog.ListMenu(ctx)
	if err != nil {
		return nil, err
	}
	filtered := service.FilterMenu(items, sess.Category, sess.Search)
	for i := range filtered {
		if filtered[i].Image == "" {
			filtered[i].Image = b.placeholder
		}
	}
	return BrowseView{
		Categories: append([]string{domain.CategoryAll}, service.Categories(items)...),
		Category:   sess.Category,
		Search:     sess.Search,
		Items:      filtered,
	}, nil
}

type DetailView struct {
	Item   domain.MenuItem `json:"item"`
	InCart int             `json:"in_cart"`
}

type detailRenderer struct {
	catalog     service.CatalogServiceInterface
	placeholder string
}

func (d *detailRenderer) Render(ctx context.Context, sess *domain.Session) (any, error) {
	if sess.SelectedDishID == nil {
		return nil, errStaleSelection
	}
	item, err := d.catalog.GetDish(ctx, *sess.SelectedDishID)
	if errors.Is(err, service.ErrDishNotFound) {
		return nil, errStaleSelection
	}
	if err != nil {
		return nil, err
	}
	if item.Image == "" {
		item.Image = d.placeholder
	}
	return DetailView{Item: *item, InCart: sess.Cart[item.ID]}, nil
}

type CartLine struct {
	DishID   int     `json:"dish_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	Subtotal float64 `json:"subtotal"`
}

type CartView struct {
	Lines    []CartLine `json:"lines"`
	Total    float64    `json:"total"`
	Table    int        `json:"table"`
	TableMax int        `json:"table_max"`
}

type cartRenderer struct {
	catalog service.CatalogServiceInterface
	orders  service.OrderServiceInterface
}

// Render prices the cart at current menu prices. Entries whose dish has been
// deleted are left out of the view.
func (c *cartRenderer) Render(ctx context.Context, sess *domain.Session) (any, error) {
	view := CartView{Lines: []CartLine{}, Table: sess.Table, TableMax: c.orders.TableMax()}
	if sess.Cart.IsEmpty() {
		return view, nil
	}

	items, err := c.catalog.ListMenu(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]domain.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	for _, id := range sess.Cart.IDs() {
		item, ok := byID[id]
		if !ok {
			log.Printf("[order-svc] session %s: skipping deleted dish %d in cart", sess.ID, id)
			continue
		}
		qty := sess.Cart[id]
		line := CartLine{
			DishID:   id,
			Name:     item.Name,
			Price:    item.Price,
			Qty:      qty,
			Subtotal: item.Price * float64(qty),
		}
		view.Lines = append(view.Lines, line)
		view.Total += line.Subtotal
	}
	view.Total = math.Round(view.Total*100) / 100
	return view, nil
}

type LoginView struct {
	Error string `json:"error,omitempty"`
}

type loginRenderer struct{}

func (loginRenderer) Render(_ context.Context, sess *domain.Session) (any, error) {
	return LoginView{Error: sess.Error}, nil
}

type AdminView struct {
	Orders        []domain.Order     `json:"orders"`
	Menu          []domain.MenuItem  `json:"menu"`
	Categories    []string           `json:"categories"`
	Stats         *domain.DailyStats `json:"stats,omitempty"`
	ImageWidth    int                `json:"image_width"`
	ImageMinWidth int                `json:"image_min_width"`
	ImageMaxWidth int                `json:"image_max_width"`
}

type adminRenderer struct {
	catalog service.CatalogServiceInterface
	orders  service.OrderServiceInterface
	stats   service.StatsServiceInterface
	opts    RenderOptions
}

func (a *adminRenderer) Render(ctx context.Context, _ *domain.Session) (any, error) {
	orders, err := a.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	menu, err := a.catalog.ListMenu(ctx)
	if err != nil {
		return nil, err
	}

	view := AdminView{
		Orders:        orders,
		Menu:          menu,
		Categories:    a.catalog.AllowedCategories(),
		ImageWidth:    a.opts.ImageWidth,
		ImageMinWidth: a.opts.ImageMinWidth,
		ImageMaxWidth: a.opts.ImageMaxWidth,
	}
	if a.stats != nil {
		stats, err := a.stats.Today(ctx)
		if err != nil {
			log.Printf("WARNING: failed to load today's stats: %v", err)
		} else {
			view.Stats = stats
		}
	}
	return view, nil
}
