package domain

type Action string

const (
	ActionSelectCategory Action = "select_category"
	ActionSearch         Action = "search"
	ActionViewDish       Action = "view_dish"
	ActionBack           Action = "back"
	ActionOpenBrowse     Action = "open_browse"
	ActionOpenCart       Action = "open_cart"
	ActionOpenAdmin      Action = "open_admin"
	ActionSetTable       Action = "set_table"
	ActionAddToCart      Action = "add_to_cart"
	ActionRemoveOne      Action = "remove_one"
	ActionClearCart      Action = "clear_cart"
	ActionConfirmOrder   Action = "confirm_order"
	ActionLogin          Action = "login"
	ActionLogout         Action = "logout"
	ActionCompleteOrder  Action = "complete_order"
	ActionAddDish        Action = "add_dish"
	ActionDeleteDish     Action = "delete_dish"
	ActionRefresh        Action = "refresh"
)

// Event is one user interaction. Only the fields relevant to Action are read.
type Event struct {
	Action   Action   `json:"action"`
	Category string   `json:"category,omitempty"`
	Search   string   `json:"search,omitempty"`
	DishID   int      `json:"dish_id,omitempty"`
	Qty      int      `json:"qty,omitempty"`
	Table    int      `json:"table,omitempty"`
	Password string   `json:"password,omitempty"`
	OrderID  int      `json:"order_id,omitempty"`
	Dish     *NewDish `json:"dish,omitempty"`
}
