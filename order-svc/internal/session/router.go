package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
	"github.com/lemon630/order-meal/order-svc/internal/service"
)

var ErrUnknownAction = errors.New("unknown action")

type handlerFunc func(ctx context.Context, sess *domain.Session, ev domain.Event) error

// Router dispatches one event to its handler and then renders only the page the
// session ends up on.
type Router struct {
	catalog   service.CatalogServiceInterface
	orders    service.OrderServiceInterface
	auth      service.PasswordChecker
	handlers  map[domain.Action]handlerFunc
	adminOnly map[domain.Action]bool
	renderers map[domain.Page]Renderer
}

func NewRouter(catalog service.CatalogServiceInterface, orders service.OrderServiceInterface, stats service.StatsServiceInterface, auth service.PasswordChecker, opts RenderOptions) *Router {
	r := &Router{
		catalog: catalog,
		orders:  orders,
		auth:    auth,
	}
	r.handlers = map[domain.Action]handlerFunc{
		domain.ActionSelectCategory: r.selectCategory,
		domain.ActionSearch:         r.search,
		domain.ActionViewDish:       r.viewDish,
		domain.ActionBack:           r.openBrowse,
		domain.ActionOpenBrowse:     r.openBrowse,
		domain.ActionOpenCart:       r.openCart,
		domain.ActionOpenAdmin:      r.openAdmin,
		domain.ActionSetTable:       r.setTable,
		domain.ActionAddToCart:      r.addToCart,
		domain.ActionRemoveOne:      r.removeOne,
		domain.ActionClearCart:      r.clearCart,
		domain.ActionConfirmOrder:   r.confirmOrder,
		domain.ActionLogin:          r.login,
		domain.ActionLogout:         r.logout,
		domain.ActionCompleteOrder:  r.completeOrder,
		domain.ActionAddDish:        r.addDish,
		domain.ActionDeleteDish:     r.deleteDish,
		domain.ActionRefresh:        r.refresh,
	}
	r.adminOnly = map[domain.Action]bool{
		domain.ActionCompleteOrder: true,
		domain.ActionAddDish:       true,
		domain.ActionDeleteDish:    true,
		domain.ActionRefresh:       true,
	}
	r.renderers = map[domain.Page]Renderer{
		domain.PageBrowse: &browseRenderer{catalog: catalog, placeholder: opts.PlaceholderImage},
		domain.PageDetail: &detailRenderer{catalog: catalog, placeholder: opts.PlaceholderImage},
		domain.PageCart:   &cartRenderer{catalog: catalog, orders: orders},
		domain.PageLogin:  loginRenderer{},
		domain.PageAdmin:  &adminRenderer{catalog: catalog, orders: orders, stats: stats, opts: opts},
	}
	return r
}

// Dispatch applies ev to sess and renders the resulting page.
func (r *Router) Dispatch(ctx context.Context, sess *domain.Session, ev domain.Event) (*View, error) {
	if err := r.Apply(ctx, sess, ev); err != nil {
		return nil, err
	}
	return r.Render(ctx, sess)
}

// Apply runs the handler for ev against sess. User-facing failures (bad input,
// wrong password, empty cart) are recorded on the session and do not produce an
// error; only store failures and unknown actions do.
func (r *Router) Apply(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	handler, ok := r.handlers[ev.Action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, ev.Action)
	}
	sess.ClearMessages()

	if r.adminOnly[ev.Action] && !sess.Admin {
		sess.GoTo(domain.PageLogin)
		sess.Error = service.ErrUnauthorized.Error()
		return nil
	}

	if err := handler(ctx, sess, ev); err != nil {
		if !userFacing(err) {
			return err
		}
		sess.Error = err.Error()
	}
	return nil
}

func userFacing(err error) bool {
	for _, target := range []error{
		service.ErrInvalidDish,
		service.ErrEmptyCart,
		service.ErrInvalidTable,
		service.ErrWrongPassword,
		service.ErrImageDecode,
		service.ErrUnauthorized,
		errInvalidQty,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var errInvalidQty = errors.New("quantity must be at least 1")

func (r *Router) selectCategory(_ context.Context, sess *domain.Session, ev domain.Event) error {
	sess.Category = ev.Category
	if sess.Category == "" {
		sess.Category = domain.CategoryAll
	}
	sess.GoTo(domain.PageBrowse)
	return nil
}

func (r *Router) search(_ context.Context, sess *domain.Session, ev domain.Event) error {
	sess.Search = ev.Search
	sess.GoTo(domain.PageBrowse)
	return nil
}

func (r *Router) viewDish(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	dish, err := r.catalog.GetDish(ctx, ev.DishID)
	if errors.Is(err, service.ErrDishNotFound) {
		sess.GoTo(domain.PageBrowse)
		sess.Flash = "This dish is no longer available"
		return nil
	}
	if err != nil {
		return err
	}
	sess.Select(dish.ID)
	return nil
}

func (r *Router) openBrowse(_ context.Context, sess *domain.Session, _ domain.Event) error {
	sess.GoTo(domain.PageBrowse)
	return nil
}

func (r *Router) openCart(_ context.Context, sess *domain.Session, _ domain.Event) error {
	sess.GoTo(domain.PageCart)
	return nil
}

func (r *Router) openAdmin(_ context.Context, sess *domain.Session, _ domain.Event) error {
	if sess.Admin {
		sess.GoTo(domain.PageAdmin)
	} else {
		sess.GoTo(domain.PageLogin)
	}
	return nil
}

func (r *Router) setTable(_ context.Context, sess *domain.Session, ev domain.Event) error {
	if ev.Table < 1 || ev.Table > r.orders.TableMax() {
		return fmt.Errorf("%w: %d (allowed 1-%d)", service.ErrInvalidTable, ev.Table, r.orders.TableMax())
	}
	sess.Table = ev.Table
	return nil
}

// addToCart re-reads the dish first so a stale id from an old page never lands
// in the cart.
func (r *Router) addToCart(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	qty := ev.Qty
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return errInvalidQty
	}

	dish, err := r.catalog.GetDish(ctx, ev.DishID)
	if errors.Is(err, service.ErrDishNotFound) {
		sess.Cart = domain.Drop(sess.Cart, ev.DishID)
		sess.GoTo(domain.PageBrowse)
		sess.Flash = "This dish is no longer available"
		return nil
	}
	if err != nil {
		return err
	}

	sess.Cart = domain.AddToCart(sess.Cart, dish.ID, qty)
	sess.Flash = fmt.Sprintf("Added %s x%d", dish.Name, qty)
	if sess.Page == domain.PageDetail {
		sess.GoTo(domain.PageBrowse)
	}
	return nil
}

func (r *Router) removeOne(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	if _, ok := sess.Cart[ev.DishID]; !ok {
		return nil
	}
	_, err := r.catalog.GetDish(ctx, ev.DishID)
	if errors.Is(err, service.ErrDishNotFound) {
		sess.Cart = domain.Drop(sess.Cart, ev.DishID)
		sess.Flash = "Removed a dish that is no longer available"
		return nil
	}
	if err != nil {
		return err
	}
	sess.Cart = domain.RemoveOne(sess.Cart, ev.DishID)
	return nil
}

func (r *Router) clearCart(_ context.Context, sess *domain.Session, _ domain.Event) error {
	sess.Cart = domain.ClearCart()
	return nil
}

func (r *Router) confirmOrder(ctx context.Context, sess *domain.Session, _ domain.Event) error {
	order, err := r.orders.PlaceOrder(ctx, sess.Table, sess.Cart)
	if err != nil {
		sess.GoTo(domain.PageCart)
		return err
	}
	sess.Cart = domain.ClearCart()
	sess.LastOrderID = order.ID
	sess.Flash = fmt.Sprintf("Order #%d sent to the kitchen", order.ID)
	sess.GoTo(domain.PageBrowse)
	return nil
}

func (r *Router) login(_ context.Context, sess *domain.Session, ev domain.Event) error {
	if err := r.auth.Check(ev.Password); err != nil {
		sess.GoTo(domain.PageLogin)
		return err
	}
	sess.Admin = true
	sess.GoTo(domain.PageAdmin)
	return nil
}

func (r *Router) logout(_ context.Context, sess *domain.Session, _ domain.Event) error {
	sess.Admin = false
	sess.GoTo(domain.PageBrowse)
	return nil
}

func (r *Router) completeOrder(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	sess.GoTo(domain.PageAdmin)
	return r.orders.CompleteOrder(ctx, ev.OrderID)
}

func (r *Router) addDish(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	sess.GoTo(domain.PageAdmin)
	if ev.Dish == nil {
		return fmt.Errorf("%w: dish payload is required", service.ErrInvalidDish)
	}
	item, err := r.catalog.AddDish(ctx, *ev.Dish)
	if err != nil {
		return err
	}
	sess.Flash = fmt.Sprintf("Published %s", item.Name)
	return nil
}

func (r *Router) deleteDish(ctx context.Context, sess *domain.Session, ev domain.Event) error {
	sess.GoTo(domain.PageAdmin)
	return r.catalog.DeleteDish(ctx, ev.DishID)
}

func (r *Router) refresh(_ context.Context, sess *domain.Session, _ domain.Event) error {
	sess.GoTo(domain.PageAdmin)
	return nil
}
