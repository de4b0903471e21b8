package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
	"github.com/lemon630/order-meal/order-svc/internal/storage"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidTable  = errors.New("invalid table number")
	ErrOrderNotFound = errors.New("order not found")
)

type OrderService struct {
	orders    OrderRepository
	menu      MenuRepository
	publisher OrderPublisher
	tableMax  int
	now       func() time.Time
}

// NewOrderService wires the order flow. publisher may be nil when no broker is
// configured.
func NewOrderService(orders OrderRepository, menu MenuRepository, publisher OrderPublisher, tableMax int) *OrderService {
	return &OrderService{
		orders:    orders,
		menu:      menu,
		publisher: publisher,
		tableMax:  tableMax,
		now:       time.Now,
	}
}

func (s *OrderService) TableMax() int {
	return s.tableMax
}

// PlaceOrder prices the cart at current menu prices and stores a value copy of
// every line. Cart entries whose dish has been deleted are skipped.
func (s *OrderService) PlaceOrder(ctx context.Context, table int, cart domain.Cart) (*domain.Order, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if table < 1 || table > s.tableMax {
		return nil, fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidTable, table, s.tableMax)
	}

	items, err := s.menu.GetMenuItems(ctx, cart.IDs())
	if err != nil {
		return nil, fmt.Errorf("load cart dishes: %w", err)
	}

	order := &domain.Order{
		Table:     table,
		Items:     []domain.OrderLine{},
		Status:    domain.StatusPending,
		CreatedAt: s.now(),
	}
	for _, item := range items {
		qty, ok := cart[item.ID]
		if !ok || qty < 1 {
			continue
		}
		line := domain.OrderLine{
			DishID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Qty:      qty,
			Subtotal: roundCents(item.Price * float64(qty)),
		}
		order.Items = append(order.Items, line)
		order.Total += line.Subtotal
	}
	if len(order.Items) == 0 {
		return nil, ErrEmptyCart
	}
	order.Total = roundCents(order.Total)

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	log.Printf("[order-svc] order %d placed: table=%d lines=%d total=%.2f", order.ID, order.Table, len(order.Items), order.Total)

	s.publish(ctx, domain.EventOrderPlaced, order)
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *OrderService) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

// CompleteOrder moves a pending order to Completed. Repeating the call, or naming
// an order that does not exist, is a logged no-op.
func (s *OrderService) CompleteOrder(ctx context.Context, id int) error {
	rows, err := s.orders.CompleteOrder(ctx, id)
	if err != nil {
		return fmt.Errorf("complete order %d: %w", id, err)
	}
	if rows == 0 {
		log.Printf("[order-svc] complete order %d: already completed or missing", id)
		return nil
	}
	log.Printf("[order-svc] order %d completed", id)

	if s.publisher != nil {
		order, err := s.orders.GetOrder(ctx, id)
		if err != nil {
			log.Printf("WARNING: reload order %d for event: %v", id, err)
			return nil
		}
		s.publish(ctx, domain.EventOrderCompleted, order)
	}
	return nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	msg := domain.KafkaMessage{
		Type:      eventType,
		OrderID:   order.ID,
		Table:     order.Table,
		Total:     order.Total,
		Timestamp: s.now(),
	}
	if eventType == domain.EventOrderPlaced {
		for _, line := range order.Items {
			msg.Lines = append(msg.Lines, domain.MessageLine{Name: line.Name, Qty: line.Qty})
		}
	}
	if err := s.publisher.PublishOrderEvent(ctx, msg); err != nil {
		log.Printf("WARNING: failed to publish %s for order %d: %v", eventType, order.ID, err)
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
