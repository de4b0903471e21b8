package service

import (
	"context"
	"io"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
)

type MenuRepository interface {
	CreateMenuItem(ctx context.Context, dish *domain.NewDish) (*domain.MenuItem, error)
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error)
	GetMenuItems(ctx context.Context, ids []int) ([]domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int) (int64, error)
	SeedMenu(ctx context.Context, dishes []domain.NewDish) (int, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	CompleteOrder(ctx context.Context, id int) (int64, error)
}

type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, msg domain.KafkaMessage) error
}

type StatsReader interface {
	DailyStats(ctx context.Context, date string, top int) (*domain.DailyStats, error)
}

type CatalogServiceInterface interface {
	ListMenu(ctx context.Context) ([]domain.MenuItem, error)
	GetDish(ctx context.Context, id int) (*domain.MenuItem, error)
	AddDish(ctx context.Context, dish domain.NewDish) (*domain.MenuItem, error)
	DeleteDish(ctx context.Context, id int) error
	EmbedImage(r io.Reader, width int) (*EmbeddedImage, error)
	AllowedCategories() []string
}

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, table int, cart domain.Cart) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	CompleteOrder(ctx context.Context, id int) error
	TableMax() int
}

type StatsServiceInterface interface {
	Today(ctx context.Context) (*domain.DailyStats, error)
}

type PasswordChecker interface {
	Check(password string) error
}

var (
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ OrderServiceInterface   = (*OrderService)(nil)
	_ StatsServiceInterface   = (*StatsService)(nil)
	_ PasswordChecker         = (*AdminAuthenticator)(nil)
)
