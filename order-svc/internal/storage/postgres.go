package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lemon630/order-meal/order-svc/internal/domain"

	"github.com/lib/pq"
)

var ErrNotFound = errors.New("record not found")

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS menu (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			price NUMERIC(10,2) NOT NULL,
			category TEXT NOT NULL,
			image TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			table_num INTEGER NOT NULL,
			items_json TEXT NOT NULL,
			total_price NUMERIC(10,2) NOT NULL,
			status TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedMenu inserts dishes only when the menu table is empty and reports how many
// rows were written.
func (r *PostgresRepository) SeedMenu(ctx context.Context, dishes []domain.NewDish) (int, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM menu").Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	seeded := 0
	for i := range dishes {
		if _, err := r.CreateMenuItem(ctx, &dishes[i]); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, dish *domain.NewDish) (*domain.MenuItem, error) {
	item := domain.MenuItem{
		Name:        dish.Name,
		Price:       dish.Price,
		Category:    dish.Category,
		Image:       dish.Image,
		Description: dish.Description,
	}
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO menu (name, price, category, image, description) VALUES ($1, $2, $3, $4, NULLIF($5, '')) RETURNING id, created_at",
		item.Name, item.Price, item.Category, item.Image, item.Description).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

const menuColumns = "id, name, price, category, image, COALESCE(description, ''), created_at"

func (r *PostgresRepository) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+menuColumns+" FROM menu ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenuItems(rows)
}

// GetMenuItems returns the rows that still exist for ids; deleted dishes are
// simply absent from the result.
func (r *PostgresRepository) GetMenuItems(ctx context.Context, ids []int) ([]domain.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+menuColumns+" FROM menu WHERE id = ANY($1) ORDER BY id", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenuItems(rows)
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.DB.QueryRowContext(ctx, "SELECT "+menuColumns+" FROM menu WHERE id = $1", id).
		Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.Image, &item.Description, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM menu WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanMenuItems(rows *sql.Rows) ([]domain.MenuItem, error) {
	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.Image, &item.Description, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateOrder writes the whole order, line snapshot included, in one statement.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO orders (table_num, items_json, total_price, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp
	`, order.Table, string(itemsJSON), order.Total, string(order.Status)).Scan(&order.ID, &order.CreatedAt)
}

const orderColumns = "id, table_num, items_json, total_price, status, timestamp"

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return order, err
}

const completeOrderQuery = `UPDATE orders SET status = $1
	WHERE id = $2 AND lower(btrim(status)) <> lower($1) AND NOT (status LIKE ANY($3))`

// CompleteOrder flips a pending order to Completed. Zero rows affected means the
// order is missing or already completed, including rows carrying a legacy
// completed label.
func (r *PostgresRepository) CompleteOrder(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, completeOrderQuery,
		string(domain.StatusCompleted), id, pq.Array(legacyCompletedPatterns()))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func legacyCompletedPatterns() []string {
	patterns := make([]string, len(domain.LegacyCompletedLabels))
	for i, label := range domain.LegacyCompletedLabels {
		patterns[i] = "%" + label + "%"
	}
	return patterns
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order     domain.Order
		itemsJSON string
		status    string
	)
	if err := row.Scan(&order.ID, &order.Table, &itemsJSON, &order.Total, &status, &order.CreatedAt); err != nil {
		return nil, err
	}
	order.Status = domain.ParseStatus(status)
	order.Items = []domain.OrderLine{}
	if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %d: %w", order.ID, err)
	}
	for i := range order.Items {
		// Legacy rows were written without a subtotal.
		if order.Items[i].Subtotal == 0 {
			order.Items[i].Subtotal = order.Items[i].Price * float64(order.Items[i].Qty)
		}
	}
	return &order, nil
}
