package tests

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
	"github.com/lemon630/order-meal/order-svc/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var menuCols = []string{"id", "name", "price", "category", "image", "description", "created_at"}
var orderCols = []string{"id", "table_num", "items_json", "total_price", "status", "timestamp"}

func setupRepo(t *testing.T) (*storage.PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return storage.NewPostgresRepository(db), mock
}

func TestEnsureSchemaCreatesTables(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS menu").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS orders").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestSeedMenuSkipsNonEmptyTable(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM menu")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.SeedMenu(context.Background(), []domain.NewDish{{Name: "A"}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSeedMenuFillsEmptyTable(t *testing.T) {
	repo, mock := setupRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM menu")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for i := 1; i <= 2; i++ {
		mock.ExpectQuery("INSERT INTO menu").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(i, now))
	}

	n, err := repo.SeedMenu(context.Background(), []domain.NewDish{
		{Name: "A", Price: 1, Category: "主菜", Image: "https://x/a"},
		{Name: "B", Price: 2, Category: "饮品", Image: "https://x/b"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCreateMenuItem(t *testing.T) {
	repo, mock := setupRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO menu").
		WithArgs("Soup", 12.5, "主食", "https://x/soup", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(10, now))

	item, err := repo.CreateMenuItem(context.Background(), &domain.NewDish{
		Name: "Soup", Price: 12.5, Category: "主食", Image: "https://x/soup",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, item.ID)
	assert.Equal(t, now, item.CreatedAt)
}

func TestGetMenuItemNotFound(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM menu WHERE id = \\$1").
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetMenuItem(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetMenuItemsReturnsOnlyExisting(t *testing.T) {
	repo, mock := setupRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM menu WHERE id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(menuCols).AddRow(1, "Burger", 88.0, "主菜", "https://x/b", "", now))

	items, err := repo.GetMenuItems(context.Background(), []int{1, 9})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Burger", items[0].Name)
}

func TestGetMenuItemsNoIDs(t *testing.T) {
	repo, _ := setupRepo(t)

	items, err := repo.GetMenuItems(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteMenuItem(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM menu WHERE id = $1")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.DeleteMenuItem(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestCreateOrderWritesSnapshot(t *testing.T) {
	repo, mock := setupRepo(t)
	now := time.Now()

	order := &domain.Order{
		Table:  5,
		Items:  []domain.OrderLine{{DishID: 1, Name: "Burger", Price: 88, Qty: 2, Subtotal: 176}},
		Total:  176,
		Status: domain.StatusPending,
	}
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(5, `[{"dish_id":1,"name":"Burger","price":88,"qty":2,"subtotal":176}]`, 176.0, "Pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(41, now))

	require.NoError(t, repo.CreateOrder(context.Background(), order))
	assert.Equal(t, 41, order.ID)
	assert.Equal(t, now, order.CreatedAt)
}

func TestListOrdersNormalisesLegacyRows(t *testing.T) {
	repo, mock := setupRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM orders ORDER BY id DESC").
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(2, 4, `[{"name":"Juice","price":32,"qty":3}]`, 96.0, "已出餐 ✅", now).
			AddRow(1, 1, `[{"dish_id":1,"name":"Burger","price":88,"qty":1,"subtotal":88}]`, 88.0, "新订单 ⚡", now))

	orders, err := repo.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, domain.StatusCompleted, orders[0].Status)
	assert.Equal(t, 96.0, orders[0].Items[0].Subtotal)
	assert.Equal(t, domain.StatusPending, orders[1].Status)
	assert.Equal(t, 1, orders[1].Items[0].DishID)
}

func TestGetOrderNotFound(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = \\$1").
		WithArgs(8).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetOrder(context.Background(), 8)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

const completeOrderSQL = "UPDATE orders SET status = $1 WHERE id = $2 AND lower(btrim(status)) <> lower($1) AND NOT (status LIKE ANY($3))"

func TestCompleteOrderOnlyTouchesPending(t *testing.T) {
	repo, mock := setupRepo(t)
	legacy := pq.Array([]string{"%已出餐%", "%已完成%"})

	mock.ExpectExec(regexp.QuoteMeta(completeOrderSQL)).
		WithArgs("Completed", 7, legacy).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(completeOrderSQL)).
		WithArgs("Completed", 7, legacy).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.CompleteOrder(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.CompleteOrder(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestCompleteOrderSkipsLegacyCompletedLabels(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(completeOrderSQL)).
		WithArgs("Completed", 3, pq.Array([]string{"%已出餐%", "%已完成%"})).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.CompleteOrder(context.Background(), 3)
	require.NoError(t, err)
	assert.Zero(t, rows)
}
