package tests

import (
	"context"
	"testing"
	"time"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
	"github.com/lemon630/order-meal/order-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisSessionStore_RoundTrip(t *testing.T) {
	mr, client := setupRedis(t)
	store := storage.NewRedisSessionStore(client, time.Hour)
	ctx := context.Background()

	sess := domain.NewSession("abc")
	sess.Cart = domain.Cart{1: 2, 3: 1}
	sess.Table = 7
	sess.Select(3)
	require.NoError(t, store.Save(ctx, sess))

	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.Cart{1: 2, 3: 1}, loaded.Cart)
	assert.Equal(t, 7, loaded.Table)
	assert.Equal(t, domain.PageDetail, loaded.Page)
	require.NotNil(t, loaded.SelectedDishID)
	assert.Equal(t, 3, *loaded.SelectedDishID)
}

func TestRedisSessionStore_Missing(t *testing.T) {
	_, client := setupRedis(t)
	store := storage.NewRedisSessionStore(client, time.Hour)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRedisSessionStore_Expires(t *testing.T) {
	mr, client := setupRedis(t)
	store := storage.NewRedisSessionStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewSession("short")))
	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "short")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRedisSessionStore_Delete(t *testing.T) {
	_, client := setupRedis(t)
	store := storage.NewRedisSessionStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewSession("gone")))
	require.NoError(t, store.Delete(ctx, "gone"))

	_, err := store.Load(ctx, "gone")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRedisStats_DailyStats(t *testing.T) {
	mr, client := setupRedis(t)
	stats := storage.NewRedisStats(client)

	mr.HSet("stats:2026-10-16", "orders", "3", "completed", "1", "revenue", "352.5")
	mr.ZAdd("stats:2026-10-16:dishes", 4, "Burger")
	mr.ZAdd("stats:2026-10-16:dishes", 1, "Juice")
	mr.ZAdd("stats:2026-10-16:dishes", 2, "Pasta")

	got, err := stats.DailyStats(context.Background(), "2026-10-16", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Orders)
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 352.5, got.Revenue)
	assert.Equal(t, []domain.DishCount{{Name: "Burger", Qty: 4}, {Name: "Pasta", Qty: 2}}, got.TopDishes)
}

func TestRedisStats_EmptyDay(t *testing.T) {
	_, client := setupRedis(t)
	stats := storage.NewRedisStats(client)

	got, err := stats.DailyStats(context.Background(), "2026-01-01", 5)
	require.NoError(t, err)
	assert.Zero(t, got.Orders)
	assert.Empty(t, got.TopDishes)
}
