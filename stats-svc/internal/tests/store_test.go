package tests

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/lemon630/order-meal/stats-svc/internal/domain"
	"github.com/lemon630/order-meal/stats-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*miniredis.Miniredis, *storage.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, storage.NewStore(client)
}

func TestStore_RecordPlaced(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()

	first := domain.KafkaMessage{
		Type: domain.EventOrderPlaced, OrderID: 1, Total: 208,
		Lines: []domain.MessageLine{{Name: "Burger", Qty: 2}, {Name: "Juice", Qty: 1}},
	}
	second := domain.KafkaMessage{
		Type: domain.EventOrderPlaced, OrderID: 2, Total: 88,
		Lines: []domain.MessageLine{{Name: "Burger", Qty: 1}},
	}

	applied, err := store.RecordPlaced(ctx, "2026-10-16", first)
	require.NoError(t, err)
	assert.True(t, applied)
	applied, err = store.RecordPlaced(ctx, "2026-10-16", second)
	require.NoError(t, err)
	assert.True(t, applied)

	assert.Equal(t, "2", mr.HGet("stats:2026-10-16", "orders"))
	revenue, err := strconv.ParseFloat(mr.HGet("stats:2026-10-16", "revenue"), 64)
	require.NoError(t, err)
	assert.Equal(t, 296.0, revenue)

	burgers, err := mr.ZScore("stats:2026-10-16:dishes", "Burger")
	require.NoError(t, err)
	assert.Equal(t, 3.0, burgers)
	assert.Equal(t, storage.Retention, mr.TTL("stats:2026-10-16"))
	assert.Equal(t, storage.Retention, mr.TTL("stats:2026-10-16:dishes"))
}

func TestStore_RecordPlacedIgnoresRedelivery(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()
	msg := domain.KafkaMessage{Type: domain.EventOrderPlaced, OrderID: 9, Total: 32, Lines: []domain.MessageLine{{Name: "Juice", Qty: 1}}}

	_, err := store.RecordPlaced(ctx, "2026-10-16", msg)
	require.NoError(t, err)
	applied, err := store.RecordPlaced(ctx, "2026-10-16", msg)
	require.NoError(t, err)

	assert.False(t, applied)
	assert.Equal(t, "1", mr.HGet("stats:2026-10-16", "orders"))
}

func TestStore_RecordCompleted(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()

	applied, err := store.RecordCompleted(ctx, "2026-10-16", 4)
	require.NoError(t, err)
	assert.True(t, applied)
	applied, err = store.RecordCompleted(ctx, "2026-10-16", 4)
	require.NoError(t, err)
	assert.False(t, applied)

	assert.Equal(t, "1", mr.HGet("stats:2026-10-16", "completed"))
}

// abortingTx fails every MULTI/EXEC while abort is set. Single commands and
// plain pipelines pass.
type abortingTx struct {
	abort bool
}

func (h *abortingTx) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *abortingTx) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

func (h *abortingTx) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if h.abort && len(cmds) > 0 && cmds[0].Name() == "multi" {
			return errors.New("EXECABORT transaction discarded")
		}
		return next(ctx, cmds)
	}
}

func TestStore_FailedUpdateIsRetried(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	hook := &abortingTx{abort: true}
	client.AddHook(hook)
	store := storage.NewStore(client)
	ctx := context.Background()

	msg := domain.KafkaMessage{Type: domain.EventOrderPlaced, OrderID: 12, Total: 88, Lines: []domain.MessageLine{{Name: "Burger", Qty: 1}}}

	applied, err := store.RecordPlaced(ctx, "2026-10-16", msg)
	assert.Error(t, err)
	assert.False(t, applied)
	assert.False(t, mr.Exists("stats:seen:order_placed:12"))
	assert.False(t, mr.Exists("stats:2026-10-16"))

	hook.abort = false
	applied, err = store.RecordPlaced(ctx, "2026-10-16", msg)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "1", mr.HGet("stats:2026-10-16", "orders"))
	assert.True(t, mr.Exists("stats:seen:order_placed:12"))
}

func TestStore_FailedCompletionIsRetried(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	hook := &abortingTx{abort: true}
	client.AddHook(hook)
	store := storage.NewStore(client)
	ctx := context.Background()

	_, err := store.RecordCompleted(ctx, "2026-10-16", 4)
	assert.Error(t, err)

	hook.abort = false
	applied, err := store.RecordCompleted(ctx, "2026-10-16", 4)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "1", mr.HGet("stats:2026-10-16", "completed"))
}
