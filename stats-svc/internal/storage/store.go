package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lemon630/order-meal/stats-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Retention of the per-day counters.
const Retention = 7 * 24 * time.Hour

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func dayKey(date string) string {
	return "stats:" + date
}

// RecordPlaced counts a new order, its revenue and the quantity of each dish.
// It reports false when the event was already applied.
func (s *Store) RecordPlaced(ctx context.Context, date string, msg domain.KafkaMessage) (bool, error) {
	key := dayKey(date)
	dishesKey := key + ":dishes"
	return s.applyOnce(ctx, seenKey(domain.EventOrderPlaced, msg.OrderID), func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, "orders", 1)
		pipe.HIncrByFloat(ctx, key, "revenue", msg.Total)
		for _, line := range msg.Lines {
			pipe.ZIncrBy(ctx, dishesKey, float64(line.Qty), line.Name)
		}
		pipe.Expire(ctx, key, Retention)
		pipe.Expire(ctx, dishesKey, Retention)
		return nil
	})
}

func (s *Store) RecordCompleted(ctx context.Context, date string, orderID int) (bool, error) {
	key := dayKey(date)
	return s.applyOnce(ctx, seenKey(domain.EventOrderCompleted, orderID), func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, "completed", 1)
		pipe.Expire(ctx, key, Retention)
		return nil
	})
}

func seenKey(eventType string, orderID int) string {
	return fmt.Sprintf("stats:seen:%s:%d", eventType, orderID)
}

// applyOnce runs fn in a MULTI guarded by a SETNX marker against redelivered
// events. The marker is removed again when the transaction fails so the retry is
// counted.
func (s *Store) applyOnce(ctx context.Context, marker string, fn func(redis.Pipeliner) error) (bool, error) {
	first, err := s.rdb.SetNX(ctx, marker, 1, Retention).Result()
	if err != nil || !first {
		return false, err
	}

	if _, err := s.rdb.TxPipelined(ctx, fn); err != nil {
		if delErr := s.rdb.Del(context.WithoutCancel(ctx), marker).Err(); delErr != nil {
			log.Printf("WARNING: failed to clear %s after aborted update: %v", marker, delErr)
		}
		return false, err
	}
	return true, nil
}
