package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/lemon630/order-meal/order-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func (s *RedisSessionStore) key(id string) string {
	return "session:" + id
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.Client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	if sess.Cart == nil {
		sess.Cart = domain.Cart{}
	}
	return &sess, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *domain.Session) error {
	sess.UpdatedAt = time.Now()
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.key(sess.ID), payload, s.TTL).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, s.key(id)).Err()
}

// RedisStats reads the per-day counters maintained by stats-svc.
type RedisStats struct {
	Client *redis.Client
}

func NewRedisStats(client *redis.Client) *RedisStats {
	return &RedisStats{Client: client}
}

func (s *RedisStats) DailyStats(ctx context.Context, date string, top int) (*domain.DailyStats, error) {
	key := "stats:" + date
	fields, err := s.Client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	stats := &domain.DailyStats{Date: date, TopDishes: []domain.DishCount{}}
	stats.Orders, _ = strconv.Atoi(fields["orders"])
	stats.Completed, _ = strconv.Atoi(fields["completed"])
	stats.Revenue, _ = strconv.ParseFloat(fields["revenue"], 64)

	if top <= 0 {
		return stats, nil
	}
	dishes, err := s.Client.ZRevRangeWithScores(ctx, key+":dishes", 0, int64(top-1)).Result()
	if err != nil {
		return nil, err
	}
	for _, z := range dishes {
		name, _ := z.Member.(string)
		stats.TopDishes = append(stats.TopDishes, domain.DishCount{Name: name, Qty: int(z.Score)})
	}
	return stats, nil
}
