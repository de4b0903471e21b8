package service

import (
	"context"
	"time"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
)

const topDishes = 5

type StatsService struct {
	reader StatsReader
	now    func() time.Time
}

func NewStatsService(reader StatsReader) *StatsService {
	return &StatsService{reader: reader, now: time.Now}
}

func (s *StatsService) Today(ctx context.Context) (*domain.DailyStats, error) {
	return s.reader.DailyStats(ctx, s.now().Format("2006-01-02"), topDishes)
}
