package mocks

import (
	"context"

	"github.com/lemon630/order-meal/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// StatsReader is a mock type for the StatsReader type
type StatsReader struct {
	mock.Mock
}

func (_m *StatsReader) DailyStats(ctx context.Context, date string, top int) (*domain.DailyStats, error) {
	ret := _m.Called(ctx, date, top)

	var r0 *domain.DailyStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.DailyStats)
	}
	return r0, ret.Error(1)
}

// NewStatsReader creates a new instance of StatsReader. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStatsReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *StatsReader {
	m := &StatsReader{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
