package mocks

import (
	"context"

	"github.com/lemon630/order-meal/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// StatsServiceInterface is a mock type for the StatsServiceInterface type
type StatsServiceInterface struct {
	mock.Mock
}

func (_m *StatsServiceInterface) Today(ctx context.Context) (*domain.DailyStats, error) {
	ret := _m.Called(ctx)

	var r0 *domain.DailyStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.DailyStats)
	}
	return r0, ret.Error(1)
}

// NewStatsServiceInterface creates a new instance of StatsServiceInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStatsServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StatsServiceInterface {
	m := &StatsServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
