package mocks

import (
	"context"

	"github.com/lemon630/order-meal/stats-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// StoreInterface is a mock type for the StoreInterface type
type StoreInterface struct {
	mock.Mock
}

func (_m *StoreInterface) RecordPlaced(ctx context.Context, date string, msg domain.KafkaMessage) (bool, error) {
	ret := _m.Called(ctx, date, msg)
	return ret.Bool(0), ret.Error(1)
}

func (_m *StoreInterface) RecordCompleted(ctx context.Context, date string, orderID int) (bool, error) {
	ret := _m.Called(ctx, date, orderID)
	return ret.Bool(0), ret.Error(1)
}

// NewStoreInterface creates a new instance of StoreInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
