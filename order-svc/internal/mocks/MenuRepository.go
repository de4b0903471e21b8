package mocks

import (
	"context"

	"github.com/lemon630/order-meal/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MenuRepository is a mock type for the MenuRepository type
type MenuRepository struct {
	mock.Mock
}

func (_m *MenuRepository) CreateMenuItem(ctx context.Context, dish *domain.NewDish) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, dish)

	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *MenuRepository) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx)

	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *MenuRepository) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *MenuRepository) GetMenuItems(ctx context.Context, ids []int) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx, ids)

	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *MenuRepository) DeleteMenuItem(ctx context.Context, id int) (int64, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MenuRepository) SeedMenu(ctx context.Context, dishes []domain.NewDish) (int, error) {
	ret := _m.Called(ctx, dishes)
	return ret.Int(0), ret.Error(1)
}

// NewMenuRepository creates a new instance of MenuRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMenuRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
