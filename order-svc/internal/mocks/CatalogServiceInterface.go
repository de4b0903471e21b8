package mocks

import (
	"context"
	"io"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
	"github.com/lemon630/order-meal/order-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

// CatalogServiceInterface is a mock type for the CatalogServiceInterface type
type CatalogServiceInterface struct {
	mock.Mock
}

func (_m *CatalogServiceInterface) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx)

	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) GetDish(ctx context.Context, id int) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) AddDish(ctx context.Context, dish domain.NewDish) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, dish)

	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) DeleteDish(ctx context.Context, id int) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *CatalogServiceInterface) EmbedImage(r io.Reader, width int) (*service.EmbeddedImage, error) {
	ret := _m.Called(r, width)

	var r0 *service.EmbeddedImage
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*service.EmbeddedImage)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogServiceInterface) AllowedCategories() []string {
	ret := _m.Called()

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0
}

// NewCatalogServiceInterface creates a new instance of CatalogServiceInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewCatalogServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogServiceInterface {
	m := &CatalogServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
