package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/pkg/pagination"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, p pagination.Params) ([]*domain.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *mockProductRepo) ListAll(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *mockProductRepo) SearchByName(ctx context.Context, name string) ([]*domain.Product, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *mockProductRepo) ListOutOfStock(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepo) Reserve(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	args := m.Called(ctx, id, qty)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) Restore(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	args := m.Called(ctx, id, qty)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) SetRatingSummary(ctx context.Context, id int64, summary domain.RatingSummary) error {
	return m.Called(ctx, id, summary).Error(0)
}

func (m *mockProductRepo) AttachReview(ctx context.Context, productID, reviewID int64) error {
	return m.Called(ctx, productID, reviewID).Error(0)
}

func (m *mockProductRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) List(ctx context.Context, p pagination.Params) ([]*domain.Order, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *mockOrderRepo) ListBetweenDates(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *mockOrderRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, from, to)
	if o := args.Get(0); o != nil {
		return o.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockCustomerRepo struct {
	mock.Mock
}

func (m *mockCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCustomerRepo) List(ctx context.Context, p pagination.Params) ([]*domain.Customer, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]*domain.Customer), args.Error(1)
}

func (m *mockCustomerRepo) AttachOrder(ctx context.Context, customerID, orderID int64) error {
	return m.Called(ctx, customerID, orderID).Error(0)
}

func (m *mockCustomerRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
