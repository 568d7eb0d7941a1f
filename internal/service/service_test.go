package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okarpov/storecore/internal/cache"
	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/internal/event"
	"github.com/okarpov/storecore/internal/repository"
	"github.com/okarpov/storecore/internal/repository/memory"
	"github.com/okarpov/storecore/pkg/logger"
	"github.com/okarpov/storecore/pkg/pagination"
)

// fixtures bundles all services over a shared in-memory store.
type fixtures struct {
	store     *repository.Store
	products  *ProductService
	customers *CustomerService
	orders    *OrderService
	reviews   *ReviewService
	analytics *AnalyticsService
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()

	log := logger.NewWithWriter("test", "error", io.Discard)
	slog.SetDefault(log)

	store := memory.NewStore()
	events := event.NewProducer(nil, log)
	var analyticsCache *cache.AnalyticsCache // nil: cache disabled

	return &fixtures{
		store:     store,
		products:  NewProductService(store.Products, events, analyticsCache, log),
		customers: NewCustomerService(store.Customers, store.Orders, store.Reviews, events, log),
		orders:    NewOrderService(store.Orders, store.Products, store.Customers, events, log),
		reviews:   NewReviewService(store.Reviews, store.Products, store.Customers, events, analyticsCache, log),
		analytics: NewAnalyticsService(store, analyticsCache, log),
	}
}

func summaryWith(avg float64, count int) domain.RatingSummary {
	return domain.RatingSummary{Average: avg, Count: count}
}

func listAllParams() pagination.Params {
	return pagination.Params{Page: 1, PageSize: pagination.MaxPageSize}
}

func (f *fixtures) seedProduct(t *testing.T, name string, price int64, stock int) *domain.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), CreateProductInput{Name: name, Price: price, Stock: stock})
	require.NoError(t, err)
	return p
}

func (f *fixtures) seedCustomer(t *testing.T, name, email string) *domain.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), CreateCustomerInput{Name: name, Email: email})
	require.NoError(t, err)
	return c
}
