package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/pkg/database"
	apperrors "github.com/okarpov/storecore/pkg/errors"
)

func productRow(id int64, stock int) *pgxmock.Rows {
	now := time.Now().UTC()
	return pgxmock.NewRows([]string{
		"id", "name", "price", "stock", "average_rating", "review_count", "review_ids", "created_at", "updated_at",
	}).AddRow(id, "Laptop", int64(99900), stock, 0.0, 0, []int64{}, now, now)
}

func TestProductRepository_Create(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewProductRepository(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs("Laptop", int64(99900), 10, 0.0, 0, []int64(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(101), now, now))

	p := &domain.Product{Name: "Laptop", Price: 99900, Stock: 10}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(101), p.ID)
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM products WHERE id`).
		WithArgs(int64(999)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductRepository_Reserve_Success(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(`UPDATE products\s+SET stock = stock - \$2`).
		WithArgs(int64(101), 2).
		WillReturnRows(productRow(101, 8))

	p, err := repo.Reserve(context.Background(), 101, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, p.Stock)
}

func TestProductRepository_Reserve_InsufficientStock(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(`UPDATE products\s+SET stock = stock - \$2`).
		WithArgs(int64(101), 5).
		WillReturnRows(pgxmock.NewRows([]string{"id"})) // conditional matched nothing

	mock.ExpectQuery(`SELECT stock FROM products`).
		WithArgs(int64(101)).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}).AddRow(3))

	_, err := repo.Reserve(context.Background(), 101, 5)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
}

func TestProductRepository_Reserve_NotFound(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(`UPDATE products\s+SET stock = stock - \$2`).
		WithArgs(int64(999), 1).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	mock.ExpectQuery(`SELECT stock FROM products`).
		WithArgs(int64(999)).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}))

	_, err := repo.Reserve(context.Background(), 999, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderRepository_UpdateStatusFrom_Conflict(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewOrderRepository(mock)

	mock.ExpectQuery(`UPDATE orders\s+SET status = \$3`).
		WithArgs(int64(301), domain.OrderStatusPending, domain.OrderStatusCancelled).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	mock.ExpectQuery(`SELECT status FROM orders`).
		WithArgs(int64(301)).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(domain.OrderStatusShipped))

	_, err := repo.UpdateStatusFrom(context.Background(), 301, domain.OrderStatusPending, domain.OrderStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestOrderRepository_UpdateStatusFrom_Success(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewOrderRepository(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(`UPDATE orders\s+SET status = \$3`).
		WithArgs(int64(301), domain.OrderStatusPending, domain.OrderStatusShipped).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "customer_id", "product_ids", "status", "total", "created_at", "updated_at",
		}).AddRow(int64(301), int64(201), []int64{101}, domain.OrderStatusShipped, int64(99900), now, now))

	o, err := repo.UpdateStatusFrom(context.Background(), 301, domain.OrderStatusPending, domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, o.Status)
}

func TestReviewRepository_RatingSummary(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewReviewRepository(mock)

	mock.ExpectQuery(`SELECT COALESCE\(AVG\(rating\), 0\)::float8`).
		WithArgs(int64(101)).
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(14.0/3.0, 3))

	s, err := repo.RatingSummary(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, 14.0/3.0, s.Average)
	assert.Equal(t, 3, s.Count)
}

func TestReviewRepository_Upsert(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewReviewRepository(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)INSERT INTO reviews.*ON CONFLICT \(product_id, customer_id\)`).
		WithArgs(int64(101), int64(201), 4, "solid").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at", "created"}).
			AddRow(int64(401), now, now, true))
	mock.ExpectQuery(`(?s)INSERT INTO reviews.*ON CONFLICT \(product_id, customer_id\)`).
		WithArgs(int64(101), int64(201), 5, "better than I thought").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at", "created"}).
			AddRow(int64(401), now, now, false))

	first := &domain.Review{ProductID: 101, CustomerID: 201, Rating: 4, Comment: "solid"}
	created, err := repo.Upsert(context.Background(), first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(401), first.ID)

	second := &domain.Review{ProductID: 101, CustomerID: 201, Rating: 5, Comment: "better than I thought"}
	created, err = repo.Upsert(context.Background(), second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(401), second.ID)
}

func TestCustomerRepository_AttachOrder_NotFound(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewCustomerRepository(mock)

	mock.ExpectExec(`UPDATE customers`).
		WithArgs(int64(999), int64(301)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.AttachOrder(context.Background(), 999, 301)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
