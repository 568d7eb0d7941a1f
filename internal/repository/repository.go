package repository

import (
	"context"
	"time"

	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/pkg/pagination"
)

// ProductRepository persists products and their stock. Reserve and
// Restore are atomic with respect to concurrent callers: stock never
// goes negative and no decrement is lost.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, p pagination.Params) ([]*domain.Product, error)
	ListAll(ctx context.Context) ([]*domain.Product, error)
	SearchByName(ctx context.Context, name string) ([]*domain.Product, error)
	ListOutOfStock(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error

	// Reserve decrements stock by qty if at least qty units are
	// available, returning the updated product. Fails with
	// ErrInsufficientStock otherwise.
	Reserve(ctx context.Context, id int64, qty int) (*domain.Product, error)

	// Restore increments stock by qty, returning the updated product.
	Restore(ctx context.Context, id int64, qty int) (*domain.Product, error)

	SetRatingSummary(ctx context.Context, id int64, summary domain.RatingSummary) error
	AttachReview(ctx context.Context, productID, reviewID int64) error
	Count(ctx context.Context) (int64, error)
}

// CustomerRepository persists customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context, p pagination.Params) ([]*domain.Customer, error)
	AttachOrder(ctx context.Context, customerID, orderID int64) error
	Count(ctx context.Context) (int64, error)
}

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, p pagination.Params) ([]*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
	ListBetweenDates(ctx context.Context, from, to time.Time) ([]*domain.Order, error)

	// UpdateStatusFrom moves the order from one status to another only
	// if it is still in the expected status, returning the updated
	// order. Fails with ErrConflict when the order has moved on, so
	// concurrent transitions resolve to exactly one winner.
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error)

	Count(ctx context.Context) (int64, error)
}

// ReviewRepository persists reviews. At most one review exists per
// (product, customer) pair.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error

	// Upsert atomically creates the review or replaces the existing
	// one for the same (product, customer) pair, reporting whether a
	// new record was created. Concurrent upserts for one pair never
	// leave more than one record behind.
	Upsert(ctx context.Context, review *domain.Review) (created bool, err error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	GetByProductCustomer(ctx context.Context, productID, customerID int64) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]*domain.Review, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error

	// RatingSummary computes the current average and count over the
	// product's reviews.
	RatingSummary(ctx context.Context, productID int64) (domain.RatingSummary, error)

	Count(ctx context.Context) (int64, error)
}

// Store bundles all repositories behind one storage backend.
type Store struct {
	Products  ProductRepository
	Customers CustomerRepository
	Orders    OrderRepository
	Reviews   ReviewRepository
}
