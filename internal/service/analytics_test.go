package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okarpov/storecore/internal/cache"
	apperrors "github.com/okarpov/storecore/pkg/errors"
	"github.com/okarpov/storecore/pkg/logger"
)

func (f *fixtures) seedReview(t *testing.T, productID, customerID int64, rating int) {
	t.Helper()
	_, err := f.reviews.Submit(context.Background(), SubmitReviewInput{
		ProductID: productID, CustomerID: customerID, Rating: rating,
	})
	require.NoError(t, err)
}

func TestAnalyticsService_TopProducts(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	laptop := f.seedProduct(t, "Laptop", 99900, 10)
	mouse := f.seedProduct(t, "Mouse", 2500, 5)
	desk := f.seedProduct(t, "Desk", 45000, 3)
	unreviewed := f.seedProduct(t, "Cable", 900, 100)

	alice := f.seedCustomer(t, "Alice", "alice@example.com")
	bob := f.seedCustomer(t, "Bob", "bob@example.com")

	f.seedReview(t, laptop.ID, alice.ID, 5)
	f.seedReview(t, laptop.ID, bob.ID, 4) // avg 4.5, count 2
	f.seedReview(t, mouse.ID, alice.ID, 5)
	f.seedReview(t, mouse.ID, bob.ID, 4) // avg 4.5, count 2 -> ties with laptop, lower ID wins
	f.seedReview(t, desk.ID, alice.ID, 3)

	top, err := f.analytics.TopProducts(ctx, 10)
	require.NoError(t, err)

	require.Len(t, top, 3, "unreviewed products are excluded")
	assert.Equal(t, laptop.ID, top[0].ID)
	assert.Equal(t, mouse.ID, top[1].ID)
	assert.Equal(t, desk.ID, top[2].ID)

	for _, p := range top {
		assert.NotEqual(t, unreviewed.ID, p.ID)
	}

	limited, err := f.analytics.TopProducts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, laptop.ID, limited[0].ID)
}

func TestAnalyticsService_TopProducts_LimitBounds(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	alice := f.seedCustomer(t, "Alice", "alice@example.com")
	for i := 0; i < 12; i++ {
		p := f.seedProduct(t, fmt.Sprintf("Product %d", i), 100, 1)
		f.seedReview(t, p.ID, alice.ID, 5)
	}

	// No limit requested falls back to the default of 3.
	top, err := f.analytics.TopProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, DefaultTopProductsLimit)
	assert.Len(t, top, 3)

	// Oversized requests are clamped to 10.
	clamped, err := f.analytics.TopProducts(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, clamped, MaxTopProductsLimit)
}

func TestAnalyticsService_TopProducts_ClampedLimitCacheKey(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewWithWriter("test", "error", io.Discard)
	f.analytics.cache = cache.NewAnalyticsCache(client, time.Minute, log)

	p := f.seedProduct(t, "Laptop", 99900, 10)
	alice := f.seedCustomer(t, "Alice", "alice@example.com")
	f.seedReview(t, p.ID, alice.ID, 5)

	_, err := f.analytics.TopProducts(ctx, 50)
	require.NoError(t, err)

	// The clamped limit is what gets cached, so the invalidation sweep
	// over limits 1..10 can reach it.
	assert.True(t, mr.Exists("analytics:top-products:10"))
	assert.False(t, mr.Exists("analytics:top-products:50"))
}

func TestAnalyticsService_TopProducts_ReviewCountTieBreak(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	one := f.seedProduct(t, "One", 100, 1)
	many := f.seedProduct(t, "Many", 100, 1)

	alice := f.seedCustomer(t, "Alice", "alice@example.com")
	bob := f.seedCustomer(t, "Bob", "bob@example.com")

	f.seedReview(t, one.ID, alice.ID, 4)
	f.seedReview(t, many.ID, alice.ID, 4)
	f.seedReview(t, many.ID, bob.ID, 4)

	// Same average; more reviews ranks first.
	top, err := f.analytics.TopProducts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, many.ID, top[0].ID)
	assert.Equal(t, one.ID, top[1].ID)
}

func TestAnalyticsService_TopProducts_UsesCache(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewWithWriter("test", "error", io.Discard)
	f.analytics.cache = cache.NewAnalyticsCache(client, time.Minute, log)

	p := f.seedProduct(t, "Laptop", 99900, 10)
	alice := f.seedCustomer(t, "Alice", "alice@example.com")
	f.seedReview(t, p.ID, alice.ID, 5)

	first, err := f.analytics.TopProducts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Mutate the store behind the cache's back: the stale ranking is
	// served until invalidation.
	require.NoError(t, f.store.Products.Delete(ctx, p.ID))

	cached, err := f.analytics.TopProducts(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	f.analytics.cache.Invalidate(ctx)

	fresh, err := f.analytics.TopProducts(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestAnalyticsService_CommonHighRated(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	laptop := f.seedProduct(t, "Laptop", 99900, 10)
	mouse := f.seedProduct(t, "Mouse", 2500, 5)
	desk := f.seedProduct(t, "Desk", 45000, 3)

	alice := f.seedCustomer(t, "Alice", "alice@example.com")
	bob := f.seedCustomer(t, "Bob", "bob@example.com")

	f.seedReview(t, laptop.ID, alice.ID, 5)
	f.seedReview(t, laptop.ID, bob.ID, 4) // mean 4.5 -> included
	f.seedReview(t, mouse.ID, alice.ID, 4)
	f.seedReview(t, mouse.ID, bob.ID, 4) // mean 4.0 -> excluded (must exceed 4.0)
	f.seedReview(t, desk.ID, alice.ID, 5)
	// Bob never reviewed the desk -> excluded.

	common, err := f.analytics.CommonHighRated(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, common, 1)
	assert.Equal(t, laptop.ID, common[0].ID)
}

func TestAnalyticsService_CommonHighRated_Validation(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	alice := f.seedCustomer(t, "Alice", "alice@example.com")

	_, err := f.analytics.CommonHighRated(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = f.analytics.CommonHighRated(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAnalyticsService_Stats(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Laptop", 99900, 10)
	alice := f.seedCustomer(t, "Alice", "alice@example.com")
	_, err := f.orders.Create(ctx, alice.ID, []int64{p.ID})
	require.NoError(t, err)
	f.seedReview(t, p.ID, alice.ID, 5)

	stats, err := f.analytics.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Products: 1, Customers: 1, Orders: 1, Reviews: 1}, stats)
}

func TestCustomerService_OrdersAndReviews(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Laptop", 99900, 10)
	alice := f.seedCustomer(t, "Alice", "alice@example.com")

	order, err := f.orders.Create(ctx, alice.ID, []int64{p.ID})
	require.NoError(t, err)
	f.seedReview(t, p.ID, alice.ID, 5)

	orders, err := f.customers.Orders(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	reviews, err := f.customers.Reviews(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = f.customers.Orders(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
