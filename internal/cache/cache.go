// Package cache provides the redis-backed cache for analytics query
// results.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okarpov/storecore/internal/domain"
)

const (
	topProductsKeyPrefix = "analytics:top-products:"

	// Invalidation sweeps keys for limits 1..maxCachedLimit. Larger
	// limits are never cached.
	maxCachedLimit = 10
)

// ErrMiss is returned when the requested key is not cached.
var ErrMiss = errors.New("cache miss")

// AnalyticsCache caches top-product rankings in redis. A nil
// AnalyticsCache is a no-op, so deployments can run without redis.
type AnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewAnalyticsCache creates a redis-backed analytics cache.
func NewAnalyticsCache(client *redis.Client, ttl time.Duration, log *slog.Logger) *AnalyticsCache {
	return &AnalyticsCache{client: client, ttl: ttl, log: log}
}

func topProductsKey(limit int) string {
	return fmt.Sprintf("%s%d", topProductsKeyPrefix, limit)
}

// GetTopProducts returns the cached ranking for the given limit, or
// ErrMiss.
func (c *AnalyticsCache) GetTopProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	if c == nil || c.client == nil {
		return nil, ErrMiss
	}

	raw, err := c.client.Get(ctx, topProductsKey(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading top products from cache: %w", err)
	}

	var products []*domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decoding cached top products: %w", err)
	}
	return products, nil
}

// SetTopProducts caches the ranking for the given limit. Limits above
// maxCachedLimit are not cached because invalidation only sweeps the
// small-limit keys.
func (c *AnalyticsCache) SetTopProducts(ctx context.Context, limit int, products []*domain.Product) {
	if c == nil || c.client == nil || limit > maxCachedLimit {
		return
	}

	raw, err := json.Marshal(products)
	if err != nil {
		c.log.ErrorContext(ctx, "encoding top products for cache", slog.String("error", err.Error()))
		return
	}

	if err := c.client.Set(ctx, topProductsKey(limit), raw, c.ttl).Err(); err != nil {
		c.log.ErrorContext(ctx, "caching top products", slog.String("error", err.Error()))
	}
}

// Invalidate drops all cached rankings. Called whenever a review or
// product mutation can change the ordering.
func (c *AnalyticsCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	keys := make([]string, 0, maxCachedLimit)
	for limit := 1; limit <= maxCachedLimit; limit++ {
		keys = append(keys, topProductsKey(limit))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.ErrorContext(ctx, "invalidating analytics cache", slog.String("error", err.Error()))
	}
}
