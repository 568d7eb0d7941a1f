package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/okarpov/storecore/internal/cache"
	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/internal/metrics"
	"github.com/okarpov/storecore/internal/repository"
	apperrors "github.com/okarpov/storecore/pkg/errors"
)

// Bounds for the top-products ranking size. Requests without a limit
// get the default; larger requests are clamped to the maximum.
const (
	DefaultTopProductsLimit = 3
	MaxTopProductsLimit     = 10
)

// AnalyticsService implements cross-entity queries over the store.
type AnalyticsService struct {
	products  repository.ProductRepository
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	reviews   repository.ReviewRepository
	cache     *cache.AnalyticsCache
	log       *slog.Logger
}

// NewAnalyticsService creates an analytics service.
func NewAnalyticsService(
	store *repository.Store,
	analyticsCache *cache.AnalyticsCache,
	log *slog.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		products:  store.Products,
		customers: store.Customers,
		orders:    store.Orders,
		reviews:   store.Reviews,
		cache:     analyticsCache,
		log:       log,
	}
}

// TopProducts ranks reviewed products by average rating. Products
// without reviews are excluded. Ties break by review count, then by ID.
func (s *AnalyticsService) TopProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = DefaultTopProductsLimit
	}
	if limit > MaxTopProductsLimit {
		limit = MaxTopProductsLimit
	}

	if cached, err := s.cache.GetTopProducts(ctx, limit); err == nil {
		metrics.AnalyticsCacheHits.WithLabelValues("hit").Inc()
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.WarnContext(ctx, "analytics cache read failed", slog.String("error", err.Error()))
	}
	metrics.AnalyticsCacheHits.WithLabelValues("miss").Inc()

	all, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	reviewed := make([]*domain.Product, 0, len(all))
	for _, p := range all {
		if p.HasReviews() {
			reviewed = append(reviewed, p)
		}
	}

	slices.SortFunc(reviewed, func(a, b *domain.Product) int {
		if a.AverageRating != b.AverageRating {
			if a.AverageRating > b.AverageRating {
				return -1
			}
			return 1
		}
		if a.ReviewCount != b.ReviewCount {
			return b.ReviewCount - a.ReviewCount
		}
		return int(a.ID - b.ID)
	})

	if len(reviewed) > limit {
		reviewed = reviewed[:limit]
	}

	s.cache.SetTopProducts(ctx, limit, reviewed)
	return reviewed, nil
}

// CommonHighRated returns the products both customers reviewed where
// the mean of their two ratings exceeds 4.0, ordered by product ID.
func (s *AnalyticsService) CommonHighRated(ctx context.Context, customerA, customerB int64) ([]*domain.Product, error) {
	if customerA == customerB {
		return nil, apperrors.InvalidInput("customer IDs must differ")
	}
	if _, err := s.customers.GetByID(ctx, customerA); err != nil {
		return nil, err
	}
	if _, err := s.customers.GetByID(ctx, customerB); err != nil {
		return nil, err
	}

	reviewsA, err := s.reviews.ListByCustomer(ctx, customerA)
	if err != nil {
		return nil, err
	}
	reviewsB, err := s.reviews.ListByCustomer(ctx, customerB)
	if err != nil {
		return nil, err
	}

	ratingsA := make(map[int64]int, len(reviewsA))
	for _, rv := range reviewsA {
		ratingsA[rv.ProductID] = rv.Rating
	}

	var productIDs []int64
	for _, rv := range reviewsB {
		ratingA, ok := ratingsA[rv.ProductID]
		if !ok {
			continue
		}
		if float64(ratingA+rv.Rating)/2 > 4.0 {
			productIDs = append(productIDs, rv.ProductID)
		}
	}
	slices.Sort(productIDs)

	out := make([]*domain.Product, 0, len(productIDs))
	for _, id := range productIDs {
		p, err := s.products.GetByID(ctx, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			// Reviews outlive deleted products; skip them here.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Stats holds entity counts for the health and stats endpoints.
type Stats struct {
	Products  int64 `json:"products"`
	Customers int64 `json:"customers"`
	Orders    int64 `json:"orders"`
	Reviews   int64 `json:"reviews"`
}

// Stats returns entity counts across the store.
func (s *AnalyticsService) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	var err error

	if out.Products, err = s.products.Count(ctx); err != nil {
		return Stats{}, err
	}
	if out.Customers, err = s.customers.Count(ctx); err != nil {
		return Stats{}, err
	}
	if out.Orders, err = s.orders.Count(ctx); err != nil {
		return Stats{}, err
	}
	if out.Reviews, err = s.reviews.Count(ctx); err != nil {
		return Stats{}, err
	}
	return out, nil
}
