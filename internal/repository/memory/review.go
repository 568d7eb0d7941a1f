package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okarpov/storecore/internal/domain"
	apperrors "github.com/okarpov/storecore/pkg/errors"
)

// ReviewRepository is an in-memory review store.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews map[int64]*domain.Review
	nextID  int64
}

// NewReviewRepository creates an empty in-memory review repository.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		reviews: make(map[int64]*domain.Review),
		nextID:  reviewIDSeed,
	}
}

func copyReview(rv *domain.Review) *domain.Review {
	cp := *rv
	return &cp
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	review.ID = r.nextID
	review.CreatedAt = now
	review.UpdatedAt = now

	r.reviews[review.ID] = copyReview(review)
	return nil
}

func (r *ReviewRepository) Upsert(ctx context.Context, review *domain.Review) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Lookup and write happen under one lock so concurrent upserts for
	// the same pair cannot both insert.
	for _, existing := range r.reviews {
		if existing.ProductID == review.ProductID && existing.CustomerID == review.CustomerID {
			existing.Rating = review.Rating
			existing.Comment = review.Comment
			existing.UpdatedAt = time.Now().UTC()

			review.ID = existing.ID
			review.CreatedAt = existing.CreatedAt
			review.UpdatedAt = existing.UpdatedAt
			return false, nil
		}
	}

	r.nextID++
	now := time.Now().UTC()
	review.ID = r.nextID
	review.CreatedAt = now
	review.UpdatedAt = now

	r.reviews[review.ID] = copyReview(review)
	return true, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rv, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	return copyReview(rv), nil
}

func (r *ReviewRepository) GetByProductCustomer(ctx context.Context, productID, customerID int64) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rv := range r.reviews {
		if rv.ProductID == productID && rv.CustomerID == customerID {
			return copyReview(rv), nil
		}
	}
	return nil, apperrors.NotFound("review", 0)
}

func (r *ReviewRepository) sortedIDs() []int64 {
	ids := make([]int64, 0, len(r.reviews))
	for id := range r.reviews {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Review{}
	for _, id := range r.sortedIDs() {
		if rv := r.reviews[id]; rv.ProductID == productID {
			out = append(out, copyReview(rv))
		}
	}
	return out, nil
}

func (r *ReviewRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Review{}
	for _, id := range r.sortedIDs() {
		if rv := r.reviews[id]; rv.CustomerID == customerID {
			out = append(out, copyReview(rv))
		}
	}
	return out, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.reviews[review.ID]
	if !ok {
		return apperrors.NotFound("review", review.ID)
	}

	review.CreatedAt = existing.CreatedAt
	review.UpdatedAt = time.Now().UTC()
	r.reviews[review.ID] = copyReview(review)
	return nil
}

func (r *ReviewRepository) RatingSummary(ctx context.Context, productID int64) (domain.RatingSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum, count int
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return domain.RatingSummary{}, nil
	}

	return domain.RatingSummary{
		Average: float64(sum) / float64(count),
		Count:   count,
	}, nil
}

func (r *ReviewRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.reviews)), nil
}
