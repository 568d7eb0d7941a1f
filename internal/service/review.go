package service

import (
	"context"
	"log/slog"

	"github.com/okarpov/storecore/internal/cache"
	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/internal/event"
	"github.com/okarpov/storecore/internal/metrics"
	"github.com/okarpov/storecore/internal/repository"
	apperrors "github.com/okarpov/storecore/pkg/errors"
)

// ReviewService implements review submission and keeps each product's
// denormalized rating summary consistent with its reviews.
type ReviewService struct {
	reviews   repository.ReviewRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	events    *event.Producer
	cache     *cache.AnalyticsCache
	log       *slog.Logger
}

// NewReviewService creates a review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	events *event.Producer,
	analyticsCache *cache.AnalyticsCache,
	log *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		products:  products,
		customers: customers,
		events:    events,
		cache:     analyticsCache,
		log:       log,
	}
}

// SubmitReviewInput holds validated fields for a review submission.
type SubmitReviewInput struct {
	ProductID  int64
	CustomerID int64
	Rating     int
	Comment    string
}

// Submit records a review. A customer holds at most one review per
// product: resubmitting replaces the previous rating and comment.
func (s *ReviewService) Submit(ctx context.Context, in SubmitReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}
	if _, err := s.products.GetByID(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.customers.GetByID(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	// The repository decides create-vs-replace in one atomic step, so
	// two concurrent submissions for the same pair cannot both insert.
	review := &domain.Review{
		ProductID:  in.ProductID,
		CustomerID: in.CustomerID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	created, err := s.reviews.Upsert(ctx, review)
	if err != nil {
		return nil, err
	}

	outcome := "replace"
	if created {
		outcome = "create"
		if err := s.products.AttachReview(ctx, in.ProductID, review.ID); err != nil {
			s.log.ErrorContext(ctx, "attaching review to product",
				slog.Int64("review_id", review.ID),
				slog.Int64("product_id", in.ProductID),
				slog.String("error", err.Error()),
			)
		}
	}
	metrics.ReviewsSubmitted.WithLabelValues(outcome).Inc()

	s.log.InfoContext(ctx, "review submitted",
		slog.Int64("review_id", review.ID),
		slog.Int64("product_id", in.ProductID),
		slog.Int64("customer_id", in.CustomerID),
		slog.Int("rating", in.Rating),
		slog.String("outcome", outcome),
	)

	if err := s.refreshSummary(ctx, in.ProductID); err != nil {
		return nil, err
	}

	// Rankings depend on rating summaries.
	s.cache.Invalidate(ctx)
	s.events.ReviewCreated(ctx, review)
	return review, nil
}

func (s *ReviewService) refreshSummary(ctx context.Context, productID int64) error {
	summary, err := s.reviews.RatingSummary(ctx, productID)
	if err != nil {
		return err
	}
	return s.products.SetRatingSummary(ctx, productID, summary)
}

// Get returns a review by ID.
func (s *ReviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// ListByProduct returns a product's reviews, oldest first.
func (s *ReviewService) ListByProduct(ctx context.Context, productID int64) ([]*domain.Review, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.reviews.ListByProduct(ctx, productID)
}

// RebuildSummaries recomputes every product's rating summary from its
// reviews. Run periodically to heal any drift in the denormalized
// aggregates.
func (s *ReviewService) RebuildSummaries(ctx context.Context) error {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return err
	}

	for _, p := range products {
		if err := s.refreshSummary(ctx, p.ID); err != nil {
			s.log.ErrorContext(ctx, "rebuilding rating summary",
				slog.Int64("product_id", p.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}
