package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/pkg/database"
	apperrors "github.com/okarpov/storecore/pkg/errors"
)

const reviewColumns = "id, product_id, customer_id, rating, comment, created_at, updated_at"

// ReviewRepository is the postgres review store.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a postgres-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.CustomerID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func collectReviews(rows pgx.Rows) ([]*domain.Review, error) {
	defer rows.Close()

	out := []*domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO reviews (product_id, customer_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		review.ProductID, review.CustomerID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting review: %w", err)
	}
	return nil
}

// Upsert inserts the review or, when the (product, customer) pair
// already has one, replaces its rating and comment in place. The
// created flag comes from xmax: zero means the row was freshly
// inserted rather than updated.
func (r *ReviewRepository) Upsert(ctx context.Context, review *domain.Review) (bool, error) {
	var created bool
	err := r.db.QueryRow(ctx, `
		INSERT INTO reviews (product_id, customer_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, customer_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = now()
		RETURNING id, created_at, updated_at, (xmax = 0)`,
		review.ProductID, review.CustomerID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upserting review: %w", err)
	}
	return created, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("review", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying review %d: %w", id, err)
	}
	return rv, nil
}

func (r *ReviewRepository) GetByProductCustomer(ctx context.Context, productID, customerID int64) (*domain.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE product_id = $1 AND customer_id = $2`,
		productID, customerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("review", 0)
	}
	if err != nil {
		return nil, fmt.Errorf("querying review for product %d customer %d: %w", productID, customerID, err)
	}
	return rv, nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64) ([]*domain.Review, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE product_id = $1 ORDER BY id`,
		productID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for product %d: %w", productID, err)
	}
	return collectReviews(rows)
}

func (r *ReviewRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Review, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE customer_id = $1 ORDER BY id`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for customer %d: %w", customerID, err)
	}
	return collectReviews(rows)
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = now()
		WHERE id = $1`,
		review.ID, review.Rating, review.Comment)
	if err != nil {
		return fmt.Errorf("updating review %d: %w", review.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review", review.ID)
	}
	return nil
}

func (r *ReviewRepository) RatingSummary(ctx context.Context, productID int64) (domain.RatingSummary, error) {
	var s domain.RatingSummary
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews WHERE product_id = $1`,
		productID,
	).Scan(&s.Average, &s.Count)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("computing rating summary for product %d: %w", productID, err)
	}
	return s, nil
}

func (r *ReviewRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting reviews: %w", err)
	}
	return n, nil
}
