package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/pkg/database"
	apperrors "github.com/okarpov/storecore/pkg/errors"
	"github.com/okarpov/storecore/pkg/pagination"
)

const productColumns = "id, name, price, stock, average_rating, review_count, review_ids, created_at, updated_at"

// ProductRepository is the postgres product store.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a postgres-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.AverageRating,
		&p.ReviewCount, &p.ReviewIDs, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.ReviewIDs == nil {
		p.ReviewIDs = []int64{}
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*domain.Product, error) {
	defer rows.Close()

	out := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, price, stock, average_rating, review_count, review_ids)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		product.Name, product.Price, product.Stock,
		product.AverageRating, product.ReviewCount, product.ReviewIDs,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying product %d: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, p pagination.Params) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset())
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) SearchByName(ctx context.Context, name string) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE name ILIKE '%' || $1 || '%' ORDER BY id`,
		name)
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) ListOutOfStock(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE stock <= 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing out-of-stock products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $2, price = $3, stock = $4, updated_at = now()
		WHERE id = $1`,
		product.ID, product.Name, product.Price, product.Stock)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", product.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", product.ID)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

func (r *ProductRepository) Reserve(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	// Conditional decrement keeps the operation atomic under
	// concurrent reservations.
	p, err := scanProduct(r.db.QueryRow(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING `+productColumns,
		id, qty))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reserving stock for product %d: %w", id, err)
	}

	// The conditional update matched nothing: either the product is
	// gone or stock was too low.
	var stock int
	err = r.db.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("checking stock for product %d: %w", id, err)
	}
	return nil, apperrors.InsufficientStock(id, qty, stock)
}

func (r *ProductRepository) Restore(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		id, qty))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("restoring stock for product %d: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepository) SetRatingSummary(ctx context.Context, id int64, summary domain.RatingSummary) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET average_rating = $2, review_count = $3, updated_at = now()
		WHERE id = $1`,
		id, summary.Average, summary.Count)
	if err != nil {
		return fmt.Errorf("updating rating summary for product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

func (r *ProductRepository) AttachReview(ctx context.Context, productID, reviewID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET review_ids = CASE
			WHEN review_ids @> ARRAY[$2::bigint] THEN review_ids
			ELSE array_append(review_ids, $2::bigint)
		END
		WHERE id = $1`,
		productID, reviewID)
	if err != nil {
		return fmt.Errorf("attaching review %d to product %d: %w", reviewID, productID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", productID)
	}
	return nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return n, nil
}
