package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/pkg/database"
	apperrors "github.com/okarpov/storecore/pkg/errors"
	"github.com/okarpov/storecore/pkg/pagination"
)

const orderColumns = "id, customer_id, product_ids, status, total, created_at, updated_at"

// OrderRepository is the postgres order store.
type OrderRepository struct {
	db database.DBTX
}

// NewOrderRepository creates a postgres-backed order repository.
func NewOrderRepository(db database.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.ProductIDs, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if o.ProductIDs == nil {
		o.ProductIDs = []int64{}
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]*domain.Order, error) {
	defer rows.Close()

	out := []*domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (customer_id, product_ids, status, total)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		order.CustomerID, order.ProductIDs, order.Status, order.Total,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying order %d: %w", id, err)
	}
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, p pagination.Params) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset())
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return collectOrders(rows)
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY id`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for customer %d: %w", customerID, err)
	}
	return collectOrders(rows)
}

func (r *OrderRepository) ListBetweenDates(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE created_at BETWEEN $1 AND $2 ORDER BY id`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("listing orders between dates: %w", err)
	}
	return collectOrders(rows)
}

func (r *OrderRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error) {
	// Conditional on the expected current status so only one of two
	// concurrent transitions can win.
	o, err := scanOrder(r.db.QueryRow(ctx, `
		UPDATE orders
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING `+orderColumns,
		id, from, to))
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("updating status of order %d: %w", id, err)
	}

	var current domain.OrderStatus
	err = r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("checking status of order %d: %w", id, err)
	}
	return nil, apperrors.Conflict(fmt.Sprintf("order %d is %s, expected %s", id, current, from))
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return n, nil
}
