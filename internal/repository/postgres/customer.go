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

const customerColumns = "id, name, email, order_ids, created_at, updated_at"

// CustomerRepository is the postgres customer store.
type CustomerRepository struct {
	db database.DBTX
}

// NewCustomerRepository creates a postgres-backed customer repository.
func NewCustomerRepository(db database.DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.OrderIDs, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.OrderIDs == nil {
		c.OrderIDs = []int64{}
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (name, email)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`,
		customer.Name, customer.Email,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("customer", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer %d: %w", id, err)
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context, p pagination.Params) ([]*domain.Customer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset())
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	out := []*domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CustomerRepository) AttachOrder(ctx context.Context, customerID, orderID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET order_ids = CASE
			WHEN order_ids @> ARRAY[$2::bigint] THEN order_ids
			ELSE array_append(order_ids, $2::bigint)
		END, updated_at = now()
		WHERE id = $1`,
		customerID, orderID)
	if err != nil {
		return fmt.Errorf("attaching order %d to customer %d: %w", orderID, customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("customer", customerID)
	}
	return nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting customers: %w", err)
	}
	return n, nil
}
