package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okarpov/storecore/internal/domain"
	apperrors "github.com/okarpov/storecore/pkg/errors"
	"github.com/okarpov/storecore/pkg/pagination"
)

// CustomerRepository is an in-memory customer store.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[int64]*domain.Customer
	nextID    int64
}

// NewCustomerRepository creates an empty in-memory customer repository.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		customers: make(map[int64]*domain.Customer),
		nextID:    customerIDSeed,
	}
}

func copyCustomer(c *domain.Customer) *domain.Customer {
	cp := *c
	cp.OrderIDs = slices.Clone(c.OrderIDs)
	return &cp
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	customer.ID = r.nextID
	customer.CreatedAt = now
	customer.UpdatedAt = now

	r.customers[customer.ID] = copyCustomer(customer)
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return nil, apperrors.NotFound("customer", id)
	}
	return copyCustomer(c), nil
}

func (r *CustomerRepository) List(ctx context.Context, p pagination.Params) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.customers))
	for id := range r.customers {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	start := p.Offset()
	if start >= len(ids) {
		return []*domain.Customer{}, nil
	}
	end := min(start+p.Limit(), len(ids))

	out := make([]*domain.Customer, 0, end-start)
	for _, id := range ids[start:end] {
		out = append(out, copyCustomer(r.customers[id]))
	}
	return out, nil
}

func (r *CustomerRepository) AttachOrder(ctx context.Context, customerID, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[customerID]
	if !ok {
		return apperrors.NotFound("customer", customerID)
	}
	if !slices.Contains(c.OrderIDs, orderID) {
		c.OrderIDs = append(c.OrderIDs, orderID)
		c.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.customers)), nil
}
