package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okarpov/storecore/internal/domain"
	apperrors "github.com/okarpov/storecore/pkg/errors"
	"github.com/okarpov/storecore/pkg/pagination"
)

// OrderRepository is an in-memory order store.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

// NewOrderRepository creates an empty in-memory order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[int64]*domain.Order),
		nextID: orderIDSeed,
	}
}

func copyOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.ProductIDs = slices.Clone(o.ProductIDs)
	return &cp
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	order.ID = r.nextID
	order.CreatedAt = now
	order.UpdatedAt = now

	r.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order", id)
	}
	return copyOrder(o), nil
}

func (r *OrderRepository) sortedIDs() []int64 {
	ids := make([]int64, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r *OrderRepository) List(ctx context.Context, p pagination.Params) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.sortedIDs()
	start := p.Offset()
	if start >= len(ids) {
		return []*domain.Order{}, nil
	}
	end := min(start+p.Limit(), len(ids))

	out := make([]*domain.Order, 0, end-start)
	for _, id := range ids[start:end] {
		out = append(out, copyOrder(r.orders[id]))
	}
	return out, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Order{}
	for _, id := range r.sortedIDs() {
		if o := r.orders[id]; o.CustomerID == customerID {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func (r *OrderRepository) ListBetweenDates(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Order{}
	for _, id := range r.sortedIDs() {
		o := r.orders[id]
		if !o.CreatedAt.Before(from) && !o.CreatedAt.After(to) {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func (r *OrderRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order", id)
	}
	if o.Status != from {
		return nil, apperrors.Conflict(fmt.Sprintf("order %d is %s, expected %s", id, o.Status, from))
	}

	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	return copyOrder(o), nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}
