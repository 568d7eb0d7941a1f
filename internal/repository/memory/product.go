package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/okarpov/storecore/internal/domain"
	apperrors "github.com/okarpov/storecore/pkg/errors"
	"github.com/okarpov/storecore/pkg/pagination"
)

// ProductRepository is an in-memory product store. All methods return
// copies so callers never share memory with the stored entities.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

// NewProductRepository creates an empty in-memory product repository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]*domain.Product),
		nextID:   productIDSeed,
	}
}

func copyProduct(p *domain.Product) *domain.Product {
	cp := *p
	cp.ReviewIDs = slices.Clone(p.ReviewIDs)
	return &cp
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	product.ID = r.nextID
	product.CreatedAt = now
	product.UpdatedAt = now

	r.products[product.ID] = copyProduct(product)
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	return copyProduct(p), nil
}

// sortedIDs returns product IDs in ascending order. Callers hold the lock.
func (r *ProductRepository) sortedIDs() []int64 {
	ids := make([]int64, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r *ProductRepository) List(ctx context.Context, p pagination.Params) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.sortedIDs()
	start := p.Offset()
	if start >= len(ids) {
		return []*domain.Product{}, nil
	}
	end := min(start+p.Limit(), len(ids))

	out := make([]*domain.Product, 0, end-start)
	for _, id := range ids[start:end] {
		out = append(out, copyProduct(r.products[id]))
	}
	return out, nil
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, id := range r.sortedIDs() {
		out = append(out, copyProduct(r.products[id]))
	}
	return out, nil
}

func (r *ProductRepository) SearchByName(ctx context.Context, name string) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(name)
	out := []*domain.Product{}
	for _, id := range r.sortedIDs() {
		p := r.products[id]
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, copyProduct(p))
		}
	}
	return out, nil
}

func (r *ProductRepository) ListOutOfStock(ctx context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Product{}
	for _, id := range r.sortedIDs() {
		if p := r.products[id]; p.OutOfStock() {
			out = append(out, copyProduct(p))
		}
	}
	return out, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return apperrors.NotFound("product", product.ID)
	}

	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.products[product.ID] = copyProduct(product)
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound("product", id)
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) Reserve(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	if p.Stock < qty {
		return nil, apperrors.InsufficientStock(id, qty, p.Stock)
	}

	p.Stock -= qty
	p.UpdatedAt = time.Now().UTC()
	return copyProduct(p), nil
}

func (r *ProductRepository) Restore(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}

	p.Stock += qty
	p.UpdatedAt = time.Now().UTC()
	return copyProduct(p), nil
}

func (r *ProductRepository) SetRatingSummary(ctx context.Context, id int64, summary domain.RatingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return apperrors.NotFound("product", id)
	}

	p.AverageRating = summary.Average
	p.ReviewCount = summary.Count
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProductRepository) AttachReview(ctx context.Context, productID, reviewID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return apperrors.NotFound("product", productID)
	}
	if !slices.Contains(p.ReviewIDs, reviewID) {
		p.ReviewIDs = append(p.ReviewIDs, reviewID)
	}
	return nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}
