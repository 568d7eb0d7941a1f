package service

import (
	"context"
	"log/slog"

	"github.com/okarpov/storecore/internal/cache"
	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/internal/event"
	"github.com/okarpov/storecore/internal/repository"
	"github.com/okarpov/storecore/pkg/pagination"
)

// ProductService implements catalog operations.
type ProductService struct {
	products repository.ProductRepository
	events   *event.Producer
	cache    *cache.AnalyticsCache
	log      *slog.Logger
}

// NewProductService creates a product service.
func NewProductService(
	products repository.ProductRepository,
	events *event.Producer,
	analyticsCache *cache.AnalyticsCache,
	log *slog.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		events:   events,
		cache:    analyticsCache,
		log:      log,
	}
}

// CreateProductInput holds validated fields for a new product.
type CreateProductInput struct {
	Name  string
	Price int64
	Stock int
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:      in.Name,
		Price:     in.Price,
		Stock:     in.Stock,
		ReviewIDs: []int64{},
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
		slog.Int("stock", product.Stock),
	)

	s.events.ProductCreated(ctx, product)
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, p pagination.Params) ([]*domain.Product, pagination.Meta, error) {
	products, err := s.products.List(ctx, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return products, pagination.NewMeta(p, total), nil
}

// Search finds products whose name contains the given substring,
// case-insensitively.
func (s *ProductService) Search(ctx context.Context, name string) ([]*domain.Product, error) {
	return s.products.SearchByName(ctx, name)
}

// OutOfStock lists products with no units available.
func (s *ProductService) OutOfStock(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListOutOfStock(ctx)
}

// UpdateProductInput holds validated fields for a product update.
type UpdateProductInput struct {
	Name  string
	Price int64
	Stock int
}

func (s *ProductService) Update(ctx context.Context, id int64, in UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Price = in.Price
	product.Stock = in.Stock

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "product updated", slog.Int64("product_id", id))

	// Cached rankings carry product fields; drop them on any change.
	s.cache.Invalidate(ctx)
	s.events.ProductUpdated(ctx, product)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))

	// A deleted product must drop out of cached rankings.
	s.cache.Invalidate(ctx)
	s.events.ProductDeleted(ctx, id)
	return nil
}
