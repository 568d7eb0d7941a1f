package service

import (
	"context"
	"log/slog"

	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/internal/event"
	"github.com/okarpov/storecore/internal/repository"
	"github.com/okarpov/storecore/pkg/pagination"
)

// CustomerService implements customer operations.
type CustomerService struct {
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	reviews   repository.ReviewRepository
	events    *event.Producer
	log       *slog.Logger
}

// NewCustomerService creates a customer service.
func NewCustomerService(
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	reviews repository.ReviewRepository,
	events *event.Producer,
	log *slog.Logger,
) *CustomerService {
	return &CustomerService{
		customers: customers,
		orders:    orders,
		reviews:   reviews,
		events:    events,
		log:       log,
	}
}

// CreateCustomerInput holds validated fields for a new customer.
type CreateCustomerInput struct {
	Name  string
	Email string
}

func (s *CustomerService) Create(ctx context.Context, in CreateCustomerInput) (*domain.Customer, error) {
	customer := &domain.Customer{
		Name:     in.Name,
		Email:    in.Email,
		OrderIDs: []int64{},
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "customer created",
		slog.Int64("customer_id", customer.ID),
		slog.String("email", customer.Email),
	)

	s.events.CustomerCreated(ctx, customer)
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, p pagination.Params) ([]*domain.Customer, pagination.Meta, error) {
	customers, err := s.customers.List(ctx, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	total, err := s.customers.Count(ctx)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return customers, pagination.NewMeta(p, total), nil
}

// Orders returns the customer's orders, oldest first.
func (s *CustomerService) Orders(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.orders.ListByCustomer(ctx, customerID)
}

// Reviews returns the customer's reviews, oldest first.
func (s *CustomerService) Reviews(ctx context.Context, customerID int64) ([]*domain.Review, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.reviews.ListByCustomer(ctx, customerID)
}
