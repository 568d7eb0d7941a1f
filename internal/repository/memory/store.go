// Package memory provides a mutex-guarded in-memory storage backend.
// It is the default backend for local development and is also used
// heavily by the service test suites.
package memory

import "github.com/okarpov/storecore/internal/repository"

// ID sequences per entity kind. The first assigned ID is seed+1.
const (
	productIDSeed  = 100
	customerIDSeed = 200
	orderIDSeed    = 300
	reviewIDSeed   = 400
)

// NewStore creates an in-memory store with all repositories wired.
func NewStore() *repository.Store {
	return &repository.Store{
		Products:  NewProductRepository(),
		Customers: NewCustomerRepository(),
		Orders:    NewOrderRepository(),
		Reviews:   NewReviewRepository(),
	}
}
