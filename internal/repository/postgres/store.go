// Package postgres provides the durable storage backend, built on pgx.
package postgres

import (
	"embed"
	"io/fs"

	"github.com/okarpov/storecore/internal/repository"
	"github.com/okarpov/storecore/pkg/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the embedded migration files, rooted at the
// directory containing the .sql files.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err) // embed layout is fixed at compile time
	}
	return sub
}

// NewStore creates a postgres-backed store over the given connection.
func NewStore(db database.DBTX) *repository.Store {
	return &repository.Store{
		Products:  NewProductRepository(db),
		Customers: NewCustomerRepository(db),
		Orders:    NewOrderRepository(db),
		Reviews:   NewReviewRepository(db),
	}
}
