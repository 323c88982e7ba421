package repository

import (
	"context"
	"errors"

	"companyapi/internal/model"
)

var (
	// ErrStoreUnavailable means the backing store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrConstraintViolation means the data was rejected by a storage-level constraint.
	ErrConstraintViolation = errors.New("constraint violation")
)

// CompanyRepository defines data access for companies using SQL queries only.
// No business logic here, strictly persistence operations.
type CompanyRepository interface {
	// FindByID returns the company with the given ID, or (nil, nil) when there is none.
	FindByID(ctx context.Context, id int64) (*model.Company, error)

	// FindAll returns every company regardless of status, ordered by ID.
	FindAll(ctx context.Context) ([]model.Company, error)

	// Save inserts c when c.ID is zero (the store assigns the ID) and otherwise
	// overwrites the row with the same ID. Returns the persisted state.
	Save(ctx context.Context, c *model.Company) (*model.Company, error)
}
