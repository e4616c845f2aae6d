package repository

import (
	"context"

	"quarry-hive/internal/model"
)

// TableRepository defines the interface for metastore table operations
type TableRepository interface {
	// Create a new table record
	Create(ctx context.Context, table *model.Table) error

	// GetByID retrieves a table by its UUID
	GetByID(ctx context.Context, id string) (*model.Table, error)

	// GetByName retrieves a table by schema and name
	GetByName(ctx context.Context, schema, name string) (*model.Table, error)

	// GetAll retrieves tables with pagination, optionally filtered by schema
	GetAll(ctx context.Context, schema string, limit, offset int) ([]*model.Table, int64, error)

	// Update updates an existing table record
	Update(ctx context.Context, table *model.Table) error

	// Delete removes a table record
	Delete(ctx context.Context, id string) error
}
