package inventory

import (
	"context"

	"github.com/google/uuid"
)

// MaterialRepository defines persistence for materials
type MaterialRepository interface {
	// FindByIDForTenant finds a material by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Material, error)

	// Save creates or fully overwrites a material (setup and tests only)
	Save(ctx context.Context, material *Material) error

	// SaveWithLock writes the stock level only if the stored version is material.Version-1.
	// Returns shared.ErrConcurrencyConflict when another writer got there first.
	SaveWithLock(ctx context.Context, material *Material) error
}

// StockMovementRepository is the append-only store of stock movements
type StockMovementRepository interface {
	// Append inserts a new movement
	Append(ctx context.Context, movement *StockMovement) error

	// FindByJob lists movements recorded for a job, oldest first
	FindByJob(ctx context.Context, tenantID, jobID uuid.UUID) ([]StockMovement, error)

	// FindByMaterial lists movements for a material, oldest first
	FindByMaterial(ctx context.Context, tenantID, materialID uuid.UUID) ([]StockMovement, error)
}
