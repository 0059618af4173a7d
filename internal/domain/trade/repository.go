package trade

import (
	"context"

	"github.com/google/uuid"
)

// QuoteRepository defines read access to quotes
type QuoteRepository interface {
	// FindByIDForTenant finds a quote and its items by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)

	// Save creates or replaces a quote with its items
	Save(ctx context.Context, quote *Quote) error
}
