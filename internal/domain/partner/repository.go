package partner

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository defines persistence for clients
type ClientRepository interface {
	// FindByIDForTenant finds a client by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error
}
