package production

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobRepository defines persistence for jobs.
// Status and marker writes are conditional so concurrent transitions cannot both win.
type JobRepository interface {
	// FindByIDForTenant finds a job with its geometry by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Job, error)

	// Save creates or fully overwrites a job (creation and tests only)
	Save(ctx context.Context, job *Job) error

	// UpdateStatus writes status, workflow_step and delivered_date only if the stored
	// status still equals expected. Returns shared.ErrConcurrencyConflict otherwise.
	UpdateStatus(ctx context.Context, job *Job, expected JobStatus) error

	// ClaimConsumptionMarker sets consumption_marker = at where it is null.
	// Returns false when the marker was already set.
	ClaimConsumptionMarker(ctx context.Context, tenantID, jobID uuid.UUID, at time.Time) (bool, error)

	// ClaimInvoiceMarker sets invoice_marker = at where it is null.
	// Returns false when the marker was already set.
	ClaimInvoiceMarker(ctx context.Context, tenantID, jobID uuid.UUID, at time.Time) (bool, error)
}

// AuditLogRepository is the append-only store of transition audit entries
type AuditLogRepository interface {
	// Append inserts an entry
	Append(ctx context.Context, entry *AuditLogEntry) error

	// FindByJob lists entries for a job, oldest first
	FindByJob(ctx context.Context, tenantID, jobID uuid.UUID) ([]AuditLogEntry, error)
}
