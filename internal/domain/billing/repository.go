package billing

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository defines persistence for invoices
type InvoiceRepository interface {
	// FindByJob returns the invoice referencing a job, or shared.ErrNotFound
	FindByJob(ctx context.Context, tenantID, jobID uuid.UUID) (*Invoice, error)

	// FindLatestNumber returns the highest number starting with prefix for a tenant, "" when none
	FindLatestNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)

	// Create inserts a new invoice with its items.
	// Returns shared.ErrAlreadyExists when another invoice already references the job.
	Create(ctx context.Context, invoice *Invoice) error

	// CountByJob counts invoices referencing a job
	CountByJob(ctx context.Context, tenantID, jobID uuid.UUID) (int64, error)
}
