package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/billing"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrInvoiceNumberCollision reports a number already taken by another invoice of the tenant
var ErrInvoiceNumberCollision = shared.NewDomainError("INVOICE_NUMBER_COLLISION", "Invoice number is already used by another invoice")

// LatestNumberFinder reads the highest stored invoice number for a tenant and prefix
type LatestNumberFinder interface {
	FindLatestNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
}

// InvoiceNumberingService hands out tenant-scoped, monotonic invoice numbers
type InvoiceNumberingService interface {
	// NextNumber reserves the next number. latest seeds a counter that does not exist
	// yet and must read through the caller's transaction.
	NextNumber(ctx context.Context, latest LatestNumberFinder, tenantID uuid.UUID, issuedAt time.Time) (string, error)

	// Resync moves the tenant-year counter forward so the next number is above seq
	Resync(ctx context.Context, tenantID uuid.UUID, issuedAt time.Time, seq int64) error
}

// NextNumberFromLatest derives the next number by scanning the tenant's latest invoice
// for the year and incrementing its numeric suffix. Two concurrent callers can obtain the
// same number; the unique index on (tenant_id, number) rejects the second insert.
func NextNumberFromLatest(ctx context.Context, repo LatestNumberFinder, tenantID uuid.UUID, prefix string, year int) (string, error) {
	yearPrefix := billing.InvoiceNumberPrefix(prefix, year)
	latest, err := repo.FindLatestNumber(ctx, tenantID, yearPrefix)
	if err != nil {
		return "", fmt.Errorf("find latest invoice number: %w", err)
	}

	var seq int64
	if latest != "" {
		if last, ok := billing.ParseInvoiceSequence(latest); ok {
			seq = last
		}
	}
	return billing.FormatInvoiceNumber(prefix, year, seq+1), nil
}
