package production

import (
	"context"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/billing"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/partner"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotificationDispatcher delivers user-facing notices. Delivery is fire-and-forget:
// a nil error only means the notice was handed over.
type NotificationDispatcher interface {
	Notify(ctx context.Context, tenantID uuid.UUID, payload NotificationPayload, targetUserIDs ...uuid.UUID) error
}

// AuditSink stores transition audit entries
type AuditSink interface {
	Append(ctx context.Context, entry *production.AuditLogEntry) error
}

// ConsumptionBooking asks the stock ledger to book a job's powder consumption
type ConsumptionBooking struct {
	TenantID   uuid.UUID
	MaterialID uuid.UUID
	JobID      uuid.UUID
	Quantity   decimal.Decimal
	ActorID    *uuid.UUID
	Reason     string
}

// ConsumptionOutcome reports what the stock ledger did
type ConsumptionOutcome struct {
	Before  decimal.Decimal
	After   decimal.Decimal
	Skipped bool // consumption marker was already set
}

// ConsumptionBooker decrements stock at most once per job
type ConsumptionBooker interface {
	BookCuringConsumption(ctx context.Context, req ConsumptionBooking) (*ConsumptionOutcome, error)
}

// InvoiceRequest carries the snapshot an automatic invoice is built from
type InvoiceRequest struct {
	Job     *production.Job
	Client  *partner.Client
	Quote   *trade.Quote
	ActorID *uuid.UUID
}

// InvoiceOutcome reports the invoice linked to the job and whether this call created it
type InvoiceOutcome struct {
	Invoice *billing.Invoice
	Created bool
}

// InvoiceCreator issues at most one automatic invoice per job
type InvoiceCreator interface {
	CreateForJob(ctx context.Context, req InvoiceRequest) (*InvoiceOutcome, error)
}

// TransitionMetrics records transition and automation outcomes
type TransitionMetrics interface {
	RecordTransition(ctx context.Context, tenantID uuid.UUID, from, to production.JobStatus, kind production.TransitionKind)
	RecordAutomation(ctx context.Context, tenantID uuid.UUID, automation, outcome string)
	RecordConsumption(ctx context.Context, tenantID uuid.UUID, material *inventory.Material, kg decimal.Decimal)
}
