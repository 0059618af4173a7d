package production

import (
	"fmt"
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeJob is the aggregate type name used in events
const AggregateTypeJob = "Job"

// Job is one production unit tracked through the coating pipeline.
// Status changes go through the transition coordinator only.
type Job struct {
	shared.TenantAggregateRoot
	ClientID          uuid.UUID
	MaterialID        *uuid.UUID
	QuoteID           *uuid.UUID
	Number            string
	Status            JobStatus
	WorkflowStep      int
	LayerCount        int
	PricePerM2        decimal.Decimal // used to price invoice lines when there is no quote
	GeometryItems     []GeometryItem
	ConsumptionMarker *time.Time // set once, when powder consumption was booked
	InvoiceMarker     *time.Time // set once, when the automatic invoice was issued
	DeliveredDate     *time.Time
}

// NewJob creates a job in the quote status
func NewJob(tenantID, clientID uuid.UUID, number string) (*Job, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Job number cannot be empty")
	}
	return &Job{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		Number:              number,
		Status:              JobStatusQuote,
		WorkflowStep:        JobStatusQuote.WorkflowStep(),
		LayerCount:          1,
		PricePerM2:          decimal.Zero,
	}, nil
}

// SetMaterial assigns the powder used for the job
func (j *Job) SetMaterial(materialID uuid.UUID) {
	id := materialID
	j.MaterialID = &id
}

// SetQuote links the job to its originating quote
func (j *Job) SetQuote(quoteID uuid.UUID) {
	id := quoteID
	j.QuoteID = &id
}

// SetLayerCount sets the number of powder coats; anything below one counts as one
func (j *Job) SetLayerCount(layers int) {
	if layers < 1 {
		layers = 1
	}
	j.LayerCount = layers
}

// HasMaterial reports whether a powder is assigned
func (j *Job) HasMaterial() bool {
	return j.MaterialID != nil && *j.MaterialID != uuid.Nil
}

// HasQuote reports whether the job came from a quote
func (j *Job) HasQuote() bool {
	return j.QuoteID != nil && *j.QuoteID != uuid.Nil
}

// IsConsumptionBooked reports whether the consumption marker is set
func (j *Job) IsConsumptionBooked() bool {
	return j.ConsumptionMarker != nil
}

// IsInvoiced reports whether the invoice marker is set
func (j *Job) IsInvoiced() bool {
	return j.InvoiceMarker != nil
}

// EffectiveGeometry returns the job's own items, or the quote's lines when it has none
func (j *Job) EffectiveGeometry(quote *trade.Quote) []GeometryItem {
	if len(j.GeometryItems) > 0 {
		return j.GeometryItems
	}
	return GeometryFromQuote(quote)
}

// ApplyStatus moves the job to target and keeps workflow_step in sync.
// delivered_date is stamped the first time the job is delivered.
func (j *Job) ApplyStatus(target JobStatus, at time.Time) (JobStatus, error) {
	if !target.IsValid() {
		return j.Status, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid job status: %s", target))
	}

	previous := j.Status
	j.Status = target
	j.WorkflowStep = target.WorkflowStep()
	if target == JobStatusDelivered && j.DeliveredDate == nil {
		delivered := at
		j.DeliveredDate = &delivered
	}
	j.Touch(at)
	j.IncrementVersion()

	j.AddDomainEvent(NewJobStatusChangedEvent(j, previous))
	return previous, nil
}

// MarkConsumptionBooked sets the consumption marker if it is still unset
func (j *Job) MarkConsumptionBooked(at time.Time) bool {
	if j.ConsumptionMarker != nil {
		return false
	}
	t := at
	j.ConsumptionMarker = &t
	return true
}

// MarkInvoiced sets the invoice marker if it is still unset
func (j *Job) MarkInvoiced(at time.Time) bool {
	if j.InvoiceMarker != nil {
		return false
	}
	t := at
	j.InvoiceMarker = &t
	return true
}
