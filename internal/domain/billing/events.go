package billing

import (
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeInvoiceAutoCreated is raised when an invoice is issued by automation
const EventTypeInvoiceAutoCreated = "InvoiceAutoCreated"

// InvoiceAutoCreatedEvent is published after an automatic invoice is committed
type InvoiceAutoCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	JobID     uuid.UUID       `json:"job_id"`
	ClientID  uuid.UUID       `json:"client_id"`
	Number    string          `json:"number"`
	TotalTTC  decimal.Decimal `json:"total_ttc"`
}

// NewInvoiceAutoCreatedEvent creates the event from an invoice
func NewInvoiceAutoCreatedEvent(inv *Invoice) *InvoiceAutoCreatedEvent {
	var jobID uuid.UUID
	if inv.JobID != nil {
		jobID = *inv.JobID
	}
	return &InvoiceAutoCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceAutoCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		JobID:           jobID,
		ClientID:        inv.ClientID,
		Number:          inv.Number,
		TotalTTC:        inv.TotalTTC,
	}
}
