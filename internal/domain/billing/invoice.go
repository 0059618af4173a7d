package billing

import (
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice is the aggregate type name used in events
const AggregateTypeInvoice = "Invoice"

// DefaultPaymentTermDays is the due-date offset applied to auto-created invoices
const DefaultPaymentTermDays = 30

// DefaultVATRate is the VAT percentage applied to lines synthesized without a quote
var DefaultVATRate = decimal.NewFromInt(20)

// InvoiceStatus represents the document status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// PaymentStatus represents how much of an invoice has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// InvoiceItem is a snapshot of one billed line
type InvoiceItem struct {
	Designation string
	Quantity    decimal.Decimal
	UnitPriceHT decimal.Decimal
	VATRate     decimal.Decimal // percent
	TotalHT     decimal.Decimal
}

// TVA returns the VAT amount of the line
func (i InvoiceItem) TVA() decimal.Decimal {
	return i.TotalHT.Mul(i.VATRate).Div(decimal.NewFromInt(100))
}

// Invoice is a billing document. At most one auto-created invoice exists per job.
type Invoice struct {
	shared.TenantAggregateRoot
	ClientID      uuid.UUID
	JobID         *uuid.UUID
	QuoteID       *uuid.UUID
	Number        string
	Items         []InvoiceItem
	TotalHT       decimal.Decimal
	TotalTVA      decimal.Decimal
	TotalTTC      decimal.Decimal
	Status        InvoiceStatus
	PaymentStatus PaymentStatus
	AutoCreated   bool
	IssueDate     time.Time
	DueDate       time.Time
	CreatedBy     *uuid.UUID
}

// AutoInvoiceParams carries everything needed to issue an automatic invoice
type AutoInvoiceParams struct {
	TenantID        uuid.UUID
	ClientID        uuid.UUID
	JobID           uuid.UUID
	QuoteID         *uuid.UUID
	Number          string
	Items           []InvoiceItem
	IssuedAt        time.Time
	PaymentTermDays int
	CreatedBy       *uuid.UUID
}

// NewAutoInvoice creates a draft, unpaid invoice for a job
func NewAutoInvoice(p AutoInvoiceParams) (*Invoice, error) {
	if p.TenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if p.ClientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if p.JobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB", "Job ID cannot be empty")
	}
	if p.Number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if len(p.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Invoice must have at least one line")
	}

	issuedAt := p.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	term := p.PaymentTermDays
	if term <= 0 {
		term = DefaultPaymentTermDays
	}
	jobID := p.JobID

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(p.TenantID),
		ClientID:            p.ClientID,
		JobID:               &jobID,
		QuoteID:             p.QuoteID,
		Number:              p.Number,
		Items:               p.Items,
		Status:              InvoiceStatusDraft,
		PaymentStatus:       PaymentStatusUnpaid,
		AutoCreated:         true,
		IssueDate:           issuedAt,
		DueDate:             issuedAt.AddDate(0, 0, term),
		CreatedBy:           p.CreatedBy,
	}
	inv.recalculateTotals()
	inv.AddDomainEvent(NewInvoiceAutoCreatedEvent(inv))
	return inv, nil
}

func (i *Invoice) recalculateTotals() {
	totalHT := decimal.Zero
	totalTVA := decimal.Zero
	for _, item := range i.Items {
		totalHT = totalHT.Add(item.TotalHT)
		totalTVA = totalTVA.Add(item.TVA())
	}
	i.TotalHT = totalHT.Round(2)
	i.TotalTVA = totalTVA.Round(2)
	i.TotalTTC = i.TotalHT.Add(i.TotalTVA)
}
