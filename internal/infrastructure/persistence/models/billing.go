package models

import (
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/billing"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// job_id is unique so a job can carry at most one invoice, and numbers are unique per tenant.
type InvoiceModel struct {
	BaseModel
	TenantID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_tenant_number,priority:1"`
	Version       int                `gorm:"not null;default:1"`
	ClientID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	JobID         *uuid.UUID         `gorm:"type:uuid;uniqueIndex:idx_invoices_job_id"`
	QuoteID       *uuid.UUID         `gorm:"type:uuid"`
	Number        string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_tenant_number,priority:2"`
	TotalHT       decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTVA      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTTC      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Status        string             `gorm:"type:varchar(20);not null;default:'draft'"`
	PaymentStatus string             `gorm:"type:varchar(20);not null;default:'unpaid'"`
	AutoCreated   bool               `gorm:"not null;default:false"`
	IssueDate     time.Time          `gorm:"not null"`
	DueDate       time.Time          `gorm:"not null"`
	CreatedBy     *uuid.UUID         `gorm:"type:uuid"`
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is the persistence model for invoice lines
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	Designation string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitPriceHT decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VATRate     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TotalHT     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain(), Version: m.Version},
			TenantID:          m.TenantID,
		},
		ClientID:            m.ClientID,
		JobID:               m.JobID,
		QuoteID:             m.QuoteID,
		Number:              m.Number,
		TotalHT:             m.TotalHT,
		TotalTVA:            m.TotalTVA,
		TotalTTC:            m.TotalTTC,
		Status:              billing.InvoiceStatus(m.Status),
		PaymentStatus:       billing.PaymentStatus(m.PaymentStatus),
		AutoCreated:         m.AutoCreated,
		IssueDate:           m.IssueDate,
		DueDate:             m.DueDate,
		CreatedBy:           m.CreatedBy,
		Items:               make([]billing.InvoiceItem, len(m.Items)),
	}
	for i, item := range m.Items {
		inv.Items[i] = billing.InvoiceItem{
			Designation: item.Designation,
			Quantity:    item.Quantity,
			UnitPriceHT: item.UnitPriceHT,
			VATRate:     item.VATRate,
			TotalHT:     item.TotalHT,
		}
	}
	return inv
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		ClientID:      inv.ClientID,
		JobID:         inv.JobID,
		QuoteID:       inv.QuoteID,
		Number:        inv.Number,
		TotalHT:       inv.TotalHT,
		TotalTVA:      inv.TotalTVA,
		TotalTTC:      inv.TotalTTC,
		Status:        string(inv.Status),
		PaymentStatus: string(inv.PaymentStatus),
		AutoCreated:   inv.AutoCreated,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		CreatedBy:     inv.CreatedBy,
		Items:         make([]InvoiceItemModel, len(inv.Items)),
	}
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.TenantID = inv.TenantID
	m.Version = inv.Version
	for i, item := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			ID:          uuid.New(),
			InvoiceID:   inv.ID,
			Position:    i,
			Designation: item.Designation,
			Quantity:    item.Quantity,
			UnitPriceHT: item.UnitPriceHT,
			VATRate:     item.VATRate,
			TotalHT:     item.TotalHT,
		}
	}
	return m
}
