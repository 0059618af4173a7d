package models

import (
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteModel is the persistence model for the Quote aggregate root
type QuoteModel struct {
	TenantAggregateModel
	ClientID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Number   string           `gorm:"type:varchar(50);not null"`
	TotalHT  decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTVA decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTTC decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Items    []QuoteItemModel `gorm:"foreignKey:QuoteID;references:ID"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// QuoteItemModel is the persistence model for quote lines
type QuoteItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	Designation string          `gorm:"type:varchar(255);not null"`
	LengthMM    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	WidthMM     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Quantity    int             `gorm:"not null;default:1"`
	SurfaceM2   decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	UnitPriceHT decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	VATRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:20"`
	TotalHT     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (QuoteItemModel) TableName() string {
	return "quote_items"
}

// ToDomain converts the persistence model to a domain Quote
func (m *QuoteModel) ToDomain() *trade.Quote {
	q := &trade.Quote{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		ClientID:            m.ClientID,
		Number:              m.Number,
		TotalHT:             m.TotalHT,
		TotalTVA:            m.TotalTVA,
		TotalTTC:            m.TotalTTC,
		Items:               make([]trade.QuoteItem, len(m.Items)),
	}
	for i, item := range m.Items {
		q.Items[i] = trade.QuoteItem{
			Designation: item.Designation,
			LengthMM:    item.LengthMM,
			WidthMM:     item.WidthMM,
			Quantity:    item.Quantity,
			SurfaceM2:   item.SurfaceM2,
			UnitPriceHT: item.UnitPriceHT,
			VATRate:     item.VATRate,
			TotalHT:     item.TotalHT,
		}
	}
	return q
}

// QuoteModelFromDomain creates a new persistence model from a domain Quote
func QuoteModelFromDomain(q *trade.Quote) *QuoteModel {
	m := &QuoteModel{
		ClientID: q.ClientID,
		Number:   q.Number,
		TotalHT:  q.TotalHT,
		TotalTVA: q.TotalTVA,
		TotalTTC: q.TotalTTC,
		Items:    make([]QuoteItemModel, len(q.Items)),
	}
	m.FromDomainTenantAggregateRoot(q.TenantAggregateRoot)
	for i, item := range q.Items {
		m.Items[i] = QuoteItemModel{
			ID:          uuid.New(),
			QuoteID:     q.ID,
			Position:    i,
			Designation: item.Designation,
			LengthMM:    item.LengthMM,
			WidthMM:     item.WidthMM,
			Quantity:    item.Quantity,
			SurfaceM2:   item.SurfaceM2,
			UnitPriceHT: item.UnitPriceHT,
			VATRate:     item.VATRate,
			TotalHT:     item.TotalHT,
		}
	}
	return m
}
