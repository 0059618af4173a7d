package models

import (
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialModel is the persistence model for the Material aggregate root
type MaterialModel struct {
	TenantAggregateModel
	Reference              string           `gorm:"type:varchar(50);not null"`
	Name                   string           `gorm:"type:varchar(200)"`
	StockRealKg            decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	MinStockKg             decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	ConsumptionRateKgPerM2 *decimal.Decimal `gorm:"type:decimal(10,4)"`
}

// TableName returns the table name for GORM
func (MaterialModel) TableName() string {
	return "materials"
}

// ToDomain converts the persistence model to a domain Material
func (m *MaterialModel) ToDomain() *inventory.Material {
	return &inventory.Material{
		TenantAggregateRoot:    m.ToDomainTenantAggregateRoot(),
		Reference:              m.Reference,
		Name:                   m.Name,
		StockRealKg:            m.StockRealKg,
		MinStockKg:             m.MinStockKg,
		ConsumptionRateKgPerM2: m.ConsumptionRateKgPerM2,
	}
}

// MaterialModelFromDomain creates a new persistence model from a domain Material
func MaterialModelFromDomain(mat *inventory.Material) *MaterialModel {
	m := &MaterialModel{
		Reference:              mat.Reference,
		Name:                   mat.Name,
		StockRealKg:            mat.StockRealKg,
		MinStockKg:             mat.MinStockKg,
		ConsumptionRateKgPerM2: mat.ConsumptionRateKgPerM2,
	}
	m.FromDomainTenantAggregateRoot(mat.TenantAggregateRoot)
	return m
}

// StockMovementModel is the persistence model for append-only stock movements
type StockMovementModel struct {
	BaseModel
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	JobID          *uuid.UUID      `gorm:"type:uuid;index"`
	MovementType   string          `gorm:"type:varchar(20);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason         string          `gorm:"type:varchar(255)"`
	ActorID        *uuid.UUID      `gorm:"type:uuid"`
	OccurredAt     time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		BaseEntity:     m.BaseModel.ToDomain(),
		TenantID:       m.TenantID,
		MaterialID:     m.MaterialID,
		JobID:          m.JobID,
		MovementType:   inventory.MovementType(m.MovementType),
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		ActorID:        m.ActorID,
		OccurredAt:     m.OccurredAt,
	}
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement
func StockMovementModelFromDomain(mv *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{
		TenantID:       mv.TenantID,
		MaterialID:     mv.MaterialID,
		JobID:          mv.JobID,
		MovementType:   string(mv.MovementType),
		Quantity:       mv.Quantity,
		QuantityBefore: mv.QuantityBefore,
		QuantityAfter:  mv.QuantityAfter,
		Reason:         mv.Reason,
		ActorID:        mv.ActorID,
		OccurredAt:     mv.OccurredAt,
	}
	m.FromDomainBaseEntity(mv.BaseEntity)
	return m
}
