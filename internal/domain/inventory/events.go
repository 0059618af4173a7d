package inventory

import (
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeMaterialStockLow is raised when consumption drops a material under its minimum
const EventTypeMaterialStockLow = "MaterialStockLow"

// MaterialStockLowEvent signals that a powder needs restocking
type MaterialStockLowEvent struct {
	shared.BaseDomainEvent
	MaterialID  uuid.UUID       `json:"material_id"`
	Reference   string          `json:"reference"`
	StockRealKg decimal.Decimal `json:"stock_real_kg"`
	MinStockKg  decimal.Decimal `json:"min_stock_kg"`
}

// NewMaterialStockLowEvent snapshots the material's stock levels
func NewMaterialStockLowEvent(m *Material) *MaterialStockLowEvent {
	return &MaterialStockLowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialStockLow, AggregateTypeMaterial, m.ID, m.TenantID),
		MaterialID:      m.ID,
		Reference:       m.Reference,
		StockRealKg:     m.StockRealKg,
		MinStockKg:      m.MinStockKg,
	}
}
