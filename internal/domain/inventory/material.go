package inventory

import (
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeMaterial is the aggregate type name used in events
const AggregateTypeMaterial = "Material"

// DefaultConsumptionRateKgPerM2 is the powder consumption used when a material has no rate configured
var DefaultConsumptionRateKgPerM2 = decimal.NewFromFloat(0.12)

// Material is a coating powder tracked in kilograms.
// StockRealKg must only change through Consume (via the stock ledger).
type Material struct {
	shared.TenantAggregateRoot
	Reference              string
	Name                   string
	StockRealKg            decimal.Decimal
	MinStockKg             decimal.Decimal
	ConsumptionRateKgPerM2 *decimal.Decimal
}

// NewMaterial creates a material with an initial stock level
func NewMaterial(tenantID uuid.UUID, reference, name string, stockKg decimal.Decimal) (*Material, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Material reference cannot be empty")
	}
	if stockKg.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial stock cannot be negative")
	}
	return &Material{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Reference:           reference,
		Name:                name,
		StockRealKg:         stockKg,
		MinStockKg:          decimal.Zero,
	}, nil
}

// SetConsumptionRate overrides the kg/m² rate; a nil or non-positive rate restores the default
func (m *Material) SetConsumptionRate(rate *decimal.Decimal) {
	if rate == nil || !rate.IsPositive() {
		m.ConsumptionRateKgPerM2 = nil
		return
	}
	r := *rate
	m.ConsumptionRateKgPerM2 = &r
}

// EffectiveConsumptionRate returns the configured rate or DefaultConsumptionRateKgPerM2
func (m *Material) EffectiveConsumptionRate() decimal.Decimal {
	if m.ConsumptionRateKgPerM2 == nil || !m.ConsumptionRateKgPerM2.IsPositive() {
		return DefaultConsumptionRateKgPerM2
	}
	return *m.ConsumptionRateKgPerM2
}

// IsBelowMinimum reports whether the current stock sits under the alert threshold
func (m *Material) IsBelowMinimum() bool {
	return m.MinStockKg.IsPositive() && m.StockRealKg.LessThan(m.MinStockKg)
}

// Consume removes qty kilograms for a job and returns the movement to append.
// Stock is clamped at zero; the movement keeps the requested quantity.
func (m *Material) Consume(qty decimal.Decimal, jobID uuid.UUID, actorID *uuid.UUID, reason string) (*StockMovement, error) {
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Consumed quantity must be positive")
	}

	before := m.StockRealKg
	after := before.Sub(qty)
	if after.IsNegative() {
		after = decimal.Zero
	}

	now := time.Now()
	m.StockRealKg = after
	m.IncrementVersion()
	m.Touch(now)

	movement, err := NewConsumptionMovement(m.TenantID, m.ID, jobID, qty, before, after, actorID, reason)
	if err != nil {
		return nil, err
	}

	wasAbove := !m.MinStockKg.IsPositive() || before.GreaterThanOrEqual(m.MinStockKg)
	if wasAbove && m.IsBelowMinimum() {
		m.AddDomainEvent(NewMaterialStockLowEvent(m))
	}

	return movement, nil
}
