package inventory

import (
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement
type MovementType string

const (
	// MovementTypeConsumption is powder burned during a curing cycle
	MovementTypeConsumption MovementType = "CONSUMPTION"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// StockMovement is an immutable record of a stock change.
// Corrections are made with new movements, never by editing old ones.
type StockMovement struct {
	shared.BaseEntity
	TenantID       uuid.UUID
	MaterialID     uuid.UUID
	JobID          *uuid.UUID
	MovementType   MovementType
	Quantity       decimal.Decimal // requested quantity, always positive
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	Reason         string
	ActorID        *uuid.UUID
	OccurredAt     time.Time
}

// NewConsumptionMovement records qty kilograms consumed by a job
func NewConsumptionMovement(
	tenantID uuid.UUID,
	materialID uuid.UUID,
	jobID uuid.UUID,
	qty decimal.Decimal,
	before decimal.Decimal,
	after decimal.Decimal,
	actorID *uuid.UUID,
	reason string,
) (*StockMovement, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MATERIAL", "Material ID cannot be empty")
	}
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	var job *uuid.UUID
	if jobID != uuid.Nil {
		j := jobID
		job = &j
	}

	base := shared.NewBaseEntity()
	return &StockMovement{
		BaseEntity:     base,
		TenantID:       tenantID,
		MaterialID:     materialID,
		JobID:          job,
		MovementType:   MovementTypeConsumption,
		Quantity:       qty,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reason:         reason,
		ActorID:        actorID,
		OccurredAt:     base.CreatedAt,
	}, nil
}

// Clamped reports whether the stock floor absorbed part of the requested quantity
func (mv *StockMovement) Clamped() bool {
	return mv.QuantityBefore.Sub(mv.Quantity).LessThan(mv.QuantityAfter)
}
