package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	appproduction "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrConsumptionAlreadyBooked is returned when the job's consumption marker is already set
var ErrConsumptionAlreadyBooked = shared.NewDomainError("CONSUMPTION_ALREADY_BOOKED", "Consumption already booked for this job")

// DecrementRequest asks the ledger to remove powder from stock
type DecrementRequest struct {
	TenantID   uuid.UUID
	MaterialID uuid.UUID
	JobID      uuid.UUID
	Quantity   decimal.Decimal
	ActorID    *uuid.UUID
	Reason     string
}

// DecrementResult reports the stock level around the decrement
type DecrementResult struct {
	MaterialID uuid.UUID
	MovementID uuid.UUID
	Requested  decimal.Decimal
	Before     decimal.Decimal
	After      decimal.Decimal
}

// StockLedger is the only writer of Material.StockRealKg.
// Each decrement writes the new level and its movement in one transaction.
type StockLedger struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewStockLedger creates a stock ledger
func NewStockLedger(scope TransactionScope, logger *zap.Logger) *StockLedger {
	return &StockLedger{
		scope:  scope,
		logger: logger,
		now:    time.Now,
	}
}

// WithEventPublisher publishes low stock events after commit
func (l *StockLedger) WithEventPublisher(publisher shared.EventPublisher) *StockLedger {
	l.publisher = publisher
	return l
}

// Decrement removes Quantity kg from the material. The stored level is clamped at
// zero while the movement keeps the requested quantity. A concurrent write to the
// same material makes this fail with shared.ErrConcurrencyConflict; callers do not retry.
func (l *StockLedger) Decrement(ctx context.Context, req DecrementRequest) (*DecrementResult, error) {
	return l.decrement(ctx, req, false)
}

// DecrementForCuring is Decrement guarded by the job's consumption marker: the marker
// claim, the stock write and the movement commit together, so the booking happens at
// most once per job. Returns ErrConsumptionAlreadyBooked when the marker is set.
func (l *StockLedger) DecrementForCuring(ctx context.Context, req DecrementRequest) (*DecrementResult, error) {
	return l.decrement(ctx, req, true)
}

func (l *StockLedger) decrement(ctx context.Context, req DecrementRequest, claimMarker bool) (*DecrementResult, error) {
	if req.TenantID == uuid.Nil || req.MaterialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant ID and material ID are required")
	}
	if !req.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	var (
		result   *DecrementResult
		material *inventory.Material
	)
	err := l.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if claimMarker {
			claimed, err := repos.JobRepo().ClaimConsumptionMarker(ctx, req.TenantID, req.JobID, l.now())
			if err != nil {
				return fmt.Errorf("claim consumption marker: %w", err)
			}
			if !claimed {
				return ErrConsumptionAlreadyBooked
			}
		}

		var err error
		material, err = repos.MaterialRepo().FindByIDForTenant(ctx, req.TenantID, req.MaterialID)
		if err != nil {
			return fmt.Errorf("load material %s: %w", req.MaterialID, err)
		}

		movement, err := material.Consume(req.Quantity, req.JobID, req.ActorID, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.MaterialRepo().SaveWithLock(ctx, material); err != nil {
			return fmt.Errorf("save material stock: %w", err)
		}
		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return fmt.Errorf("append stock movement: %w", err)
		}

		result = &DecrementResult{
			MaterialID: material.ID,
			MovementID: movement.ID,
			Requested:  movement.Quantity,
			Before:     movement.QuantityBefore,
			After:      movement.QuantityAfter,
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrConsumptionAlreadyBooked) {
			l.logger.Warn("stock decrement failed",
				zap.String("tenant_id", req.TenantID.String()),
				zap.String("material_id", req.MaterialID.String()),
				zap.String("job_id", req.JobID.String()),
				zap.String("quantity", req.Quantity.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	l.logger.Info("stock decremented",
		zap.String("material_id", result.MaterialID.String()),
		zap.String("job_id", req.JobID.String()),
		zap.String("requested_kg", result.Requested.String()),
		zap.String("before_kg", result.Before.String()),
		zap.String("after_kg", result.After.String()),
	)
	l.publishEvents(ctx, material)
	return result, nil
}

// BookCuringConsumption adapts DecrementForCuring to the coordinator's port
func (l *StockLedger) BookCuringConsumption(ctx context.Context, req appproduction.ConsumptionBooking) (*appproduction.ConsumptionOutcome, error) {
	res, err := l.DecrementForCuring(ctx, DecrementRequest{
		TenantID:   req.TenantID,
		MaterialID: req.MaterialID,
		JobID:      req.JobID,
		Quantity:   req.Quantity,
		ActorID:    req.ActorID,
		Reason:     req.Reason,
	})
	if errors.Is(err, ErrConsumptionAlreadyBooked) {
		return &appproduction.ConsumptionOutcome{Skipped: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &appproduction.ConsumptionOutcome{Before: res.Before, After: res.After}, nil
}

func (l *StockLedger) publishEvents(ctx context.Context, material *inventory.Material) {
	events := material.GetDomainEvents()
	material.ClearDomainEvents()
	if l.publisher == nil || len(events) == 0 {
		return
	}
	if err := l.publisher.Publish(ctx, events...); err != nil {
		l.logger.Warn("failed to publish material events",
			zap.String("material_id", material.ID.String()),
			zap.Error(err),
		)
	}
}

var _ appproduction.ConsumptionBooker = (*StockLedger)(nil)
