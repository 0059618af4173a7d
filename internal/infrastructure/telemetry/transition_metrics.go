package telemetry

import (
	"context"
	"fmt"

	appproduction "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "thermogestion/production"

// TransitionMetrics records job transitions on OpenTelemetry counters
type TransitionMetrics struct {
	transitions metric.Int64Counter
	automations metric.Int64Counter
	consumedKg  metric.Float64Counter
}

// NewTransitionMetrics creates the instruments on the given meter provider
func NewTransitionMetrics(mp metric.MeterProvider) (*TransitionMetrics, error) {
	meter := mp.Meter(meterName)

	transitions, err := meter.Int64Counter("job_transitions_total",
		metric.WithDescription("Job status transitions written"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job_transitions_total: %w", err)
	}
	automations, err := meter.Int64Counter("job_automations_total",
		metric.WithDescription("Automation outcomes per transition"),
		metric.WithUnit("{automation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job_automations_total: %w", err)
	}
	consumed, err := meter.Float64Counter("powder_consumed_kg",
		metric.WithDescription("Powder consumption booked on curing"),
		metric.WithUnit("kg"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create powder_consumed_kg: %w", err)
	}

	return &TransitionMetrics{transitions: transitions, automations: automations, consumedKg: consumed}, nil
}

// RecordTransition counts a written status change
func (m *TransitionMetrics) RecordTransition(ctx context.Context, tenantID uuid.UUID, from, to production.JobStatus, kind production.TransitionKind) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tenant_id", tenantID.String()),
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
		attribute.String("kind", string(kind)),
	))
}

// RecordAutomation counts an automation outcome: fired, skipped or failed
func (m *TransitionMetrics) RecordAutomation(ctx context.Context, tenantID uuid.UUID, automation, outcome string) {
	m.automations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tenant_id", tenantID.String()),
		attribute.String("automation", automation),
		attribute.String("outcome", outcome),
	))
}

// RecordConsumption adds booked kilograms for a material
func (m *TransitionMetrics) RecordConsumption(ctx context.Context, tenantID uuid.UUID, material *inventory.Material, kg decimal.Decimal) {
	attrs := []attribute.KeyValue{attribute.String("tenant_id", tenantID.String())}
	if material != nil {
		attrs = append(attrs, attribute.String("material", material.Reference))
	}
	m.consumedKg.Add(ctx, kg.InexactFloat64(), metric.WithAttributes(attrs...))
}

var _ appproduction.TransitionMetrics = (*TransitionMetrics)(nil)
