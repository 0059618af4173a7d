package telemetry

import (
	"context"
	"testing"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.TracingEnabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), Sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), Sampler(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), Sampler(0.25).Description())
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestTransitionMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewTransitionMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	m.RecordTransition(ctx, tenantID, production.JobStatusInProgress, production.JobStatusCuring, production.TransitionLinear)
	m.RecordTransition(ctx, tenantID, production.JobStatusCuring, production.JobStatusQC, production.TransitionLinear)
	m.RecordAutomation(ctx, tenantID, production.AutomationStockDecrement, "fired")
	m.RecordConsumption(ctx, tenantID, &inventory.Material{Reference: "RAL9005"}, decimal.NewFromFloat(0.9))

	data := collect(t, reader)

	transitions, ok := data["job_transitions_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range transitions.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)

	automations, ok := data["job_automations_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, automations.DataPoints, 1)
	outcome, _ := automations.DataPoints[0].Attributes.Value("outcome")
	assert.Equal(t, "fired", outcome.AsString())

	consumed, ok := data["powder_consumed_kg"].(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, consumed.DataPoints, 1)
	assert.InDelta(t, 0.9, consumed.DataPoints[0].Value, 1e-9)
}

func TestStartProfiler(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		p, err := StartProfiler(config.ProfilingConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.Enabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("enabled requires a server address", func(t *testing.T) {
		_, err := StartProfiler(config.ProfilingConfig{Enabled: true, ApplicationName: "thermogestion"}, zap.NewNop())
		assert.Error(t, err)
	})
}
