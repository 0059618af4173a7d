package production

import (
	"testing"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaterial(t *testing.T, rate *decimal.Decimal) *inventory.Material {
	t.Helper()
	m, err := inventory.NewMaterial(uuid.New(), "RAL9005", "Noir foncé", decimal.NewFromInt(25))
	require.NoError(t, err)
	m.SetConsumptionRate(rate)
	return m
}

func TestEstimateConsumption_DimensionsLayersAndRate(t *testing.T) {
	job := newTestJob(t)
	job.SetLayerCount(2)
	job.GeometryItems = []GeometryItem{
		{LengthMM: decimal.NewFromInt(2000), WidthMM: decimal.NewFromInt(500), Quantity: 1},
		{LengthMM: decimal.NewFromInt(1000), WidthMM: decimal.NewFromInt(1000), Quantity: 2},
	}
	rate := decimal.NewFromFloat(0.15)

	kg := EstimateConsumption(job, newTestMaterial(t, &rate))

	assert.True(t, decimal.NewFromFloat(3.0).Equal(TotalSurface(job.GeometryItems)))
	assert.True(t, decimal.NewFromFloat(0.9).Equal(kg), "got %s", kg)
}

func TestEstimateConsumption_NoGeometryUsesFloor(t *testing.T) {
	job := newTestJob(t)

	kg := EstimateConsumption(job, newTestMaterial(t, nil))

	assert.True(t, MinimumConsumptionKg.Equal(kg))
}

func TestEstimateConsumption_DefaultRate(t *testing.T) {
	job := newTestJob(t)
	job.GeometryItems = []GeometryItem{{SurfaceM2: decimal.NewFromInt(10)}}
	zero := decimal.Zero

	assert.Equal(t, "1.2", EstimateConsumption(job, newTestMaterial(t, nil)).String())
	assert.Equal(t, "1.2", EstimateConsumption(job, newTestMaterial(t, &zero)).String())
	assert.Equal(t, "1.2", EstimateConsumption(job, nil).String())
}

func TestEstimateConsumption_Deterministic(t *testing.T) {
	job := newTestJob(t)
	job.SetLayerCount(3)
	job.GeometryItems = []GeometryItem{{LengthMM: decimal.NewFromInt(1234), WidthMM: decimal.NewFromInt(567), Quantity: 7}}
	material := newTestMaterial(t, nil)

	first := EstimateConsumption(job, material)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(EstimateConsumption(job, material)))
	}
}

func TestConsumptionEstimator_EstimateJob(t *testing.T) {
	e := NewConsumptionEstimator()
	job := newTestJob(t)
	quoteGeometry := []GeometryItem{{SurfaceM2: decimal.NewFromInt(5)}}

	t.Run("uses quote geometry when job has none", func(t *testing.T) {
		assert.Equal(t, "0.6", e.EstimateJob(job, nil, quoteGeometry).String())
	})

	t.Run("zero layer count counts as one", func(t *testing.T) {
		assert.Equal(t, "0.6", e.Estimate(quoteGeometry, 0, nil).String())
	})

	t.Run("custom floor", func(t *testing.T) {
		custom := ConsumptionEstimator{MinimumKg: decimal.NewFromFloat(0.25)}
		assert.Equal(t, "0.25", custom.Estimate(nil, 1, nil).String())
	})
}
