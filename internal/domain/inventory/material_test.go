package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaterial(t *testing.T, stock float64) *Material {
	t.Helper()
	m, err := NewMaterial(uuid.New(), "RAL7016", "Gris anthracite", decimal.NewFromFloat(stock))
	require.NoError(t, err)
	return m
}

func TestNewMaterial(t *testing.T) {
	t.Run("creates material", func(t *testing.T) {
		m := newTestMaterial(t, 12.5)

		assert.Equal(t, "RAL7016", m.Reference)
		assert.Equal(t, 1, m.GetVersion())
		assert.True(t, DefaultConsumptionRateKgPerM2.Equal(m.EffectiveConsumptionRate()))
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewMaterial(uuid.New(), "RAL7016", "", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("rejects empty reference", func(t *testing.T) {
		_, err := NewMaterial(uuid.New(), "", "", decimal.Zero)
		assert.Error(t, err)
	})
}

func TestMaterial_SetConsumptionRate(t *testing.T) {
	m := newTestMaterial(t, 1)
	rate := decimal.NewFromFloat(0.18)

	m.SetConsumptionRate(&rate)
	assert.True(t, rate.Equal(m.EffectiveConsumptionRate()))

	negative := decimal.NewFromFloat(-0.1)
	m.SetConsumptionRate(&negative)
	assert.Nil(t, m.ConsumptionRateKgPerM2)
	assert.True(t, DefaultConsumptionRateKgPerM2.Equal(m.EffectiveConsumptionRate()))
}

func TestMaterial_Consume(t *testing.T) {
	jobID := uuid.New()
	actor := uuid.New()

	t.Run("decrements stock and records movement", func(t *testing.T) {
		m := newTestMaterial(t, 10)

		mv, err := m.Consume(decimal.NewFromFloat(0.9), jobID, &actor, "curing OF-1")

		require.NoError(t, err)
		assert.Equal(t, "9.1", m.StockRealKg.String())
		assert.Equal(t, 2, m.GetVersion())
		assert.Equal(t, MovementTypeConsumption, mv.MovementType)
		assert.Equal(t, "10", mv.QuantityBefore.String())
		assert.Equal(t, "9.1", mv.QuantityAfter.String())
		assert.Equal(t, "0.9", mv.Quantity.String())
		require.NotNil(t, mv.JobID)
		assert.Equal(t, jobID, *mv.JobID)
		assert.False(t, mv.Clamped())
	})

	t.Run("clamps at zero but keeps requested quantity", func(t *testing.T) {
		m := newTestMaterial(t, 0.3)

		mv, err := m.Consume(decimal.NewFromFloat(0.5), jobID, nil, "curing")

		require.NoError(t, err)
		assert.True(t, m.StockRealKg.IsZero())
		assert.True(t, mv.QuantityAfter.IsZero())
		assert.Equal(t, "0.5", mv.Quantity.String())
		assert.True(t, mv.Clamped())
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		m := newTestMaterial(t, 1)

		_, err := m.Consume(decimal.Zero, jobID, nil, "")

		assert.Error(t, err)
		assert.Equal(t, 1, m.GetVersion())
	})

	t.Run("raises low stock event when crossing minimum", func(t *testing.T) {
		m := newTestMaterial(t, 5)
		m.MinStockKg = decimal.NewFromInt(4)

		_, err := m.Consume(decimal.NewFromFloat(1.5), jobID, nil, "")
		require.NoError(t, err)

		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*MaterialStockLowEvent)
		require.True(t, ok)
		assert.Equal(t, EventTypeMaterialStockLow, evt.EventType())
		assert.Equal(t, "3.5", evt.StockRealKg.String())
	})

	t.Run("no repeated event while already below minimum", func(t *testing.T) {
		m := newTestMaterial(t, 3)
		m.MinStockKg = decimal.NewFromInt(4)

		_, err := m.Consume(decimal.NewFromInt(1), jobID, nil, "")
		require.NoError(t, err)

		assert.Empty(t, m.GetDomainEvents())
		assert.True(t, m.IsBelowMinimum())
	})
}
