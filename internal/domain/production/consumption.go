package production

import (
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// MinimumConsumptionKg is booked when a job has no usable geometry, so every curing is tracked
var MinimumConsumptionKg = decimal.NewFromFloat(0.5)

// ConsumptionEstimator turns job geometry into kilograms of powder.
// It performs no I/O and is deterministic for a given input.
type ConsumptionEstimator struct {
	DefaultRateKgPerM2 decimal.Decimal
	MinimumKg          decimal.Decimal
}

// NewConsumptionEstimator creates an estimator with the standard rate and floor
func NewConsumptionEstimator() ConsumptionEstimator {
	return ConsumptionEstimator{
		DefaultRateKgPerM2: inventory.DefaultConsumptionRateKgPerM2,
		MinimumKg:          MinimumConsumptionKg,
	}
}

// Estimate computes surface × layers × rate over items, falling back to the floor when ≤ 0
func (e ConsumptionEstimator) Estimate(items []GeometryItem, layerCount int, material *inventory.Material) decimal.Decimal {
	if layerCount < 1 {
		layerCount = 1
	}

	rate := e.rateFor(material)
	kg := TotalSurface(items).
		Mul(decimal.NewFromInt(int64(layerCount))).
		Mul(rate).
		Round(3)

	if !kg.IsPositive() {
		return e.floor()
	}
	return kg
}

// EstimateJob estimates consumption for a job, using quote lines when the job has no geometry
func (e ConsumptionEstimator) EstimateJob(job *Job, material *inventory.Material, quoteGeometry []GeometryItem) decimal.Decimal {
	items := job.GeometryItems
	if len(items) == 0 {
		items = quoteGeometry
	}
	return e.Estimate(items, job.LayerCount, material)
}

func (e ConsumptionEstimator) rateFor(material *inventory.Material) decimal.Decimal {
	if material != nil && material.ConsumptionRateKgPerM2 != nil && material.ConsumptionRateKgPerM2.IsPositive() {
		return *material.ConsumptionRateKgPerM2
	}
	if e.DefaultRateKgPerM2.IsPositive() {
		return e.DefaultRateKgPerM2
	}
	return inventory.DefaultConsumptionRateKgPerM2
}

func (e ConsumptionEstimator) floor() decimal.Decimal {
	if e.MinimumKg.IsPositive() {
		return e.MinimumKg
	}
	return MinimumConsumptionKg
}

// EstimateConsumption estimates a job's consumption from its own geometry with default settings
func EstimateConsumption(job *Job, material *inventory.Material) decimal.Decimal {
	return NewConsumptionEstimator().EstimateJob(job, material, nil)
}
