package production

import (
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
	"github.com/shopspring/decimal"
)

var mm2PerM2 = decimal.NewFromInt(1_000_000)

// GeometryItem is one batch of identical parts to coat
type GeometryItem struct {
	Designation string          `json:"designation"`
	LengthMM    decimal.Decimal `json:"length_mm"`
	WidthMM     decimal.Decimal `json:"width_mm"`
	Quantity    int             `json:"quantity"`
	SurfaceM2   decimal.Decimal `json:"surface_m2"` // total for the line when set
}

// Surface returns the line surface in m²: SurfaceM2 when given, else length × width × quantity
func (g GeometryItem) Surface() decimal.Decimal {
	if g.SurfaceM2.IsPositive() {
		return g.SurfaceM2
	}
	if !g.LengthMM.IsPositive() || !g.WidthMM.IsPositive() || g.Quantity <= 0 {
		return decimal.Zero
	}
	return g.LengthMM.Mul(g.WidthMM).Div(mm2PerM2).Mul(decimal.NewFromInt(int64(g.Quantity)))
}

// TotalSurface sums the surfaces of the items
func TotalSurface(items []GeometryItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Surface())
	}
	return total
}

// GeometryFromQuote converts quote lines into geometry items
func GeometryFromQuote(q *trade.Quote) []GeometryItem {
	if !q.HasItems() {
		return nil
	}
	items := make([]GeometryItem, 0, len(q.Items))
	for _, qi := range q.Items {
		items = append(items, GeometryItem{
			Designation: qi.Designation,
			LengthMM:    qi.LengthMM,
			WidthMM:     qi.WidthMM,
			Quantity:    qi.Quantity,
			SurfaceM2:   qi.SurfaceM2,
		})
	}
	return items
}
