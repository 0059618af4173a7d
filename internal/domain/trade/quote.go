package trade

import (
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteItem is one priced line of a quote
type QuoteItem struct {
	Designation string
	LengthMM    decimal.Decimal
	WidthMM     decimal.Decimal
	Quantity    int
	SurfaceM2   decimal.Decimal // line surface, zero when only dimensions are known
	UnitPriceHT decimal.Decimal
	VATRate     decimal.Decimal // percent, e.g. 20
	TotalHT     decimal.Decimal
}

// LineSurface returns the line surface in m², derived from dimensions when not given
func (i QuoteItem) LineSurface() decimal.Decimal {
	if i.SurfaceM2.IsPositive() {
		return i.SurfaceM2
	}
	if !i.LengthMM.IsPositive() || !i.WidthMM.IsPositive() || i.Quantity <= 0 {
		return decimal.Zero
	}
	return i.LengthMM.Mul(i.WidthMM).Div(decimal.NewFromInt(1_000_000)).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Quote is a priced proposal that can be converted into a job.
// It is read-only from the automation engine's point of view.
type Quote struct {
	shared.TenantAggregateRoot
	ClientID uuid.UUID
	Number   string
	Items    []QuoteItem
	TotalHT  decimal.Decimal
	TotalTVA decimal.Decimal
	TotalTTC decimal.Decimal
}

// NewQuote creates a quote and computes its totals
func NewQuote(tenantID, clientID uuid.UUID, number string, items []QuoteItem) (*Quote, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	q := &Quote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		Number:              number,
		Items:               items,
	}
	q.RecalculateTotals()
	return q, nil
}

// HasItems reports whether the quote carries at least one line
func (q *Quote) HasItems() bool {
	return q != nil && len(q.Items) > 0
}

// RecalculateTotals recomputes HT/TVA/TTC from the items.
// A line without TotalHT is priced as quantity × unit price.
func (q *Quote) RecalculateTotals() {
	totalHT := decimal.Zero
	totalTVA := decimal.Zero
	for i := range q.Items {
		item := &q.Items[i]
		if item.TotalHT.IsZero() && item.UnitPriceHT.IsPositive() {
			item.TotalHT = item.UnitPriceHT.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		}
		totalHT = totalHT.Add(item.TotalHT)
		totalTVA = totalTVA.Add(item.TotalHT.Mul(item.VATRate).Div(decimal.NewFromInt(100)))
	}
	q.TotalHT = totalHT.Round(2)
	q.TotalTVA = totalTVA.Round(2)
	q.TotalTTC = q.TotalHT.Add(q.TotalTVA)
}
