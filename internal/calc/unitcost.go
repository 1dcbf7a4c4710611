// Package calc computes the derived fields appended to every line item
// after parsing and enrichment: the unit economic cost and the
// canonical package description.
package calc

import "github.com/shopspring/decimal"

// UnitCost returns (price + upcharge - discount) / quantity rounded to
// 4 decimal places, or nil when quantity is absent or not positive.
// Decimal math avoids the float drift the ERP reconciliation flags.
func UnitCost(price, upcharge, discount, quantity *float64) *float64 {
	if quantity == nil || *quantity <= 0 {
		return nil
	}
	total := fromPtr(price).Add(fromPtr(upcharge)).Sub(fromPtr(discount))
	unit, _ := total.Div(decimal.NewFromFloat(*quantity)).Round(4).Float64()
	return &unit
}

func fromPtr(p *float64) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*p)
}
