package pipeline

import (
	"github.com/shopspring/decimal"
)

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Derive recomputes the financial fields from validated inputs. These values
// are never carried over from raw input.
//
//	SalesAmount = Quantity * UnitPrice * (1 - Discount)
//	Profit      = SalesAmount - Quantity * CostPrice
//
// Both are rounded to two decimals. Derivation is a pure function: the same
// inputs always produce the same outputs.
func Derive(quantity int, unitPrice, discount, costPrice float64) (salesAmount, profit float64) {
	qty := decimal.NewFromInt(int64(quantity))
	sales := qty.
		Mul(decimal.NewFromFloat(unitPrice)).
		Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount))).
		Round(2)
	prof := sales.Sub(qty.Mul(decimal.NewFromFloat(costPrice))).Round(2)

	salesAmount, _ = sales.Float64()
	profit, _ = prof.Float64()
	return salesAmount, profit
}
