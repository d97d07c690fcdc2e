package calc

import "github.com/shopspring/decimal"

func CalculatePercentageDiscount(baseTotal, discountPercent decimal.Decimal) decimal.Decimal {
	return baseTotal.Mul(discountPercent).Div(decimal.NewFromInt(100))
}

// CalculateOrderTotal is the creation-time invariant:
// total = items + freight - discount.
func CalculateOrderTotal(itemsTotal, freightCost, discountAmount decimal.Decimal) decimal.Decimal {
	return itemsTotal.Add(freightCost).Sub(discountAmount)
}
