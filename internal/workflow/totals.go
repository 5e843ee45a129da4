package workflow

import "github.com/shopspring/decimal"

// ItemAmount is the priced part of a line item.
type ItemAmount struct {
	Quantity float64
	Price    decimal.Decimal
}

// LineTotal computes quantity × price for one item.
func LineTotal(quantity float64, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromFloat(quantity))
}

// GrandTotal sums line totals over items with positive quantity and
// price. The backend total stays authoritative; this recomputation is
// what gets persisted whenever items change.
func GrandTotal(items []ItemAmount) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Quantity > 0 && it.Price.IsPositive() {
			total = total.Add(LineTotal(it.Quantity, it.Price))
		}
	}
	return total
}
