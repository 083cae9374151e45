package products

import "github.com/shopspring/decimal"

// PageSummary describes the products on the loaded page only. Global totals
// come from the dashboard summary.
type PageSummary struct {
	Count      int
	StockValue decimal.Decimal
	LowStock   int
	OutOfStock int
}

// Summarize computes the page summary.
func Summarize(items []Product) PageSummary {
	sum := PageSummary{Count: len(items), StockValue: decimal.Zero}
	for _, p := range items {
		value := decimal.NewFromFloat(p.BuyingPrice).Mul(decimal.NewFromInt(p.Quantity))
		sum.StockValue = sum.StockValue.Add(value)
		switch p.Status() {
		case StatusLowStock:
			sum.LowStock++
		case StatusOutOfStock:
			sum.OutOfStock++
		}
	}
	return sum
}
