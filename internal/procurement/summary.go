package procurement

import "github.com/shopspring/decimal"

// PageSummary describes the orders on the loaded page only.
type PageSummary struct {
	Count      int
	TotalValue decimal.Decimal
	Delayed    int
	Pending    int
}

// Summarize computes the page summary.
func Summarize(items []PurchaseOrder) PageSummary {
	sum := PageSummary{Count: len(items), TotalValue: decimal.Zero}
	for _, o := range items {
		sum.TotalValue = sum.TotalValue.Add(decimal.NewFromFloat(o.OrderValue))
		switch o.Status {
		case StatusDelayed:
			sum.Delayed++
		case StatusPending:
			sum.Pending++
		}
	}
	return sum
}
