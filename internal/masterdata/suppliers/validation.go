package suppliers

import "github.com/stockdesk/stockdesk/internal/console"

var messages = map[string]string{
	"name":  "The supplier name is required.",
	"phone": "A contact phone number is required.",
	"email": "Enter a valid email address.",
}

var fields = console.Fields[Supplier]{
	"name":               console.Text(func(s *Supplier, v string) { s.Name = v }),
	"phone":              console.Text(func(s *Supplier, v string) { s.Phone = v }),
	"email":              console.Text(func(s *Supplier, v string) { s.Email = v }),
	"address":            console.Text(func(s *Supplier, v string) { s.Address = v }),
	"logo":               console.Text(func(s *Supplier, v string) { s.Logo = v }),
	"products":           console.Text((*Supplier).setProducts),
	"takes_back_returns": console.Bool(func(s *Supplier, v bool) { s.TakesBackReturns = v }),
}

// PageSummary describes the suppliers on the loaded page only.
type PageSummary struct {
	Count       int
	TakeReturns int
}

// Summarize computes the page summary.
func Summarize(items []Supplier) PageSummary {
	sum := PageSummary{Count: len(items)}
	for _, s := range items {
		if s.TakesBackReturns {
			sum.TakeReturns++
		}
	}
	return sum
}
