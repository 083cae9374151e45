package products

import "github.com/stockdesk/stockdesk/internal/console"

var messages = map[string]string{
	"name":          "The product name is required.",
	"buying_price":  "Enter a valid buying price.",
	"selling_price": "Enter a valid selling price.",
	"quantity":      "Quantity cannot be negative.",
	"threshold":     "Threshold cannot be negative.",
	"expiry_date":   "The expiry date is required.",
	"category_id":   "Select a category.",
	"supplier_id":   "Select a supplier.",
}

var fields = console.Fields[Product]{
	"name":          console.Text(func(p *Product, v string) { p.Name = v }),
	"category_id":   console.Int(func(p *Product, v int64) { p.CategoryID = v }),
	"supplier_id":   console.Int(func(p *Product, v int64) { p.SupplierID = v }),
	"buying_price":  console.Number(func(p *Product, v float64) { p.BuyingPrice = v }),
	"selling_price": console.Number(func(p *Product, v float64) { p.SellingPrice = v }),
	"quantity":      console.Int(func(p *Product, v int64) { p.Quantity = v }),
	"threshold":     console.Int(func(p *Product, v int64) { p.Threshold = v }),
	"expiry_date":   console.Text(func(p *Product, v string) { p.ExpiryDate = v }),
}
