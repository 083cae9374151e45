package procurement

import "github.com/stockdesk/stockdesk/internal/console"

var messages = map[string]string{
	"product_id":    "Select a product.",
	"supplier_id":   "Select a supplier.",
	"category_id":   "Select a category.",
	"quantity":      "Enter a quantity greater than zero.",
	"order_value":   "Enter a valid order value.",
	"order_date":    "The order date is required.",
	"expected_date": "The expected delivery date is required.",
}

var fields = console.Fields[PurchaseOrder]{
	"product_id":    console.Int(func(o *PurchaseOrder, v int64) { o.ProductID = v }),
	"supplier_id":   console.Int(func(o *PurchaseOrder, v int64) { o.SupplierID = v }),
	"category_id":   console.Int(func(o *PurchaseOrder, v int64) { o.CategoryID = v }),
	"quantity":      console.Int(func(o *PurchaseOrder, v int64) { o.Quantity = v }),
	"order_value":   console.Number(func(o *PurchaseOrder, v float64) { o.OrderValue = v }),
	"order_date":    console.Text(func(o *PurchaseOrder, v string) { o.OrderDate = v }),
	"expected_date": console.Text(func(o *PurchaseOrder, v string) { o.ExpectedDate = v }),
	"status":        console.Text(func(o *PurchaseOrder, v string) { o.Status = Status(v) }),
	"notify":        console.Bool(func(o *PurchaseOrder, v bool) { o.Notify = v }),
}
