package products

// Status is the stock level of a product. It is derived, never stored.
type Status string

const (
	StatusInStock    Status = "in_stock"
	StatusLowStock   Status = "low_stock"
	StatusOutOfStock Status = "out_of_stock"
)

// Label is the human readable status.
func (s Status) Label() string {
	switch s {
	case StatusInStock:
		return "In stock"
	case StatusLowStock:
		return "Low stock"
	case StatusOutOfStock:
		return "Out of stock"
	}
	return string(s)
}

// StockStatus derives the status from quantity on hand and the reorder
// threshold. An empty shelf is out of stock even when it is also below the
// threshold.
func StockStatus(quantity, threshold int64) Status {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity < threshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Product is an item held in inventory.
type Product struct {
	ID           int64   `json:"id,omitempty"`
	Name         string  `json:"name" validate:"notblank"`
	CategoryID   int64   `json:"category_id" validate:"required"`
	SupplierID   int64   `json:"supplier_id" validate:"required"`
	BuyingPrice  float64 `json:"buying_price" validate:"gt=0"`
	SellingPrice float64 `json:"selling_price" validate:"gt=0"`
	Quantity     int64   `json:"quantity" validate:"gte=0"`
	Threshold    int64   `json:"threshold" validate:"gte=0"`
	ExpiryDate   string  `json:"expiry_date,omitempty" validate:"required"`
}

// EntityID implements console.Entity.
func (p Product) EntityID() int64 { return p.ID }

// Status derives the stock status.
func (p Product) Status() Status { return StockStatus(p.Quantity, p.Threshold) }

// DefaultThreshold is the reorder threshold of a new product.
const DefaultThreshold = 5

// Defaults is the draft of a new product.
func Defaults() Product {
	return Product{Threshold: DefaultThreshold}
}
