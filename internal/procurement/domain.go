package procurement

import (
	"time"

	"github.com/stockdesk/stockdesk/internal/masterdata/products"
)

// Status is the delivery status of a purchase order. The backend may send
// values outside the known set; they are shown verbatim.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelayed        Status = "delayed"
	StatusReturned       Status = "returned"
)

// KnownStatuses lists the statuses offered by the order form.
var KnownStatuses = []Status{StatusPending, StatusConfirmed, StatusOutForDelivery, StatusDelayed, StatusReturned}

// Label is the human readable status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusOutForDelivery:
		return "Out for delivery"
	case StatusDelayed:
		return "Delayed"
	case StatusReturned:
		return "Returned"
	}
	return string(s)
}

// DateLayout is the wire format of order dates.
const DateLayout = "2006-01-02"

// PurchaseOrder is a restocking order placed with a supplier.
type PurchaseOrder struct {
	ID           int64             `json:"id,omitempty"`
	ProductID    int64             `json:"product_id" validate:"required"`
	SupplierID   int64             `json:"supplier_id" validate:"required"`
	CategoryID   int64             `json:"category_id" validate:"required"`
	Quantity     int64             `json:"quantity" validate:"gt=0"`
	OrderValue   float64           `json:"order_value" validate:"gt=0"`
	OrderDate    string            `json:"order_date" validate:"required"`
	ExpectedDate string            `json:"expected_date" validate:"required"`
	Status       Status            `json:"status,omitempty"`
	Notify       bool              `json:"notify"`
	Product      *products.Product `json:"product,omitempty" validate:"-"`
}

// EntityID implements console.Entity.
func (o PurchaseOrder) EntityID() int64 { return o.ID }

// ProductName returns the embedded product name when the backend sent one.
func (o PurchaseOrder) ProductName() string {
	if o.Product == nil {
		return ""
	}
	return o.Product.Name
}

// Defaults returns the draft of a new order placed on day now.
func Defaults(now time.Time) PurchaseOrder {
	return PurchaseOrder{
		OrderDate: now.Format(DateLayout),
		Status:    StatusPending,
	}
}
