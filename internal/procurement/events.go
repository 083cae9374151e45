package procurement

import (
	"context"
	"time"
)

// DeliveryReminder asks the worker to announce an expected delivery.
type DeliveryReminder struct {
	OrderID      int64  `json:"order_id"`
	ProductID    int64  `json:"product_id"`
	SupplierID   int64  `json:"supplier_id"`
	Quantity     int64  `json:"quantity"`
	ExpectedDate string `json:"expected_date"`
}

// ReminderScheduler queues delivery reminders for later processing.
type ReminderScheduler interface {
	ScheduleDeliveryReminder(ctx context.Context, reminder DeliveryReminder, at time.Time) error
}
