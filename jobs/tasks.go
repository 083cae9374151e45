package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/stockdesk/stockdesk/internal/procurement"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDeliveryReminder announces a purchase order due for delivery.
	TaskDeliveryReminder = "order:delivery_reminder"
)

// NewDeliveryReminderTask builds the reminder task for one order.
func NewDeliveryReminderTask(reminder procurement.DeliveryReminder) (*asynq.Task, error) {
	body, err := json.Marshal(reminder)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDeliveryReminder, body, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}

// reminderTaskID makes rescheduling the same order and date idempotent.
func reminderTaskID(reminder procurement.DeliveryReminder) string {
	return fmt.Sprintf("%s:%d:%s", TaskDeliveryReminder, reminder.OrderID, reminder.ExpectedDate)
}
