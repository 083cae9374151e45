package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
	"github.com/stockdesk/stockdesk/internal/procurement"
)

// Notifier delivers a reminder to the people watching an order.
type Notifier interface {
	NotifyDelivery(ctx context.Context, reminder procurement.DeliveryReminder) error
}

// LogNotifier writes reminders to the structured log.
type LogNotifier struct {
	Logger *slog.Logger
}

// NotifyDelivery implements Notifier.
func (n LogNotifier) NotifyDelivery(_ context.Context, r procurement.DeliveryReminder) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("purchase order due for delivery",
		slog.Int64("order_id", r.OrderID),
		slog.Int64("product_id", r.ProductID),
		slog.Int64("supplier_id", r.SupplierID),
		slog.Int64("quantity", r.Quantity),
		slog.String("expected_date", r.ExpectedDate),
	)
	return nil
}

// DeliveryReminderJob processes TaskDeliveryReminder tasks.
type DeliveryReminderJob struct {
	Notifier Notifier
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewDeliveryReminderJob wires dependencies for the reminder handler.
func NewDeliveryReminderJob(notifier Notifier, logger *slog.Logger, metrics *jobmetrics.Metrics) *DeliveryReminderJob {
	return &DeliveryReminderJob{Notifier: notifier, Logger: logger, Metrics: metrics}
}

// Handle processes one reminder.
func (j *DeliveryReminderJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Notifier == nil {
		return errors.New("delivery reminder: handler not configured")
	}
	var payload procurement.DeliveryReminder
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.OrderID <= 0 {
		j.logger().Warn("discard malformed reminder", slog.String("payload", string(t.Payload())))
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskDeliveryReminder)
	defer func() {
		err = tracker.End(err)
	}()
	if err := j.Notifier.NotifyDelivery(ctx, payload); err != nil {
		j.logger().Error("notify delivery failed", slog.Any("error", err), slog.Int64("order_id", payload.OrderID))
		return err
	}
	return nil
}

func (j *DeliveryReminderJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDeliveryReminder))
	}
	return slog.Default().With(slog.String("job", TaskDeliveryReminder))
}
