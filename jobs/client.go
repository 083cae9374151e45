package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
	"github.com/stockdesk/stockdesk/internal/procurement"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client enqueues tasks from the web process.
type Client struct {
	queue   enqueuer
	metrics *jobmetrics.Metrics
	logger  *slog.Logger
}

var _ procurement.ReminderScheduler = (*Client)(nil)

// NewClient connects a client to the queue's Redis.
func NewClient(redisOpts asynq.RedisClientOpt, metrics *jobmetrics.Metrics, logger *slog.Logger) *Client {
	return newClient(asynq.NewClient(redisOpts), metrics, logger)
}

func newClient(q enqueuer, metrics *jobmetrics.Metrics, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{queue: q, metrics: metrics, logger: logger}
}

// ScheduleDeliveryReminder queues reminder for processing at at. The task id
// is derived from the order and its date, so saving the same order twice
// queues one reminder.
func (c *Client) ScheduleDeliveryReminder(ctx context.Context, reminder procurement.DeliveryReminder, at time.Time) error {
	task, err := NewDeliveryReminderTask(reminder)
	if err != nil {
		return err
	}
	id := reminderTaskID(reminder)
	_, err = c.queue.EnqueueContext(ctx, task, asynq.ProcessAt(at), asynq.TaskID(id))
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		c.metrics.Scheduled(TaskDeliveryReminder, "duplicate")
		return nil
	}
	if err != nil {
		c.metrics.Scheduled(TaskDeliveryReminder, "error")
		return err
	}
	c.metrics.Scheduled(TaskDeliveryReminder, "queued")
	c.logger.Info("delivery reminder scheduled",
		slog.String("task_id", id),
		slog.Int64("order_id", reminder.OrderID),
		slog.Time("process_at", at),
	)
	return nil
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	return c.queue.Close()
}
