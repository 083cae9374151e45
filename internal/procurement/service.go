package procurement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockdesk/stockdesk/internal/console"
	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

// Service exposes purchase order operations to the order screens.
type Service struct {
	repo       Repository
	validator  *console.Validator[PurchaseOrder]
	reminders  ReminderScheduler
	logger     *slog.Logger
	perPage    int
	closeDelay time.Duration
	reminderAt int
	now        func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithReminders enables delivery reminders for orders saved with notify set.
// Reminders fire at hour (UTC) on the expected delivery date.
func WithReminders(scheduler ReminderScheduler, hour int, logger *slog.Logger) Option {
	return func(s *Service) {
		s.reminders = scheduler
		s.reminderAt = hour
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for defaults and reminder times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs the service.
func NewService(repo Repository, perPage int, closeDelay time.Duration, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		validator:  console.NewValidator[PurchaseOrder](messages),
		perPage:    perPage,
		closeDelay: closeDelay,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List fetches one page of orders.
func (s *Service) List(ctx context.Context, page, perPage int) (pagination.Page[PurchaseOrder], error) {
	return s.repo.List(ctx, page, perPage)
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, id int64) (PurchaseOrder, error) {
	if id <= 0 {
		return PurchaseOrder{}, errors.New("invalid order ID")
	}
	return s.repo.Get(ctx, id)
}

// Remove deletes an order. Removing an order that is already gone succeeds.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid order ID")
	}
	return s.repo.Remove(ctx, id)
}

// Validate runs local validation.
func (s *Service) Validate(o PurchaseOrder) map[string]string {
	return s.validator.Validate(o)
}

// NewList builds the paginated order list with the given sidecar loads.
func (s *Service) NewList(sidecars ...console.Sidecar) *console.List[PurchaseOrder] {
	return console.NewList(console.ListConfig[PurchaseOrder]{
		Source:   s,
		PerPage:  s.perPage,
		Sidecars: sidecars,
	})
}

// NewForm opens a create form, or an edit form when existing is non-nil.
// Saved orders that ask for notification get a delivery reminder before
// onSaved runs.
func (s *Service) NewForm(ctx context.Context, existing *PurchaseOrder, onSaved func(PurchaseOrder)) *console.Form[PurchaseOrder] {
	return console.NewForm(console.FormConfig[PurchaseOrder]{
		Label:     "Order",
		Submitter: s.repo,
		Fields:    fields,
		Defaults:  func() PurchaseOrder { return Defaults(s.now()) },
		Validate:  s.Validate,
		OnSaved: func(saved PurchaseOrder) {
			if err := s.ScheduleReminder(ctx, saved); err != nil {
				s.logger.Warn("schedule delivery reminder failed", "error", err, "order_id", saved.ID)
			}
			if onSaved != nil {
				onSaved(saved)
			}
		},
		CloseDelay: s.closeDelay,
	}, existing)
}

// ErrReminderInPast is returned when the reminder time has already passed.
var ErrReminderInPast = errors.New("expected date already passed")

// ScheduleReminder queues the delivery reminder of a saved order. Orders
// without notify, without an expected date, or saved while reminders are
// disabled are skipped.
func (s *Service) ScheduleReminder(ctx context.Context, o PurchaseOrder) error {
	if s.reminders == nil || !o.Notify || o.ExpectedDate == "" {
		return nil
	}
	at, err := s.ReminderTime(o.ExpectedDate)
	if err != nil {
		return err
	}
	if !at.After(s.now()) {
		return ErrReminderInPast
	}
	return s.reminders.ScheduleDeliveryReminder(ctx, DeliveryReminder{
		OrderID:      o.ID,
		ProductID:    o.ProductID,
		SupplierID:   o.SupplierID,
		Quantity:     o.Quantity,
		ExpectedDate: o.ExpectedDate,
	}, at)
}

// ReminderTime is the instant a reminder for expectedDate fires.
func (s *Service) ReminderTime(expectedDate string) (time.Time, error) {
	day, err := time.Parse(DateLayout, expectedDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse expected date: %w", err)
	}
	return day.Add(time.Duration(s.reminderAt) * time.Hour), nil
}
