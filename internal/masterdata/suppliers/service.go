package suppliers

import (
	"context"
	"errors"
	"time"

	"github.com/stockdesk/stockdesk/internal/console"
	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

// Service exposes supplier operations to the supplier screens and to the
// selects of other forms.
type Service struct {
	repo       Repository
	validator  *console.Validator[Supplier]
	perPage    int
	closeDelay time.Duration
}

// NewService constructs the service.
func NewService(repo Repository, perPage int, closeDelay time.Duration) *Service {
	return &Service{
		repo:       repo,
		validator:  console.NewValidator[Supplier](messages),
		perPage:    perPage,
		closeDelay: closeDelay,
	}
}

// List fetches one page of suppliers.
func (s *Service) List(ctx context.Context, page, perPage int) (pagination.Page[Supplier], error) {
	return s.repo.List(ctx, page, perPage)
}

// Options returns every supplier for select inputs.
func (s *Service) Options(ctx context.Context) ([]Supplier, error) {
	return s.repo.ListAll(ctx)
}

// Get returns one supplier.
func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, errors.New("invalid supplier ID")
	}
	return s.repo.Get(ctx, id)
}

// Remove deletes a supplier.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid supplier ID")
	}
	return s.repo.Remove(ctx, id)
}

// Validate runs local validation.
func (s *Service) Validate(sup Supplier) map[string]string {
	return s.validator.Validate(sup)
}

// NewList builds the supplier list.
func (s *Service) NewList(sidecars ...console.Sidecar) *console.List[Supplier] {
	return console.NewList(console.ListConfig[Supplier]{
		Source:   s,
		PerPage:  s.perPage,
		Sidecars: sidecars,
	})
}

// NewForm opens a create form, or an edit form when existing is non-nil.
func (s *Service) NewForm(existing *Supplier, onSaved func(Supplier)) *console.Form[Supplier] {
	return console.NewForm(console.FormConfig[Supplier]{
		Label:      "Supplier",
		Submitter:  s.repo,
		Fields:     fields,
		Defaults:   func() Supplier { return Supplier{} },
		Validate:   s.Validate,
		OnSaved:    onSaved,
		CloseDelay: s.closeDelay,
	}, existing)
}
