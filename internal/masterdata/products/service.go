package products

import (
	"context"
	"errors"
	"time"

	"github.com/stockdesk/stockdesk/internal/console"
	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

// Service exposes product operations to the product screens.
type Service struct {
	repo       Repository
	validator  *console.Validator[Product]
	perPage    int
	closeDelay time.Duration
}

// NewService constructs the service.
func NewService(repo Repository, perPage int, closeDelay time.Duration) *Service {
	return &Service{
		repo:       repo,
		validator:  console.NewValidator[Product](messages),
		perPage:    perPage,
		closeDelay: closeDelay,
	}
}

// List fetches one page of products.
func (s *Service) List(ctx context.Context, page, perPage int) (pagination.Page[Product], error) {
	return s.repo.List(ctx, page, perPage)
}

// OptionLimit caps the products offered by reference selects.
const OptionLimit = 100

// Options returns products for select inputs on other screens.
func (s *Service) Options(ctx context.Context) ([]Product, error) {
	page, err := s.repo.List(ctx, 1, OptionLimit)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, errors.New("invalid product ID")
	}
	return s.repo.Get(ctx, id)
}

// Remove deletes a product. Removing a product that is already gone succeeds.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid product ID")
	}
	return s.repo.Remove(ctx, id)
}

// Validate runs local validation.
func (s *Service) Validate(p Product) map[string]string {
	return s.validator.Validate(p)
}

// NewList builds the paginated product list with the given sidecar loads.
func (s *Service) NewList(sidecars ...console.Sidecar) *console.List[Product] {
	return console.NewList(console.ListConfig[Product]{
		Source:   s,
		PerPage:  s.perPage,
		Sidecars: sidecars,
	})
}

// NewForm opens a create form, or an edit form when existing is non-nil.
func (s *Service) NewForm(existing *Product, onSaved func(Product)) *console.Form[Product] {
	return console.NewForm(console.FormConfig[Product]{
		Label:      "Product",
		Submitter:  s.repo,
		Fields:     fields,
		Defaults:   Defaults,
		Validate:   s.Validate,
		OnSaved:    onSaved,
		CloseDelay: s.closeDelay,
	}, existing)
}
