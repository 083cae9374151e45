package categories

import (
	"context"
	"errors"
	"time"

	"github.com/stockdesk/stockdesk/internal/console"
)

// Service exposes category operations to handlers and other screens.
type Service struct {
	repo       Repository
	validator  *console.Validator[Category]
	closeDelay time.Duration
}

// NewService constructs the service.
func NewService(repo Repository, closeDelay time.Duration) *Service {
	return &Service{repo: repo, validator: console.NewValidator[Category](messages), closeDelay: closeDelay}
}

// List returns every category.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

// Get returns one category.
func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, errors.New("invalid category ID")
	}
	return s.repo.Get(ctx, id)
}

// Remove deletes a category.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid category ID")
	}
	return s.repo.Remove(ctx, id)
}

// Names maps category ids to names for table display.
func (s *Service) Names(ctx context.Context) (map[int64]string, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(cats))
	for _, c := range cats {
		out[c.ID] = c.Name
	}
	return out, nil
}

// Validate runs local validation.
func (s *Service) Validate(c Category) map[string]string {
	return s.validator.Validate(c)
}

// NewForm opens a create form, or an edit form when existing is non-nil.
func (s *Service) NewForm(existing *Category, onSaved func(Category)) *console.Form[Category] {
	return console.NewForm(console.FormConfig[Category]{
		Label:      "Category",
		Submitter:  s.repo,
		Fields:     fields,
		Defaults:   func() Category { return Category{} },
		Validate:   s.Validate,
		OnSaved:    onSaved,
		CloseDelay: s.closeDelay,
	}, existing)
}
