// Package console holds the per-screen controllers shared by the product,
// supplier and purchase-order pages: a paginated List and a create/edit Form.
package console

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

var (
	// ErrStaleResult is returned by a load whose result was discarded because
	// a newer load started or the list was closed.
	ErrStaleResult = errors.New("list result discarded")
	// ErrListClosed is returned for loads requested after Close.
	ErrListClosed = errors.New("list is closed")
)

// Lister fetches one page of a collection.
type Lister[T any] interface {
	List(ctx context.Context, page, perPage int) (pagination.Page[T], error)
}

// ListerFunc adapts a function to Lister.
type ListerFunc[T any] func(ctx context.Context, page, perPage int) (pagination.Page[T], error)

// List calls fn.
func (fn ListerFunc[T]) List(ctx context.Context, page, perPage int) (pagination.Page[T], error) {
	return fn(ctx, page, perPage)
}

// Sidecar is an extra request issued alongside every page load, such as the
// dashboard summary shown above a table.
type Sidecar struct {
	Name string
	Load func(ctx context.Context) (any, error)
}

// ListConfig wires a List to its collection.
type ListConfig[T any] struct {
	Source   Lister[T]
	PerPage  int
	Sidecars []Sidecar
}

// View is a consistent copy of the list state for rendering.
type View[T any] struct {
	Items      []T
	Meta       pagination.Meta
	Paginated  bool
	Loaded     bool
	Loading    bool
	FormOpen   bool
	EditTarget *T
	Err        error
	Extras     map[string]any
	ExtraErrs  map[string]error
}

// HasPrev reports whether a previous page exists.
func (v View[T]) HasPrev() bool { return v.Loaded && v.Meta.HasPrev() }

// HasNext reports whether a next page exists.
func (v View[T]) HasNext() bool { return v.Loaded && v.Meta.HasNext() }

// List owns the current page of one collection and its cursor.
type List[T any] struct {
	cfg ListConfig[T]

	mu         sync.Mutex
	items      []T
	meta       pagination.Meta
	paginated  bool
	loaded     bool
	loading    bool
	formOpen   bool
	editTarget *T
	err        error
	extras     map[string]any
	extraErrs  map[string]error
	generation uint64
	closed     bool
}

// NewList constructs an empty list.
func NewList[T any](cfg ListConfig[T]) *List[T] {
	if cfg.PerPage < 1 {
		cfg.PerPage = pagination.DefaultPerPage
	}
	return &List[T]{
		cfg:       cfg,
		items:     []T{},
		extras:    make(map[string]any),
		extraErrs: make(map[string]error),
	}
}

// Resume restores a cursor saved from an earlier request so that paging
// decisions can be made before the first load.
func (l *List[T]) Resume(meta pagination.Meta) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if meta.CurrentPage < 1 {
		return
	}
	l.meta = meta
	l.paginated = true
	l.loaded = true
}

// Restore seeds the list with a page loaded by an earlier request. A later
// failed Load keeps showing it.
func (l *List[T]) Restore(items []T, meta pagination.Meta, paginated bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]T{}, items...)
	l.meta = meta
	l.paginated = paginated
	l.loaded = true
}

// Load fetches page together with every sidecar and waits for all of them.
// A failed page fetch keeps the previous items. Sidecar failures are
// recorded per sidecar and never fail the load.
func (l *List[T]) Load(ctx context.Context, page int) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrListClosed
	}
	l.generation++
	gen := l.generation
	l.loading = true
	perPage := l.meta.PerPage
	if perPage < 1 || !l.paginated {
		perPage = l.cfg.PerPage
	}
	l.mu.Unlock()

	if page < 1 {
		page = pagination.DefaultPage
	}

	var (
		result  pagination.Page[T]
		listErr error
		extras  = make([]any, len(l.cfg.Sidecars))
		errs    = make([]error, len(l.cfg.Sidecars))
		g       errgroup.Group
	)
	g.Go(func() error {
		result, listErr = l.cfg.Source.List(ctx, page, perPage)
		return nil
	})
	for i, sc := range l.cfg.Sidecars {
		g.Go(func() error {
			extras[i], errs[i] = sc.Load(ctx)
			return nil
		})
	}
	_ = g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.generation {
		return ErrStaleResult
	}
	l.loading = false
	for i, sc := range l.cfg.Sidecars {
		if errs[i] != nil {
			l.extraErrs[sc.Name] = errs[i]
			continue
		}
		delete(l.extraErrs, sc.Name)
		l.extras[sc.Name] = extras[i]
	}
	if listErr != nil {
		l.err = listErr
		return listErr
	}
	l.err = nil
	l.loaded = true
	l.items = result.Items
	if l.items == nil {
		l.items = []T{}
	}
	if result.Meta != nil {
		l.meta = *result.Meta
		l.paginated = true
	} else {
		l.meta = singlePage(len(l.items), perPage)
		l.paginated = false
	}
	return nil
}

// Reload fetches the current page again.
func (l *List[T]) Reload(ctx context.Context) error {
	return l.Load(ctx, l.currentPage())
}

// GoToPreviousPage loads the previous page. It reports false without any
// request when the list is on its first page.
func (l *List[T]) GoToPreviousPage(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if !l.loaded || !l.meta.HasPrev() {
		l.mu.Unlock()
		return false, nil
	}
	target := l.meta.CurrentPage - 1
	l.mu.Unlock()
	return true, l.Load(ctx, target)
}

// GoToNextPage loads the next page. It reports false without any request
// when the list is on its last page.
func (l *List[T]) GoToNextPage(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if !l.loaded || !l.meta.HasNext() {
		l.mu.Unlock()
		return false, nil
	}
	target := l.meta.CurrentPage + 1
	l.mu.Unlock()
	return true, l.Load(ctx, target)
}

// OpenCreate opens the form without a draft.
func (l *List[T]) OpenCreate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.formOpen = true
	l.editTarget = nil
}

// OpenEdit opens the form on a copy of entity.
func (l *List[T]) OpenEdit(entity T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := entity
	l.formOpen = true
	l.editTarget = &copied
}

// CloseForm dismisses the form.
func (l *List[T]) CloseForm() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.formOpen = false
	l.editTarget = nil
}

// OnMutationSucceeded closes the form and re-fetches the current page.
func (l *List[T]) OnMutationSucceeded(ctx context.Context) error {
	l.CloseForm()
	return l.Reload(ctx)
}

// Close tears the list down. Results of loads still in flight are dropped.
func (l *List[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.generation++
	l.loading = false
}

// Snapshot returns a copy of the current state.
func (l *List[T]) Snapshot() View[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	v := View[T]{
		Items:     append([]T(nil), l.items...),
		Meta:      l.meta,
		Paginated: l.paginated,
		Loaded:    l.loaded,
		Loading:   l.loading,
		FormOpen:  l.formOpen,
		Err:       l.err,
		Extras:    make(map[string]any, len(l.extras)),
		ExtraErrs: make(map[string]error, len(l.extraErrs)),
	}
	if v.Items == nil {
		v.Items = []T{}
	}
	if l.editTarget != nil {
		target := *l.editTarget
		v.EditTarget = &target
	}
	for k, val := range l.extras {
		v.Extras[k] = val
	}
	for k, err := range l.extraErrs {
		v.ExtraErrs[k] = err
	}
	return v
}

func (l *List[T]) currentPage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.meta.CurrentPage < 1 {
		return pagination.DefaultPage
	}
	return l.meta.CurrentPage
}

// singlePage describes an unpaginated answer as one page holding everything.
func singlePage(count, perPage int) pagination.Meta {
	if count > perPage {
		perPage = count
	}
	return pagination.Meta{CurrentPage: 1, LastPage: 1, PerPage: perPage, Total: count}
}
