package console

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
)

// DefaultCloseDelay is how long a saved form keeps its confirmation visible.
const DefaultCloseDelay = time.Second

var (
	// ErrInvalid is returned when local validation blocks a submit.
	ErrInvalid = errors.New("form has invalid fields")
	// ErrSubmitInProgress is returned for a submit while another is in flight.
	ErrSubmitInProgress = errors.New("submit already in progress")
	// ErrFormClosed is returned for a submit after the form was saved or closed.
	ErrFormClosed = errors.New("form is closed")
	// ErrUnknownField is returned by Set for a name the form does not bind.
	ErrUnknownField = errors.New("unknown form field")
)

// InvalidError carries the local validation messages of a blocked submit.
type InvalidError struct {
	Fields map[string]string
}

func (e *InvalidError) Error() string { return fmt.Sprintf("%d invalid field(s)", len(e.Fields)) }

// Is matches ErrInvalid.
func (e *InvalidError) Is(target error) bool { return target == ErrInvalid }

// State is a step of the form lifecycle.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateSucceeded
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Entity is a backend record with a server-assigned id. Zero means unsaved.
type Entity interface {
	EntityID() int64
}

// Submitter persists drafts.
type Submitter[T any] interface {
	Create(ctx context.Context, draft T) (T, error)
	Update(ctx context.Context, id int64, draft T) (T, error)
}

// FormConfig wires a Form to its entity.
type FormConfig[T Entity] struct {
	// Label names the entity in messages, e.g. "Product".
	Label     string
	Submitter Submitter[T]
	Fields    Fields[T]
	Defaults  func() T
	Validate  func(T) map[string]string
	// OnSaved receives the persisted entity after a successful submit.
	OnSaved func(T)
	// OnClose runs once when the form closes.
	OnClose    func()
	CloseDelay time.Duration
	// AfterFunc schedules the delayed close. Defaults to time.AfterFunc.
	AfterFunc func(time.Duration, func())
}

// Form owns one draft from open until it is saved or dismissed.
type Form[T Entity] struct {
	cfg    FormConfig[T]
	mu     sync.Mutex
	draft  T
	editID int64
	state  State
	errs   map[string]string
	msg    string
	failed bool
	closed sync.Once
}

// NewForm opens a form. A non-nil existing entity puts the form in edit mode
// with a copy of it; otherwise the draft starts from cfg.Defaults.
func NewForm[T Entity](cfg FormConfig[T], existing *T) *Form[T] {
	if cfg.CloseDelay <= 0 {
		cfg.CloseDelay = DefaultCloseDelay
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if cfg.Label == "" {
		cfg.Label = "Record"
	}
	f := &Form[T]{cfg: cfg, errs: map[string]string{}}
	switch {
	case existing != nil:
		f.draft = *existing
		f.editID = (*existing).EntityID()
	case cfg.Defaults != nil:
		f.draft = cfg.Defaults()
	}
	return f
}

// Draft returns a copy of the current draft.
func (f *Form[T]) Draft() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// EditMode reports whether the form updates an existing entity.
func (f *Form[T]) EditMode() bool {
	return f.editID != 0
}

// EditID is the id of the entity being edited, or 0.
func (f *Form[T]) EditID() int64 {
	return f.editID
}

// State returns the lifecycle state.
func (f *Form[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Errors returns a copy of the field error map.
func (f *Form[T]) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Message returns the banner text and whether it reports a failure.
func (f *Form[T]) Message() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msg, f.failed
}

// Set updates exactly one field of the draft.
func (f *Form[T]) Set(name, raw string) error {
	setter, ok := f.cfg.Fields[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateEditing {
		return ErrFormClosed
	}
	setter(&f.draft, Coerce(name, raw))
	return nil
}

// Bind applies a whole submitted form to the draft.
func (f *Form[T]) Bind(values url.Values) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateEditing {
		return ErrFormClosed
	}
	f.cfg.Fields.bindValues(&f.draft, values)
	return nil
}

// Submit validates and persists the draft. Invalid drafts never reach the
// backend. Exactly one of Create or Update is called.
func (f *Form[T]) Submit(ctx context.Context) (T, error) {
	var zero T
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return zero, ErrSubmitInProgress
	case StateSucceeded, StateClosed:
		f.mu.Unlock()
		return zero, ErrFormClosed
	}
	if f.cfg.Validate != nil {
		if errs := f.cfg.Validate(f.draft); len(errs) > 0 {
			f.errs = errs
			f.msg = "Please correct the highlighted fields."
			f.failed = true
			f.mu.Unlock()
			return zero, &InvalidError{Fields: errs}
		}
	}
	f.state = StateSubmitting
	f.errs = map[string]string{}
	f.msg = ""
	f.failed = false
	draft := f.draft
	f.mu.Unlock()

	var (
		saved T
		err   error
	)
	if f.EditMode() {
		saved, err = f.cfg.Submitter.Update(ctx, f.editID, draft)
	} else {
		saved, err = f.cfg.Submitter.Create(ctx, draft)
	}

	f.mu.Lock()
	if f.state == StateClosed {
		// dismissed while the request was in flight
		f.mu.Unlock()
		return saved, err
	}
	if err != nil {
		f.state = StateEditing
		f.failed = true
		f.msg = f.failureMessage(err)
		for field, msg := range apiclient.FieldErrors(err) {
			f.errs[field] = msg
		}
		f.mu.Unlock()
		return zero, err
	}
	f.state = StateSucceeded
	f.draft = saved
	if f.EditMode() {
		f.msg = f.cfg.Label + " updated successfully."
	} else {
		f.msg = f.cfg.Label + " created successfully."
	}
	f.mu.Unlock()

	if f.cfg.OnSaved != nil {
		f.cfg.OnSaved(saved)
	}
	f.cfg.AfterFunc(f.cfg.CloseDelay, f.Close)
	return saved, nil
}

// Close dismisses the form and discards the draft. Safe to call repeatedly.
func (f *Form[T]) Close() {
	f.closed.Do(func() {
		f.mu.Lock()
		f.state = StateClosed
		var zero T
		f.draft = zero
		f.mu.Unlock()
		if f.cfg.OnClose != nil {
			f.cfg.OnClose()
		}
	})
}

func (f *Form[T]) failureMessage(err error) string {
	switch {
	case errors.Is(err, apiclient.ErrValidation):
		return "The server rejected some fields. Please review them."
	case errors.Is(err, apiclient.ErrNotFound):
		return f.cfg.Label + " no longer exists."
	case errors.Is(err, apiclient.ErrEncode):
		return "Some values could not be sent. Please review the form."
	case errors.Is(err, apiclient.ErrNetwork):
		return "Could not reach the server. Please try again."
	}
	return "Failed to save " + strings.ToLower(f.cfg.Label) + "."
}
