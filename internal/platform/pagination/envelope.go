package pagination

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnexpectedShape is returned when a list response is neither an envelope nor an array.
var ErrUnexpectedShape = errors.New("pagination: unexpected list response shape")

// Envelope is the closed set of list response shapes the backend produces.
type Envelope[T any] interface {
	Page() Page[T]
	envelope()
}

// Paginated is the `{success, message, data, meta}` envelope.
type Paginated[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    []T    `json:"data"`
	Meta    Meta   `json:"meta"`
}

// Page resolves the envelope into a canonical page.
func (p Paginated[T]) Page() Page[T] {
	meta := p.Meta
	items := p.Data
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Meta: &meta}
}

func (Paginated[T]) envelope() {}

// Bare is an unpaginated collection, either `[...]` or `{data: [...]}`.
type Bare[T any] struct {
	Items []T
}

// Page resolves the collection into a canonical page without metadata.
func (b Bare[T]) Page() Page[T] {
	items := b.Items
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items}
}

func (Bare[T]) envelope() {}

type rawEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *Meta           `json:"meta"`
}

// Decode classifies a raw list response body.
func Decode[T any](raw []byte) (Envelope[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnexpectedShape)
	}
	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("pagination: decode array: %w", err)
		}
		return Bare[T]{Items: items}, nil
	case '{':
		var env rawEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("pagination: decode envelope: %w", err)
		}
		var items []T
		data := bytes.TrimSpace(env.Data)
		if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
			if data[0] != '[' {
				return nil, fmt.Errorf("%w: data is not a list", ErrUnexpectedShape)
			}
			if err := json.Unmarshal(data, &items); err != nil {
				return nil, fmt.Errorf("pagination: decode data: %w", err)
			}
		} else if len(data) == 0 {
			return nil, fmt.Errorf("%w: object without data", ErrUnexpectedShape)
		}
		if env.Meta == nil {
			return Bare[T]{Items: items}, nil
		}
		return Paginated[T]{Success: env.Success, Message: env.Message, Data: items, Meta: *env.Meta}, nil
	default:
		return nil, fmt.Errorf("%w: starts with %q", ErrUnexpectedShape, trimmed[0])
	}
}

// Normalize decodes a raw list response straight into a canonical page.
func Normalize[T any](raw []byte) (Page[T], error) {
	env, err := Decode[T](raw)
	if err != nil {
		return Page[T]{}, err
	}
	return env.Page(), nil
}
