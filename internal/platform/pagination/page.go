// Package pagination normalizes the list envelopes returned by the inventory backend.
package pagination

import "math"

const (
	// DefaultPage is the first page of any collection.
	DefaultPage = 1
	// DefaultPerPage matches the backend default page size.
	DefaultPerPage = 10
)

// Meta carries the backend pagination cursor.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// NewMeta computes pagination metadata for a collection of total items.
func NewMeta(page, perPage, total int) Meta {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = DefaultPage
	}
	lastPage := int(math.Ceil(float64(total) / float64(perPage)))
	if lastPage < 1 {
		lastPage = 1
	}
	return Meta{CurrentPage: page, LastPage: lastPage, PerPage: perPage, Total: total}
}

// HasPrev reports whether a page before the current one exists.
func (m Meta) HasPrev() bool {
	return m.CurrentPage > 1
}

// HasNext reports whether a page after the current one exists.
func (m Meta) HasNext() bool {
	return m.CurrentPage < m.LastPage
}

// Page is the canonical shape every list consumer works with. Meta is nil
// when the backend answered with an unpaginated collection.
type Page[T any] struct {
	Items []T
	Meta  *Meta
}

// Paginated reports whether the page carries pagination metadata.
func (p Page[T]) Paginated() bool {
	return p.Meta != nil
}
