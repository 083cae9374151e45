package console

import (
	"context"

	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

// PageStore persists JSON snapshots between requests.
type PageStore interface {
	PutJSON(ctx context.Context, key string, value any) error
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
}

type snapshot[T any] struct {
	Items     []T             `json:"items"`
	Meta      pagination.Meta `json:"meta"`
	Paginated bool            `json:"paginated"`
}

// Memo carries one screen's last good page from request to request, so a
// failed fetch can still show what the user saw before.
type Memo[T any] struct {
	store PageStore
	key   string
}

// NewMemo binds a memo to a store key, normally session id plus screen name.
func NewMemo[T any](store PageStore, key string) Memo[T] {
	return Memo[T]{store: store, key: key}
}

// Recall restores the remembered page into list. It reports whether one existed.
func (m Memo[T]) Recall(ctx context.Context, list *List[T]) bool {
	if m.store == nil {
		return false
	}
	var snap snapshot[T]
	found, err := m.store.GetJSON(ctx, m.key, &snap)
	if err != nil || !found {
		return false
	}
	list.Restore(snap.Items, snap.Meta, snap.Paginated)
	return true
}

// Remember stores the list's current page when it holds a successful load.
func (m Memo[T]) Remember(ctx context.Context, list *List[T]) error {
	if m.store == nil {
		return nil
	}
	view := list.Snapshot()
	if !view.Loaded || view.Err != nil {
		return nil
	}
	return m.store.PutJSON(ctx, m.key, snapshot[T]{Items: view.Items, Meta: view.Meta, Paginated: view.Paginated})
}
