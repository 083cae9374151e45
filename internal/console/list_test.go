package console

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

type item struct {
	ID int64
}

type pagedSource struct {
	mu      sync.Mutex
	total   int
	calls   []int
	fail    error
	bare    bool
	gate    chan struct{}
	started chan struct{}
}

func (s *pagedSource) List(ctx context.Context, page, perPage int) (pagination.Page[item], error) {
	s.mu.Lock()
	s.calls = append(s.calls, page)
	fail, gate, started := s.fail, s.gate, s.started
	s.mu.Unlock()

	if gate != nil && page == 1 {
		close(started)
		<-gate
	}
	if fail != nil {
		return pagination.Page[item]{}, fail
	}
	if s.bare {
		items := make([]item, s.total)
		for i := range items {
			items[i] = item{ID: int64(i + 1)}
		}
		return pagination.Page[item]{Items: items}, nil
	}
	meta := pagination.NewMeta(page, perPage, s.total)
	var items []item
	for id := (page-1)*perPage + 1; id <= s.total && len(items) < perPage; id++ {
		items = append(items, item{ID: int64(id)})
	}
	return pagination.Page[item]{Items: items, Meta: &meta}, nil
}

func (s *pagedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestListWalksPagesAndStopsAtEdges(t *testing.T) {
	src := &pagedSource{total: 25}
	list := NewList(ListConfig[item]{Source: src, PerPage: 10})
	ctx := context.Background()

	require.NoError(t, list.Load(ctx, 1))
	view := list.Snapshot()
	assert.Equal(t, 3, view.Meta.LastPage)
	assert.Len(t, view.Items, 10)
	assert.False(t, view.HasPrev())

	moved, err := list.GoToPreviousPage(ctx)
	require.NoError(t, err)
	assert.False(t, moved)

	for i := 0; i < 2; i++ {
		moved, err = list.GoToNextPage(ctx)
		require.NoError(t, err)
		assert.True(t, moved)
	}
	view = list.Snapshot()
	assert.Equal(t, 3, view.Meta.CurrentPage)
	assert.Len(t, view.Items, 5)

	calls := src.callCount()
	moved, err = list.GoToNextPage(ctx)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, calls, src.callCount())
	assert.Equal(t, 3, list.Snapshot().Meta.CurrentPage)
}

func TestListKeepsLastGoodPageOnFailure(t *testing.T) {
	src := &pagedSource{total: 12}
	list := NewList(ListConfig[item]{Source: src})
	ctx := context.Background()
	require.NoError(t, list.Load(ctx, 1))

	src.mu.Lock()
	src.fail = errors.New("boom")
	src.mu.Unlock()

	err := list.Load(ctx, 2)
	require.Error(t, err)
	view := list.Snapshot()
	assert.False(t, view.Loading)
	assert.Equal(t, 1, view.Meta.CurrentPage)
	assert.Len(t, view.Items, 10)
	assert.EqualError(t, view.Err, "boom")
}

func TestListSidecarsFailIndependently(t *testing.T) {
	src := &pagedSource{total: 3}
	list := NewList(ListConfig[item]{
		Source: src,
		Sidecars: []Sidecar{
			{Name: "summary", Load: func(context.Context) (any, error) { return 42, nil }},
			{Name: "top", Load: func(context.Context) (any, error) { return nil, errors.New("stats down") }},
		},
	})

	require.NoError(t, list.Load(context.Background(), 1))
	view := list.Snapshot()
	assert.Len(t, view.Items, 3)
	assert.Equal(t, 42, view.Extras["summary"])
	assert.NotContains(t, view.Extras, "top")
	assert.EqualError(t, view.ExtraErrs["top"], "stats down")
}

func TestListSynthesizesCursorForBareCollections(t *testing.T) {
	src := &pagedSource{total: 14, bare: true}
	list := NewList(ListConfig[item]{Source: src, PerPage: 10})

	require.NoError(t, list.Load(context.Background(), 1))
	view := list.Snapshot()
	assert.False(t, view.Paginated)
	assert.Len(t, view.Items, 14)
	assert.Equal(t, pagination.Meta{CurrentPage: 1, LastPage: 1, PerPage: 14, Total: 14}, view.Meta)
	assert.False(t, view.HasNext())
	assert.False(t, view.HasPrev())
}

func TestListDropsStaleResults(t *testing.T) {
	src := &pagedSource{total: 25, gate: make(chan struct{}), started: make(chan struct{})}
	list := NewList(ListConfig[item]{Source: src})
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- list.Load(ctx, 1) }()
	<-src.started

	require.NoError(t, list.Load(ctx, 2))
	close(src.gate)

	assert.ErrorIs(t, <-slow, ErrStaleResult)
	view := list.Snapshot()
	assert.Equal(t, 2, view.Meta.CurrentPage)
	assert.Equal(t, int64(11), view.Items[0].ID)
}

func TestListDropsResultsAfterClose(t *testing.T) {
	src := &pagedSource{total: 5, gate: make(chan struct{}), started: make(chan struct{})}
	list := NewList(ListConfig[item]{Source: src})

	done := make(chan error, 1)
	go func() { done <- list.Load(context.Background(), 1) }()
	<-src.started
	list.Close()
	close(src.gate)

	assert.ErrorIs(t, <-done, ErrStaleResult)
	assert.Empty(t, list.Snapshot().Items)
	assert.ErrorIs(t, list.Load(context.Background(), 1), ErrListClosed)
}

func TestListMutationClosesFormAndReloads(t *testing.T) {
	src := &pagedSource{total: 25}
	list := NewList(ListConfig[item]{Source: src})
	ctx := context.Background()
	require.NoError(t, list.Load(ctx, 1))
	_, err := list.GoToNextPage(ctx)
	require.NoError(t, err)

	target := item{ID: 11}
	list.OpenEdit(target)
	view := list.Snapshot()
	require.True(t, view.FormOpen)
	require.NotNil(t, view.EditTarget)
	assert.Equal(t, target, *view.EditTarget)

	require.NoError(t, list.OnMutationSucceeded(ctx))
	view = list.Snapshot()
	assert.False(t, view.FormOpen)
	assert.Nil(t, view.EditTarget)
	assert.Equal(t, []int{1, 2, 2}, src.calls)
}

func TestListResumeAllowsPagingBeforeLoad(t *testing.T) {
	src := &pagedSource{total: 25}
	list := NewList(ListConfig[item]{Source: src})
	list.Resume(pagination.NewMeta(3, 10, 25))

	moved, err := list.GoToNextPage(context.Background())
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Zero(t, src.callCount())

	moved, err = list.GoToPreviousPage(context.Background())
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, list.Snapshot().Meta.CurrentPage)
}
