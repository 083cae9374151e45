package console

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore map[string][]byte

func (m mapStore) PutJSON(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m[key] = raw
	return nil
}

func (m mapStore) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := m[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func TestMemoShowsLastGoodPageAcrossRequests(t *testing.T) {
	store := mapStore{}
	src := &pagedSource{total: 25}
	ctx := context.Background()

	first := NewList(ListConfig[item]{Source: src})
	memo := NewMemo[item](store, "s1:items")
	assert.False(t, memo.Recall(ctx, first))
	require.NoError(t, first.Load(ctx, 2))
	require.NoError(t, memo.Remember(ctx, first))

	src.mu.Lock()
	src.fail = errors.New("backend down")
	src.mu.Unlock()

	second := NewList(ListConfig[item]{Source: src})
	require.True(t, memo.Recall(ctx, second))
	moved, err := second.GoToNextPage(ctx)
	assert.True(t, moved)
	require.Error(t, err)

	view := second.Snapshot()
	assert.Equal(t, 2, view.Meta.CurrentPage)
	assert.Equal(t, int64(11), view.Items[0].ID)
	assert.Error(t, view.Err)

	require.NoError(t, memo.Remember(ctx, second))
	var snap snapshot[item]
	_, _ = store.GetJSON(ctx, "s1:items", &snap)
	assert.Equal(t, 2, snap.Meta.CurrentPage)
}
