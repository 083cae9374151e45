package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStoreClaimsOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewIdempotencyStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.CheckAndInsert(ctx, "abc", "products"))
	assert.ErrorIs(t, store.CheckAndInsert(ctx, "abc", "products"), ErrIdempotencyConflict)
	require.NoError(t, store.CheckAndInsert(ctx, "abc", "orders"))

	require.NoError(t, store.Delete(ctx, "abc", "products"))
	require.NoError(t, store.CheckAndInsert(ctx, "abc", "products"))

	assert.Error(t, store.CheckAndInsert(ctx, "", "products"))
}
