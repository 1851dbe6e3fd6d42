package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(&Config{MaxKeys: 10, TTL: time.Minute})
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "key1", "value1", time.Minute))

	val, err := mc.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", val)
}

func TestMemoryCache_GetMissReturnsErrCacheMiss(t *testing.T) {
	mc := NewMemoryCache(nil)
	defer mc.Close()

	_, err := mc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_ExpiredEntryIsTreatedAsMiss(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(nil)
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "key1", "value1", time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, err := mc.Get(ctx, "key1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_DeleteRemovesEntry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(nil)
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "key1", "value1", time.Minute))
	require.NoError(t, mc.Delete(ctx, "key1"))

	exists, err := mc.Exists(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_SetMultiAndGetMulti(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(nil)
	defer mc.Close()

	require.NoError(t, mc.SetMulti(ctx, map[string]interface{}{"a": 1, "b": 2}, time.Minute))

	values, err := mc.GetMulti(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, values["a"])
	assert.Equal(t, 2, values["b"])
	assert.NotContains(t, values, "c")
}

func TestMemoryCache_ClearRemovesAllEntries(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(nil)
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "key1", "value1", time.Minute))
	require.NoError(t, mc.Clear(ctx))

	exists, err := mc.Exists(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_StatsTracksHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(nil)
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "key1", "value1", time.Minute))
	_, _ = mc.Get(ctx, "key1")
	_, _ = mc.Get(ctx, "missing")

	stats, err := mc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}
