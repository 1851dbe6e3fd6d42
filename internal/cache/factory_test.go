package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCache_EmptyTypeDefaultsToMemory(t *testing.T) {
	c, err := NewCache(&Config{})
	require.NoError(t, err)
	_, ok := c.(*MemoryCache)
	assert.True(t, ok)
}

func TestNewCache_MemoryTypeReturnsMemoryCache(t *testing.T) {
	c, err := NewCache(&Config{Type: "memory", MaxKeys: 10})
	require.NoError(t, err)
	_, ok := c.(*MemoryCache)
	assert.True(t, ok)
}

func TestNewCache_UnknownTypeReturnsError(t *testing.T) {
	_, err := NewCache(&Config{Type: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cache type")
}

func TestDefaultCache_ReturnsUsableMemoryCache(t *testing.T) {
	c := DefaultCache()
	_, ok := c.(*MemoryCache)
	assert.True(t, ok)
}

func TestCacheKey_JoinsPrefixAndID(t *testing.T) {
	assert.Equal(t, "doc:123", CacheKey("doc", "123"))
}

func TestCacheKeys_MapsPrefixOverAllIDs(t *testing.T) {
	keys := CacheKeys("doc", []string{"1", "2"})
	assert.Equal(t, []string{"doc:1", "doc:2"}, keys)
}
