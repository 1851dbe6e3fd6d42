// Package cache implements a content-hash keyed result cache: a Cache
// interface with memory and Redis backends, plus a ResultCache
// (result_cache.go) that hashes a document's text and extraction
// options into a cache key so repeated extractCitations calls on
// identical input skip the pipeline.
package cache

import (
	"context"
	"time"

	citelinkerrors "github.com/citelink/citelink/pkg/errors"
)

// Cache is the interface for cache implementations.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
	GetMulti(ctx context.Context, keys []string) (map[string]interface{}, error)
	SetMulti(ctx context.Context, items map[string]interface{}, ttl time.Duration) error
	DeleteMulti(ctx context.Context, keys []string) error
	Close() error
	Stats(ctx context.Context) (*Stats, error)
}

// Stats represents cache statistics.
type Stats struct {
	Hits      int64
	Misses    int64
	Keys      int64
	Size      int64
	Evictions int64
	HitRate   float64
}

// ErrCacheMiss indicates a cache miss; wraps the taxonomy sentinel in
// pkg/errors so callers can errors.Is against either this or
// citelinkerrors.ErrCacheMiss.
var ErrCacheMiss = citelinkerrors.CacheError("cache miss", citelinkerrors.ErrCacheMiss)

// InvalidationStrategy defines cache invalidation strategy.
type InvalidationStrategy string

const (
	InvalidateOnWrite InvalidationStrategy = "write"
	InvalidateOnTTL   InvalidationStrategy = "ttl"
	InvalidateManual  InvalidationStrategy = "manual"
)

// Config holds cache configuration.
type Config struct {
	Type     string // "memory", "redis", "multilevel"
	TTL      time.Duration
	MaxSize  int64
	MaxKeys  int
	Strategy InvalidationStrategy

	// Redis-only fields, used when Type is "redis" or "multilevel".
	Addr     string
	Password string
	DB       int
	Prefix   string
}
