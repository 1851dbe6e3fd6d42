package cache

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/citelink/citelink/pkg/models"
)

// ResultCache caches extractCitations output keyed by a content hash
// of the document text plus the options that affected the result. It
// never stores partial/diagnostic state, only the final citation
// list, since diagnostics are cheap to recompute and would otherwise
// go stale silently.
type ResultCache struct {
	backend Cache
	ttl     time.Duration
}

// NewResultCache wraps backend with a TTL applied to every Put.
func NewResultCache(backend Cache, ttl time.Duration) *ResultCache {
	return &ResultCache{backend: backend, ttl: ttl}
}

// Key hashes text and a caller-supplied options fingerprint (e.g. a
// JSON-encoded ExtractOptions) into a stable cache key.
func Key(text string, optionsFingerprint string) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(optionsFingerprint))
	return "extract:" + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached citation list for key, or ErrCacheMiss.
func (rc *ResultCache) Get(ctx context.Context, key string) ([]models.Citation, error) {
	raw, err := rc.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	data, ok := raw.([]byte)
	if !ok {
		// The memory backend hands back the []byte Put stored; a
		// JSON-serializing backend (Redis) hands it back as the base64
		// string json.Marshal made of it. Anything else is re-marshaled.
		if s, isString := raw.(string); isString {
			decoded, derr := base64.StdEncoding.DecodeString(s)
			if derr != nil {
				return nil, ErrCacheMiss
			}
			data = decoded
		} else {
			marshaled, merr := json.Marshal(raw)
			if merr != nil {
				return nil, ErrCacheMiss
			}
			data = marshaled
		}
	}
	var citations []models.Citation
	if err := json.Unmarshal(data, &citations); err != nil {
		return nil, ErrCacheMiss
	}
	return citations, nil
}

// Put stores citations under key.
func (rc *ResultCache) Put(ctx context.Context, key string, citations []models.Citation) error {
	data, err := json.Marshal(citations)
	if err != nil {
		return err
	}
	return rc.backend.Set(ctx, key, data, rc.ttl)
}
