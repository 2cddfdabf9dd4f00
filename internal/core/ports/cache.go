package ports

import (
	"context"
	"regexp"
	"time"
)

// CacheStats exposes the counters kept by the local TTL store.
// HitRate is hits/(hits+misses), or 0 when nothing has been requested yet.
type CacheStats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Size    int     `json:"size"`
	HitRate float64 `json:"hitRate"`
}

// CacheStore is the caller-facing cache facade. No operation returns an error:
// a backing-store failure degrades to "cache empty" behavior, never to a
// failed request. The rate limiter is the only subsystem allowed to
// short-circuit a caller on purpose.
type CacheStore interface {
	// Get returns the raw bytes for key. ok=false if absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value for key with the given TTL, overwriting unconditionally.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete removes the key, reporting whether a local entry existed.
	Delete(ctx context.Context, key string) bool
	// DeletePattern removes every key matching pattern (a regular expression),
	// returning the number of local entries removed. A malformed pattern is
	// logged and removes nothing.
	DeletePattern(ctx context.Context, pattern string) int
	// Clear drops all entries and resets counters.
	Clear(ctx context.Context)
	// Stats returns the local store's counters.
	Stats() CacheStats
}

// RemoteCache is a distributed backing store shared across instances.
// Unlike CacheStore, operations may fail; the tiered adapter owns recovery.
type RemoteCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	// DeletePattern removes every remote key (within this store's namespace)
	// whose un-namespaced form matches re.
	DeletePattern(ctx context.Context, re *regexp.Regexp) (int, error)
	// Clear removes every key within this store's namespace.
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}
