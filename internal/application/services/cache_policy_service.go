package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"

	"github.com/stagelink/booking-platform/internal/core/ports"
)

// EndpointCachePolicy configures caching for one logical endpoint.
type EndpointCachePolicy struct {
	Enabled   bool
	TTL       time.Duration
	KeyPrefix string
}

// DefaultCachePolicies is the static policy table for the marketplace read
// paths. Endpoints absent from the table are not cacheable. Booking lookups
// stay uncached: negotiation state must never be stale.
func DefaultCachePolicies() map[string]EndpointCachePolicy {
	return map[string]EndpointCachePolicy{
		"artist.getAll":            {Enabled: true, TTL: 5 * time.Minute, KeyPrefix: "artists:all"},
		"artist.getById":           {Enabled: true, TTL: 10 * time.Minute, KeyPrefix: "artist"},
		"artist.search":            {Enabled: true, TTL: 2 * time.Minute, KeyPrefix: "artists:search"},
		"venue.getAll":             {Enabled: true, TTL: 5 * time.Minute, KeyPrefix: "venues:all"},
		"venue.getById":            {Enabled: true, TTL: 10 * time.Minute, KeyPrefix: "venue"},
		"review.getByArtist":       {Enabled: true, TTL: 15 * time.Minute, KeyPrefix: "reviews:artist"},
		"rider.getByArtist":        {Enabled: true, TTL: 30 * time.Minute, KeyPrefix: "riders:artist"},
		"booking.getById":          {Enabled: false},
		"availability.getByArtist": {Enabled: false},
	}
}

// CachePolicyService decides per-endpoint whether to cache, derives keys from
// call input, and moves responses through the tiered cache. Unknown endpoints
// are not an error: every operation quietly no-ops for them.
type CachePolicyService struct {
	cache    ports.CacheStore
	policies map[string]EndpointCachePolicy
	sf       singleflight.Group
	logger   *logrus.Logger
}

func NewCachePolicyService(cache ports.CacheStore, policies map[string]EndpointCachePolicy, logger *logrus.Logger) *CachePolicyService {
	if policies == nil {
		policies = DefaultCachePolicies()
	}
	return &CachePolicyService{cache: cache, policies: policies, logger: logger}
}

// ShouldCache reports whether endpoint has an enabled cache policy.
func (s *CachePolicyService) ShouldCache(endpoint string) bool {
	p, ok := s.policies[endpoint]
	return ok && p.Enabled
}

// GenerateCacheKey derives the cache key for a call. Input is serialized to
// canonical JSON (map keys sorted) and hashed with xxh3, reduced to base-36.
// Hash collisions across distinct inputs of the same endpoint are tolerated
// as a memory/performance trade-off; the 64-bit hash keeps the probability
// negligible at cache-sized key counts. Returns "" for uncacheable endpoints.
func (s *CachePolicyService) GenerateCacheKey(endpoint string, input any) string {
	p, ok := s.policies[endpoint]
	if !ok || !p.Enabled {
		return ""
	}
	if input == nil {
		return p.KeyPrefix
	}
	b, err := json.Marshal(input)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithField("endpoint", endpoint).Warn("cache key input not serializable; skipping cache")
		}
		return ""
	}
	h := xxh3.Hash(b)
	return p.KeyPrefix + ":" + strconv.FormatUint(h, 36)
}

// GetCachedResponse looks up the cached response for a call. ok=false for
// uncacheable endpoints, misses, and expired entries alike.
func (s *CachePolicyService) GetCachedResponse(ctx context.Context, endpoint string, input any) ([]byte, bool) {
	key := s.GenerateCacheKey(endpoint, input)
	if key == "" {
		return nil, false
	}
	return s.cache.Get(ctx, key)
}

// CacheResponse stores a response under the endpoint's policy TTL.
func (s *CachePolicyService) CacheResponse(ctx context.Context, endpoint string, input any, value []byte) {
	key := s.GenerateCacheKey(endpoint, input)
	if key == "" {
		return
	}
	s.cache.Set(ctx, key, value, s.policies[endpoint].TTL)
}

// InvalidateCache removes the cached response for one call.
func (s *CachePolicyService) InvalidateCache(ctx context.Context, endpoint string, input any) bool {
	key := s.GenerateCacheKey(endpoint, input)
	if key == "" {
		return false
	}
	return s.cache.Delete(ctx, key)
}

// InvalidateCachePattern removes every cached response whose key matches
// pattern, e.g. "^artist" after an artist profile update.
func (s *CachePolicyService) InvalidateCachePattern(ctx context.Context, pattern string) int {
	return s.cache.DeletePattern(ctx, pattern)
}

// CachedCall returns the cached response for (endpoint, input) or runs loader
// and caches its result. Concurrent loads of the same key are coalesced with
// singleflight. Loader errors pass through untouched and nothing is cached.
func CachedCall[T any](ctx context.Context, s *CachePolicyService, endpoint string, input any, loader func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	key := s.GenerateCacheKey(endpoint, input)
	if key == "" {
		return loader(ctx)
	}

	if b, ok := s.cache.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		// Undecodable entry: drop it and fall through to the loader.
		s.cache.Delete(ctx, key)
	}

	res, err, _ := s.sf.Do(key, func() (any, error) {
		if b, ok := s.cache.Get(ctx, key); ok {
			var v T
			if err := json.Unmarshal(b, &v); err == nil {
				return v, nil
			}
		}
		v, err := loader(ctx)
		if err != nil {
			return zero, err
		}
		if b, err := json.Marshal(v); err == nil {
			s.cache.Set(ctx, key, b, s.policies[endpoint].TTL)
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, nil
	}
	return v, nil
}
