package redis

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache implements ports.RemoteCache on a Redis client. All keys live under
// a prefix namespace so Clear and DeletePattern never touch foreign keys.
type Cache struct {
	r      redis.Cmdable
	prefix string
}

// NewCache creates a Redis-backed remote cache namespaced under prefix.
func NewCache(r redis.Cmdable, prefix string) *Cache {
	return &Cache{r: r, prefix: prefix}
}

func (c *Cache) namespaced(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

func (c *Cache) stripNamespace(key string) string {
	if c.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, c.prefix+":")
}

func (c *Cache) matchAll() string {
	if c.prefix == "" {
		return "*"
	}
	return c.prefix + ":*"
}

// Get returns the raw bytes for key. ok=false on a clean miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.r.Get(ctx, c.namespaced(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores value for key with TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.r.Set(ctx, c.namespaced(key), value, ttl).Err()
}

// Delete removes the key, reporting whether it existed.
func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.r.Del(ctx, c.namespaced(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeletePattern scans the namespace and removes keys whose un-namespaced form
// matches re. The regexp is evaluated client-side; SCAN only narrows by
// namespace prefix.
func (c *Cache) DeletePattern(ctx context.Context, re *regexp.Regexp) (int, error) {
	matched, err := c.scanMatching(ctx, re)
	if err != nil {
		return 0, err
	}
	if len(matched) == 0 {
		return 0, nil
	}
	n, err := c.r.Del(ctx, matched...).Result()
	return int(n), err
}

// Clear removes every key within the namespace.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.scanMatching(ctx, nil)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.r.Del(ctx, keys...).Err()
}

// Ping checks reachability.
func (c *Cache) Ping(ctx context.Context) error {
	return c.r.Ping(ctx).Err()
}

// scanMatching walks the namespace with SCAN. A nil re matches everything.
func (c *Cache) scanMatching(ctx context.Context, re *regexp.Regexp) ([]string, error) {
	var (
		matched []string
		cursor  uint64
	)
	for {
		keys, next, err := c.r.Scan(ctx, cursor, c.matchAll(), 100).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if re == nil || re.MatchString(c.stripNamespace(k)) {
				matched = append(matched, k)
			}
		}
		cursor = next
		if cursor == 0 {
			return matched, nil
		}
	}
}
