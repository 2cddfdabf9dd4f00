package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimitRedisRepository implements rate limiting counter storage with
// Redis, sharing one quota across all instances pointed at the same store.
// Windows are aligned to clock boundaries so every instance agrees on them.
type RateLimitRedisRepository struct {
	r redis.Cmdable
}

func NewRateLimitRedisRepository(r redis.Cmdable) *RateLimitRedisRepository {
	return &RateLimitRedisRepository{r: r}
}

// IncrementWindow increments a per-client counter for a fixed window.
func (repo *RateLimitRedisRepository) IncrementWindow(ctx context.Context, clientKey string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(window)
	key := fmt.Sprintf("%s:%s:%d", keyPrefix, clientKey, windowStart.Unix())
	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, windowStart, err
	}
	return int(incr.Val()), windowStart, nil
}

type rateLimitWindow struct {
	count   int
	startAt time.Time
	resetAt time.Time
}

// RateLimitMemoryRepository keeps per-client windows in process memory. Each
// client's window is anchored at its first request rather than at clock
// boundaries. A periodic cleanup removes windows that have already expired,
// bounding memory for clients that stop sending requests.
type RateLimitMemoryRepository struct {
	mu      sync.Mutex
	windows map[string]rateLimitWindow
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// NewRateLimitMemoryRepository creates the repository and starts its cleanup
// goroutine. A non-positive cleanupInterval disables cleanup.
func NewRateLimitMemoryRepository(cleanupInterval time.Duration) *RateLimitMemoryRepository {
	repo := &RateLimitMemoryRepository{
		windows: make(map[string]rateLimitWindow),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go repo.cleanupLoop(cleanupInterval)
	}
	return repo
}

// IncrementWindow increments the client's counter, replacing the window once
// its reset time has passed. The keyPrefix and ttl arguments only matter for
// shared stores and are ignored here.
func (repo *RateLimitMemoryRepository) IncrementWindow(ctx context.Context, clientKey string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	now := repo.now()
	repo.mu.Lock()
	defer repo.mu.Unlock()
	w, ok := repo.windows[clientKey]
	if !ok || now.After(w.resetAt) {
		w = rateLimitWindow{startAt: now, resetAt: now.Add(window)}
	}
	w.count++
	repo.windows[clientKey] = w
	return w.count, w.startAt, nil
}

// Len returns the number of tracked client windows.
func (repo *RateLimitMemoryRepository) Len() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.windows)
}

// Cleanup removes windows whose reset time has passed and returns how many
// were removed.
func (repo *RateLimitMemoryRepository) Cleanup() int {
	now := repo.now()
	repo.mu.Lock()
	defer repo.mu.Unlock()
	removed := 0
	for k, w := range repo.windows {
		if now.After(w.resetAt) {
			delete(repo.windows, k)
			removed++
		}
	}
	return removed
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (repo *RateLimitMemoryRepository) Close() {
	repo.closeOnce.Do(func() { close(repo.done) })
}

// SetNow overrides the repository's clock. Intended for tests.
func (repo *RateLimitMemoryRepository) SetNow(now func() time.Time) {
	repo.mu.Lock()
	repo.now = now
	repo.mu.Unlock()
}

func (repo *RateLimitMemoryRepository) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			repo.Cleanup()
		case <-repo.done:
			return
		}
	}
}
