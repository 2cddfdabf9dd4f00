package cache

import (
	"context"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stagelink/booking-platform/internal/core/ports"
	"github.com/stagelink/booking-platform/internal/infrastructure/memory"
)

// Availability states of the remote tier.
const (
	stateUninitialized int32 = iota
	stateConnected
	stateUnavailable
)

const defaultRetryInterval = 30 * time.Second

// Tiered implements ports.CacheStore over a local TTL store and an optional
// remote store. The local store is authoritative for this process: every
// write lands there, remote writes are best-effort mirrors. Reads prefer the
// remote tier when connected so instances behind a load balancer converge,
// and silently degrade to the local value on any remote failure.
//
// A single failed remote operation does not mark the whole adapter
// unavailable; it degrades that call only. An unavailable remote is re-probed
// at most once per retry interval, so a remote that was down at startup (or
// marked unavailable later) rejoins once it answers a ping again. Divergence
// between tiers after a partial failure is not reconciled — entries converge
// as they expire.
type Tiered struct {
	local  *memory.Store
	remote ports.RemoteCache
	state  int32
	logger *logrus.Logger

	retryInterval time.Duration
	nextRetry     int64 // unix nanoseconds; earliest time the next reconnect probe may run
	now           func() time.Time
}

// NewTiered wraps local with an optional remote tier. remote may be nil.
func NewTiered(local *memory.Store, remote ports.RemoteCache, logger *logrus.Logger) *Tiered {
	return &Tiered{
		local:         local,
		remote:        remote,
		logger:        logger,
		retryInterval: defaultRetryInterval,
		now:           time.Now,
	}
}

// Initialize probes the remote tier. Missing configuration (nil remote) or an
// unreachable remote is an expected operating mode, not an error: the adapter
// settles in local-only mode and says so in the log. An unreachable remote is
// retried per the retry interval once traffic flows.
func (t *Tiered) Initialize(ctx context.Context) {
	if t.remote == nil {
		atomic.StoreInt32(&t.state, stateUnavailable)
		return
	}
	if err := t.remote.Ping(ctx); err != nil {
		t.markUnavailable()
		if t.logger != nil {
			t.logger.WithError(err).Warn("remote cache unreachable; continuing with local cache only")
		}
		return
	}
	atomic.StoreInt32(&t.state, stateConnected)
	if t.logger != nil {
		t.logger.Info("remote cache connected")
	}
}

// Connected reports whether the remote tier is in use.
func (t *Tiered) Connected() bool {
	return atomic.LoadInt32(&t.state) == stateConnected
}

func (t *Tiered) markUnavailable() {
	atomic.StoreInt32(&t.state, stateUnavailable)
	atomic.StoreInt64(&t.nextRetry, t.now().Add(t.retryInterval).UnixNano())
}

// remoteUsable reports whether the remote tier should serve this call. When
// the remote is unavailable and the retry interval has elapsed, the calling
// goroutine runs one reconnect probe; concurrent callers skip it and stay
// local until the probe settles.
func (t *Tiered) remoteUsable(ctx context.Context) bool {
	switch atomic.LoadInt32(&t.state) {
	case stateConnected:
		return true
	case stateUnavailable:
		if t.remote == nil {
			return false
		}
		deadline := atomic.LoadInt64(&t.nextRetry)
		nowNs := t.now().UnixNano()
		if nowNs < deadline {
			return false
		}
		if !atomic.CompareAndSwapInt64(&t.nextRetry, deadline, nowNs+int64(t.retryInterval)) {
			return false
		}
		if err := t.remote.Ping(ctx); err != nil {
			if t.logger != nil {
				t.logger.WithError(err).Debug("remote cache still unreachable")
			}
			return false
		}
		atomic.StoreInt32(&t.state, stateConnected)
		if t.logger != nil {
			t.logger.Info("remote cache reconnected")
		}
		return true
	default:
		return false
	}
}

// Get prefers the remote tier. On remote error the local value answers; on a
// clean remote miss the local store is still consulted, since a write may
// have landed locally while the remote was failing.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if t.remoteUsable(ctx) {
		val, ok, err := t.remote.Get(ctx, key)
		if err != nil {
			t.remoteFailed("get", err)
		} else if ok {
			tierHits.WithLabelValues("remote").Inc()
			return val, true
		} else {
			tierMisses.WithLabelValues("remote").Inc()
		}
	}
	val, ok := t.local.Get(key)
	if ok {
		tierHits.WithLabelValues("local").Inc()
	} else {
		tierMisses.WithLabelValues("local").Inc()
	}
	return val, ok
}

// Set writes locally first, then mirrors best-effort.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	t.local.Set(key, value, ttl)
	if t.remoteUsable(ctx) {
		if err := t.remote.Set(ctx, key, value, ttl); err != nil {
			t.remoteFailed("set", err)
		}
	}
}

// Delete removes locally and mirrors best-effort. The return value reflects
// the local store only.
func (t *Tiered) Delete(ctx context.Context, key string) bool {
	existed := t.local.Delete(key)
	if t.remoteUsable(ctx) {
		if _, err := t.remote.Delete(ctx, key); err != nil {
			t.remoteFailed("delete", err)
		}
	}
	return existed
}

// DeletePattern removes matching keys from both tiers, returning the local
// count. A malformed pattern removes nothing.
func (t *Tiered) DeletePattern(ctx context.Context, pattern string) int {
	re, err := regexp.Compile(pattern)
	if err != nil {
		if t.logger != nil {
			t.logger.WithError(err).WithField("pattern", pattern).Warn("invalid cache invalidation pattern")
		}
		return 0
	}
	count := t.local.DeletePattern(re)
	if t.remoteUsable(ctx) {
		if _, err := t.remote.DeletePattern(ctx, re); err != nil {
			t.remoteFailed("delete_pattern", err)
		}
	}
	return count
}

// Clear drops both tiers and resets local counters.
func (t *Tiered) Clear(ctx context.Context) {
	t.local.Clear()
	if t.remoteUsable(ctx) {
		if err := t.remote.Clear(ctx); err != nil {
			t.remoteFailed("clear", err)
		}
	}
}

// Stats returns the local tier's counters.
func (t *Tiered) Stats() ports.CacheStats {
	return t.local.Stats()
}

func (t *Tiered) remoteFailed(op string, err error) {
	remoteErrors.WithLabelValues(op).Inc()
	if t.logger != nil {
		t.logger.WithError(err).WithField("operation", op).Warn("remote cache operation failed; using local cache")
	}
}

// SetRetryInterval overrides how often an unavailable remote is re-probed.
// Call before the adapter handles traffic.
func (t *Tiered) SetRetryInterval(d time.Duration) {
	if d > 0 {
		t.retryInterval = d
	}
}

// SetNow overrides the adapter's clock. Intended for tests.
func (t *Tiered) SetNow(now func() time.Time) { t.now = now }
