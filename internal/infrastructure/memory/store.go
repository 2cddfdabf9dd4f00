package memory

import (
	"regexp"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stagelink/booking-platform/internal/core/ports"
)

type entry struct {
	value     []byte
	createdAt time.Time
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool { return now.After(e.expiresAt) }

// Store is an in-memory TTL cache. Expiry is lazy on read; a background sweep
// removes entries that are set and never re-read, bounding memory growth.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	hits    uint64
	misses  uint64

	sweepInterval time.Duration
	now           func() time.Time
	logger        *logrus.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewStore creates a Store and starts its sweep goroutine. Callers must Close
// the store to stop the sweeper. A non-positive sweepInterval disables the
// sweep (lazy expiry still applies).
func NewStore(sweepInterval time.Duration, logger *logrus.Logger) *Store {
	s := &Store{
		entries:       make(map[string]entry),
		sweepInterval: sweepInterval,
		now:           time.Now,
		logger:        logger,
		done:          make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweepLoop()
	}
	return s
}

// Get returns the value for key. An expired entry is removed and counted as a
// miss, indistinguishable from absence.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.misses++
		return nil, false
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		s.misses++
		return nil, false
	}
	s.hits++
	return e.value, true
}

// Set stores value under key with the given TTL, overwriting unconditionally.
// A non-positive ttl is clamped to one nanosecond so expiresAt > createdAt
// always holds; such an entry is expired on its first read.
func (s *Store) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = time.Nanosecond
	}
	now := s.now()
	s.mu.Lock()
	s.entries[key] = entry{value: value, createdAt: now, expiresAt: now.Add(ttl)}
	s.mu.Unlock()
}

// Delete removes key, reporting whether an entry existed.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// DeletePattern removes every key matching re and returns how many were removed.
func (s *Store) DeletePattern(re *regexp.Regexp) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for k := range s.entries {
		if re.MatchString(k) {
			delete(s.entries, k)
			count++
		}
	}
	return count
}

// Clear drops all entries and resets the hit/miss counters.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.hits = 0
	s.misses = 0
	s.mu.Unlock()
}

// Len returns the number of entries, expired-but-unswept ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns the current counters. HitRate is 0 when nothing was requested.
func (s *Store) Stats() ports.CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := ports.CacheStats{Hits: s.hits, Misses: s.misses, Size: len(s.entries)}
	if total := s.hits + s.misses; total > 0 {
		st.HitRate = float64(s.hits) / float64(total)
	}
	return st
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Store) sweepLoop() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			removed := s.sweep()
			if removed > 0 && s.logger != nil {
				s.logger.WithField("removed", removed).Debug("cache sweep removed expired entries")
			}
		case <-s.done:
			return
		}
	}
}

// sweep removes all expired entries and returns how many were removed.
func (s *Store) sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// SetNow overrides the store's clock. Intended for tests.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}
