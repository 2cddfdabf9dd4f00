package services

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stagelink/booking-platform/internal/core/domain/metrics"
)

const (
	defaultMetricsCapacity = 10000
	defaultSlowThreshold   = time.Second
)

// MetricsService keeps per-request records in a bounded ring buffer. Once the
// capacity is reached the oldest record is silently overwritten; losing old
// records is expected, not an error. The service only observes — it never
// blocks or rejects a request.
type MetricsService struct {
	mu       sync.RWMutex
	records  []metrics.RequestMetric
	next     int
	count    int
	capacity int

	slowThreshold time.Duration
	logger        *logrus.Logger
}

func NewMetricsService(capacity int, slowThreshold time.Duration, logger *logrus.Logger) *MetricsService {
	if capacity <= 0 {
		capacity = defaultMetricsCapacity
	}
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowThreshold
	}
	return &MetricsService{
		records:       make([]metrics.RequestMetric, capacity),
		capacity:      capacity,
		slowThreshold: slowThreshold,
		logger:        logger,
	}
}

// Record appends one request record, overwriting the oldest past capacity.
func (s *MetricsService) Record(m metrics.RequestMetric) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	s.mu.Lock()
	s.records[s.next] = m
	s.next = (s.next + 1) % s.capacity
	if s.count < s.capacity {
		s.count++
	}
	s.mu.Unlock()

	s.log(m)
}

func (s *MetricsService) log(m metrics.RequestMetric) {
	if s.logger == nil {
		return
	}
	fields := logrus.Fields{
		"method":      m.Method,
		"path":        m.Path,
		"status":      m.StatusCode,
		"duration_ms": m.DurationMs,
	}
	if m.UserID != "" {
		fields["user_id"] = m.UserID
	}
	entry := s.logger.WithFields(fields)
	switch {
	case m.IsError():
		entry.Error("request failed")
	case time.Duration(m.DurationMs*float64(time.Millisecond)) >= s.slowThreshold:
		entry.Warn("slow request")
	default:
		entry.Info("request completed")
	}
}

// GetMetrics returns records matching f, oldest first.
func (s *MetricsService) GetMetrics(f metrics.Filter) []metrics.RequestMetric {
	all := s.snapshotRecords()
	out := make([]metrics.RequestMetric, 0, len(all))
	for _, m := range all {
		if !f.From.IsZero() && m.Timestamp.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && m.Timestamp.After(f.To) {
			continue
		}
		if f.Method != "" && m.Method != f.Method {
			continue
		}
		if f.Path != "" && m.Path != f.Path {
			continue
		}
		if f.StatusCode != 0 && m.StatusCode != f.StatusCode {
			continue
		}
		out = append(out, m)
	}
	return out
}

// GetStats aggregates a record set. RequestsPerSecond spans the oldest to the
// newest timestamp; a single record (or identical timestamps) reports the
// record count itself.
func (s *MetricsService) GetStats(records []metrics.RequestMetric) metrics.Stats {
	st := metrics.Stats{Count: len(records)}
	if len(records) == 0 {
		return st
	}
	var (
		total  float64
		errors int
	)
	st.MinDurationMs = records[0].DurationMs
	st.MaxDurationMs = records[0].DurationMs
	earliest := records[0].Timestamp
	latest := records[0].Timestamp
	for _, m := range records {
		total += m.DurationMs
		if m.DurationMs < st.MinDurationMs {
			st.MinDurationMs = m.DurationMs
		}
		if m.DurationMs > st.MaxDurationMs {
			st.MaxDurationMs = m.DurationMs
		}
		if m.IsError() {
			errors++
		}
		if m.Timestamp.Before(earliest) {
			earliest = m.Timestamp
		}
		if m.Timestamp.After(latest) {
			latest = m.Timestamp
		}
	}
	st.AvgDurationMs = total / float64(len(records))
	st.ErrorRate = float64(errors) / float64(len(records)) * 100
	if span := latest.Sub(earliest).Seconds(); span > 0 {
		st.RequestsPerSecond = float64(len(records)) / span
	} else {
		st.RequestsPerSecond = float64(len(records))
	}
	return st
}

// GetSlowestEndpoints ranks (method, path) groups by average duration.
func (s *MetricsService) GetSlowestEndpoints(limit int) []metrics.EndpointStat {
	stats := s.endpointStats()
	sort.Slice(stats, func(i, j int) bool { return stats[i].AvgDurationMs > stats[j].AvgDurationMs })
	return truncate(stats, limit)
}

// GetMostAccessedEndpoints ranks (method, path) groups by request count.
func (s *MetricsService) GetMostAccessedEndpoints(limit int) []metrics.EndpointStat {
	stats := s.endpointStats()
	sort.Slice(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	return truncate(stats, limit)
}

// GetErrorSummary buckets records with status >= 400 by status code.
func (s *MetricsService) GetErrorSummary() []metrics.StatusBucket {
	counts := make(map[int]int)
	for _, m := range s.snapshotRecords() {
		if m.IsError() {
			counts[m.StatusCode]++
		}
	}
	buckets := make([]metrics.StatusBucket, 0, len(counts))
	for code, n := range counts {
		buckets = append(buckets, metrics.StatusBucket{StatusCode: code, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].StatusCode < buckets[j].StatusCode })
	return buckets
}

// Snapshot bundles everything the operator dashboard renders.
func (s *MetricsService) Snapshot() metrics.Snapshot {
	records := s.snapshotRecords()
	return metrics.Snapshot{
		GeneratedAt:  time.Now().UTC(),
		Stats:        s.GetStats(records),
		Slowest:      s.GetSlowestEndpoints(10),
		MostAccessed: s.GetMostAccessedEndpoints(10),
		Errors:       s.GetErrorSummary(),
		Records:      records,
	}
}

// snapshotRecords copies the ring buffer contents, oldest first.
func (s *MetricsService) snapshotRecords() []metrics.RequestMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]metrics.RequestMetric, 0, s.count)
	start := 0
	if s.count == s.capacity {
		start = s.next
	}
	for i := 0; i < s.count; i++ {
		out = append(out, s.records[(start+i)%s.capacity])
	}
	return out
}

func (s *MetricsService) endpointStats() []metrics.EndpointStat {
	type acc struct {
		count int
		total float64
		max   float64
	}
	groups := make(map[[2]string]*acc)
	for _, m := range s.snapshotRecords() {
		key := [2]string{m.Method, m.Path}
		a, ok := groups[key]
		if !ok {
			a = &acc{}
			groups[key] = a
		}
		a.count++
		a.total += m.DurationMs
		if m.DurationMs > a.max {
			a.max = m.DurationMs
		}
	}
	stats := make([]metrics.EndpointStat, 0, len(groups))
	for key, a := range groups {
		stats = append(stats, metrics.EndpointStat{
			Method:        key[0],
			Path:          key[1],
			Count:         a.count,
			AvgDurationMs: a.total / float64(a.count),
			MaxDurationMs: a.max,
		})
	}
	return stats
}

func truncate(stats []metrics.EndpointStat, limit int) []metrics.EndpointStat {
	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}
