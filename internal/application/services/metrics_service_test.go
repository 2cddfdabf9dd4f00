package services

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/booking-platform/internal/core/domain/metrics"
)

func record(method, path string, status int, durationMs float64, ts time.Time) metrics.RequestMetric {
	return metrics.RequestMetric{Method: method, Path: path, StatusCode: status, DurationMs: durationMs, Timestamp: ts}
}

func TestMetrics_RingBufferDropsOldest(t *testing.T) {
	svc := NewMetricsService(5, time.Second, logrus.New())
	base := time.Now()
	for i := 0; i < 7; i++ {
		svc.Record(record("GET", fmt.Sprintf("/r/%d", i), http.StatusOK, 10, base.Add(time.Duration(i)*time.Millisecond)))
	}

	got := svc.GetMetrics(metrics.Filter{})
	require.Len(t, got, 5)
	assert.Equal(t, "/r/2", got[0].Path, "the two oldest records are gone")
	assert.Equal(t, "/r/6", got[4].Path)
}

func TestMetrics_GetStatsExactArithmetic(t *testing.T) {
	svc := NewMetricsService(100, time.Second, logrus.New())
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	records := []metrics.RequestMetric{
		record("GET", "/a", 200, 10, base),
		record("GET", "/a", 200, 20, base.Add(time.Second)),
		record("GET", "/a", 500, 30, base.Add(2*time.Second)),
		record("GET", "/a", 404, 60, base.Add(3*time.Second)),
	}

	st := svc.GetStats(records)

	assert.Equal(t, 4, st.Count)
	assert.InDelta(t, 30.0, st.AvgDurationMs, 1e-9)
	assert.InDelta(t, 10.0, st.MinDurationMs, 1e-9)
	assert.InDelta(t, 60.0, st.MaxDurationMs, 1e-9)
	assert.InDelta(t, 50.0, st.ErrorRate, 1e-9, "2 of 4 records are errors")
	assert.InDelta(t, 4.0/3.0, st.RequestsPerSecond, 1e-9)
}

func TestMetrics_GetStatsEmpty(t *testing.T) {
	svc := NewMetricsService(10, time.Second, logrus.New())
	st := svc.GetStats(nil)
	assert.Zero(t, st.Count)
	assert.Zero(t, st.ErrorRate)
}

func TestMetrics_FilterByMethodPathStatusAndTime(t *testing.T) {
	svc := NewMetricsService(100, time.Second, logrus.New())
	base := time.Now()
	svc.Record(record("GET", "/artists", 200, 5, base))
	svc.Record(record("POST", "/artists", 201, 5, base.Add(time.Second)))
	svc.Record(record("GET", "/venues", 500, 5, base.Add(2*time.Second)))

	assert.Len(t, svc.GetMetrics(metrics.Filter{Method: "GET"}), 2)
	assert.Len(t, svc.GetMetrics(metrics.Filter{Path: "/artists"}), 2)
	assert.Len(t, svc.GetMetrics(metrics.Filter{StatusCode: 500}), 1)
	assert.Len(t, svc.GetMetrics(metrics.Filter{From: base.Add(500 * time.Millisecond)}), 2)
	assert.Len(t, svc.GetMetrics(metrics.Filter{To: base.Add(500 * time.Millisecond)}), 1)
}

func TestMetrics_SlowestEndpointsRanking(t *testing.T) {
	svc := NewMetricsService(100, time.Second, logrus.New())
	now := time.Now()
	svc.Record(record("GET", "/fast", 200, 5, now))
	svc.Record(record("GET", "/fast", 200, 15, now))
	svc.Record(record("GET", "/slow", 200, 900, now))
	svc.Record(record("POST", "/medium", 200, 100, now))

	top := svc.GetSlowestEndpoints(2)
	require.Len(t, top, 2)
	assert.Equal(t, "/slow", top[0].Path)
	assert.InDelta(t, 900.0, top[0].AvgDurationMs, 1e-9)
	assert.Equal(t, "/medium", top[1].Path)
}

func TestMetrics_MostAccessedGroupsByMethodAndPath(t *testing.T) {
	svc := NewMetricsService(100, time.Second, logrus.New())
	now := time.Now()
	for i := 0; i < 3; i++ {
		svc.Record(record("GET", "/artists", 200, 5, now))
	}
	svc.Record(record("POST", "/artists", 201, 5, now))
	svc.Record(record("GET", "/venues", 200, 5, now))

	top := svc.GetMostAccessedEndpoints(10)
	require.NotEmpty(t, top)
	assert.Equal(t, "GET", top[0].Method)
	assert.Equal(t, "/artists", top[0].Path)
	assert.Equal(t, 3, top[0].Count, "GET and POST on the same path are separate groups")
}

func TestMetrics_ErrorSummaryBuckets(t *testing.T) {
	svc := NewMetricsService(100, time.Second, logrus.New())
	now := time.Now()
	svc.Record(record("GET", "/a", 200, 5, now))
	svc.Record(record("GET", "/a", 404, 5, now))
	svc.Record(record("GET", "/a", 404, 5, now))
	svc.Record(record("GET", "/a", 500, 5, now))

	buckets := svc.GetErrorSummary()
	require.Len(t, buckets, 2)
	assert.Equal(t, metrics.StatusBucket{StatusCode: 404, Count: 2}, buckets[0])
	assert.Equal(t, metrics.StatusBucket{StatusCode: 500, Count: 1}, buckets[1])
}

func TestMetrics_SnapshotBundlesEverything(t *testing.T) {
	svc := NewMetricsService(100, time.Second, logrus.New())
	now := time.Now()
	svc.Record(record("GET", "/a", 200, 5, now))
	svc.Record(record("GET", "/b", 503, 50, now))

	snap := svc.Snapshot()
	assert.Equal(t, 2, snap.Stats.Count)
	assert.Len(t, snap.Records, 2)
	assert.NotEmpty(t, snap.Slowest)
	assert.NotEmpty(t, snap.MostAccessed)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, 503, snap.Errors[0].StatusCode)
	assert.False(t, snap.GeneratedAt.IsZero())
}
