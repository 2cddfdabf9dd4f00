package ports

import "github.com/stagelink/booking-platform/internal/core/domain/metrics"

// MetricsRecorder passively observes requests. It never blocks, rejects, or
// errors: the worst case of any failure here is "metric not recorded".
type MetricsRecorder interface {
	Record(m metrics.RequestMetric)
	GetMetrics(f metrics.Filter) []metrics.RequestMetric
	GetStats(records []metrics.RequestMetric) metrics.Stats
	GetSlowestEndpoints(limit int) []metrics.EndpointStat
	GetMostAccessedEndpoints(limit int) []metrics.EndpointStat
	GetErrorSummary() []metrics.StatusBucket
	Snapshot() metrics.Snapshot
}
