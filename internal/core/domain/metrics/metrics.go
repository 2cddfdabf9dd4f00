package metrics

import "time"

// RequestMetric is one observed request. Records are append-only and live in
// a bounded ring buffer; oldest records are silently discarded past capacity.
type RequestMetric struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	StatusCode  int               `json:"statusCode"`
	DurationMs  float64           `json:"durationMs"`
	Timestamp   time.Time         `json:"timestamp"`
	UserID      string            `json:"userId,omitempty"`
	UserRole    string            `json:"userRole,omitempty"`
	QueryParams map[string]string `json:"queryParams,omitempty"`
}

// IsError reports whether the record counts toward the error rate.
func (m RequestMetric) IsError() bool { return m.StatusCode >= 400 }

// Filter narrows GetMetrics results. Zero values mean "no constraint".
type Filter struct {
	From       time.Time
	To         time.Time
	Method     string
	Path       string
	StatusCode int
}

// Stats are aggregates over a set of records.
type Stats struct {
	Count             int     `json:"count"`
	AvgDurationMs     float64 `json:"avgDurationMs"`
	MinDurationMs     float64 `json:"minDurationMs"`
	MaxDurationMs     float64 `json:"maxDurationMs"`
	ErrorRate         float64 `json:"errorRate"` // percentage of records with status >= 400
	RequestsPerSecond float64 `json:"requestsPerSecond"`
}

// EndpointStat is a per-(method, path) aggregate used for rankings.
type EndpointStat struct {
	Method        string  `json:"method"`
	Path          string  `json:"path"`
	Count         int     `json:"count"`
	AvgDurationMs float64 `json:"avgDurationMs"`
	MaxDurationMs float64 `json:"maxDurationMs"`
}

// StatusBucket counts records sharing one status code.
type StatusBucket struct {
	StatusCode int `json:"statusCode"`
	Count      int `json:"count"`
}

// Snapshot is the operator-facing JSON export.
type Snapshot struct {
	GeneratedAt  time.Time       `json:"generatedAt"`
	Stats        Stats           `json:"stats"`
	Slowest      []EndpointStat  `json:"slowestEndpoints"`
	MostAccessed []EndpointStat  `json:"mostAccessedEndpoints"`
	Errors       []StatusBucket  `json:"errorSummary"`
	Records      []RequestMetric `json:"records"`
}
