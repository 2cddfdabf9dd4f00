package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stagelink/booking-platform/internal/core/domain/metrics"
	"github.com/stagelink/booking-platform/internal/core/ports"
	"github.com/stagelink/booking-platform/internal/infrastructure/httpserver/helpers"
)

// MetricsMiddleware observes every request twice: into Prometheus vectors for
// scraping and into the in-process recorder backing the admin dashboard.
type MetricsMiddleware struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	recorder        ports.MetricsRecorder
}

// NewMetricsMiddleware creates a new metrics middleware instance
func NewMetricsMiddleware(requestsTotal *prometheus.CounterVec, requestDuration *prometheus.HistogramVec, recorder ports.MetricsRecorder) *MetricsMiddleware {
	return &MetricsMiddleware{
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
		recorder:        recorder,
	}
}

// CollectHTTPMetrics creates middleware that collects HTTP request metrics
func (m *MetricsMiddleware) CollectHTTPMetrics() echo.MiddlewareFunc {
	return echo.MiddlewareFunc(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			method := c.Request().Method
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				// The error handler has not run yet; derive the status it will write.
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

			if m.recorder != nil {
				record := metrics.RequestMetric{
					Method:     method,
					Path:       path,
					StatusCode: status,
					DurationMs: float64(duration) / float64(time.Millisecond),
					Timestamp:  start,
				}
				if id, ok := helpers.GetUserIDRaw(c); ok {
					record.UserID = id
				}
				if role, ok := helpers.GetUserRoleRaw(c); ok {
					record.UserRole = role
				}
				if params := c.QueryParams(); len(params) > 0 {
					record.QueryParams = make(map[string]string, len(params))
					for k := range params {
						record.QueryParams[k] = params.Get(k)
					}
				}
				m.recorder.Record(record)
			}

			return err
		}
	})
}
