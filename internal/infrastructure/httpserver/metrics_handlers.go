package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "The total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "The HTTP request latencies in seconds",
		},
		[]string{"method", "endpoint"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
}

// GetRequestsTotal returns the requests total metric for middleware use
func GetRequestsTotal() *prometheus.CounterVec {
	return requestsTotal
}

// GetRequestDuration returns the request duration metric for middleware use
func GetRequestDuration() *prometheus.HistogramVec {
	return requestDuration
}

// metricsEndpoint serves the Prometheus scrape target.
func (s *Server) metricsEndpoint(c echo.Context) error {
	promhttp.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}

// metricsSnapshot serves the full operator dashboard export: raw records,
// aggregates, rankings and the error summary.
func (s *Server) metricsSnapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metricsSvc.Snapshot())
}

func (s *Server) slowestEndpoints(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metricsSvc.GetSlowestEndpoints(limitParam(c, 10)))
}

func (s *Server) mostAccessedEndpoints(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metricsSvc.GetMostAccessedEndpoints(limitParam(c, 10)))
}

func (s *Server) errorSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metricsSvc.GetErrorSummary())
}

func limitParam(c echo.Context, def int) int {
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
