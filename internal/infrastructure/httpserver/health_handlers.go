package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const serviceName = "booking-platform"

type healthStatus struct {
	Status       string            `json:"status"`
	Timestamp    string            `json:"timestamp"`
	Version      string            `json:"version"`
	Service      string            `json:"service"`
	Dependencies map[string]string `json:"dependencies"`
}

// healthCheck pings every registered dependency. One unhealthy dependency
// degrades the service rather than failing it outright: the process keeps
// serving from whatever tiers still work.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string, len(s.healthCheckers))
	overall := "healthy"
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		status := "healthy"
		if err := hc.Check(ctx); err != nil {
			status = "unhealthy"
			overall = "degraded"
			if s.logger != nil {
				s.logger.WithError(err).WithField("dependency", hc.Name()).Warn("health check failed")
			}
		}
		deps[hc.Name()] = status
	}

	code := http.StatusOK
	if overall != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, healthStatus{
		Status:       overall,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Version:      s.config.Version,
		Service:      serviceName,
		Dependencies: deps,
	})
}
