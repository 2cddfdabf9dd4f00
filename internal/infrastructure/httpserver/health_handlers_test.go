package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/booking-platform/internal/core/ports"
)

type checkerStub struct {
	name string
	err  error
}

func (s checkerStub) Name() string                    { return s.name }
func (s checkerStub) Check(ctx context.Context) error { return s.err }

func newHealthServer(checkers ...ports.HealthChecker) *Server {
	return &Server{
		echo:           echo.New(),
		config:         &ServerConfig{Version: "1.2.3"},
		logger:         logrus.New(),
		healthCheckers: checkers,
	}
}

func invokeHealth(t *testing.T, s *Server) (*httptest.ResponseRecorder, healthStatus) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, s.healthCheck(s.echo.NewContext(req, rec)))
	var body healthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthCheck_AllDependenciesHealthy(t *testing.T) {
	s := newHealthServer(checkerStub{name: "database"}, checkerStub{name: "redis"})

	rec, body := invokeHealth(t, s)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "booking-platform", body.Service)
	assert.Equal(t, map[string]string{"database": "healthy", "redis": "healthy"}, body.Dependencies)
}

func TestHealthCheck_DegradedWhenDependencyFails(t *testing.T) {
	s := newHealthServer(
		checkerStub{name: "database"},
		checkerStub{name: "redis", err: errors.New("connection refused")},
	)

	rec, body := invokeHealth(t, s)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "healthy", body.Dependencies["database"])
	assert.Equal(t, "unhealthy", body.Dependencies["redis"])
}
