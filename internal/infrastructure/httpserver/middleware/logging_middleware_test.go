package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/booking-platform/internal/infrastructure/httpserver/helpers"
	"github.com/stagelink/booking-platform/internal/infrastructure/httpserver/middleware"
)

func TestLoggingMiddleware_EmitsRequestContext(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	m := middleware.NewLoggingMiddleware(logger)
	e := echo.New()

	handler := m.RequestLogging()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artists", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-123")
	helpers.SetUserID(c, "u-1")

	require.NoError(t, handler(c))

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, "incoming request", entry.Message)
	assert.Equal(t, "GET", entry.Data["method"])
	assert.Equal(t, "/api/v1/artists", entry.Data["path"])
	assert.Equal(t, "req-123", entry.Data["request_id"])
	assert.Equal(t, "user:u-1", entry.Data["client"])
}

func TestLoggingMiddleware_NilLoggerPassesThrough(t *testing.T) {
	m := middleware.NewLoggingMiddleware(nil)
	e := echo.New()

	handler := m.RequestLogging()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}
