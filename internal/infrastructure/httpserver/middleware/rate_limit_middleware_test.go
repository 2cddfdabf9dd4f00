package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelink/booking-platform/internal/core/ports"
	"github.com/stagelink/booking-platform/internal/infrastructure/httpserver/middleware"
)

type limiterStub struct {
	decision ports.RateLimitDecision
	err      error
	lastKey  string
}

func (l *limiterStub) Allow(ctx context.Context, clientKey string) (ports.RateLimitDecision, error) {
	l.lastKey = clientKey
	return l.decision, l.err
}

func invoke(t *testing.T, m *middleware.RateLimitMiddleware, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := m.Handler()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return rec, handler(c)
}

func TestRateLimitMiddleware_AllowedSetsHeaders(t *testing.T) {
	reset := time.Now().Add(30 * time.Second)
	stub := &limiterStub{decision: ports.RateLimitDecision{Allowed: true, Limit: 5, Remaining: 4, Reset: reset}}
	m := middleware.NewRateLimitMiddleware(stub, middleware.RateLimitOptions{}, logrus.New())

	rec, err := invoke(t, m, httptest.NewRequest(http.MethodGet, "/api/v1/artists", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimitMiddleware_RejectedReturns429WithBody(t *testing.T) {
	stub := &limiterStub{decision: ports.RateLimitDecision{
		Allowed:    false,
		Limit:      5,
		Remaining:  0,
		Reset:      time.Now().Add(42 * time.Second),
		RetryAfter: 42 * time.Second,
	}}
	m := middleware.NewRateLimitMiddleware(stub, middleware.RateLimitOptions{}, logrus.New())

	rec, err := invoke(t, m, httptest.NewRequest(http.MethodGet, "/api/v1/artists", nil))

	require.NoError(t, err)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))

	var body middleware.RateLimitError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Error)
	assert.NotEmpty(t, body.Message)
	assert.Equal(t, 42, body.RetryAfter)
}

func TestRateLimitMiddleware_FailsOpenOnLimiterError(t *testing.T) {
	stub := &limiterStub{
		decision: ports.RateLimitDecision{Allowed: true, Limit: 5, Remaining: 5, Reset: time.Now()},
		err:      errors.New("store down"),
	}
	m := middleware.NewRateLimitMiddleware(stub, middleware.RateLimitOptions{}, logrus.New())

	rec, err := invoke(t, m, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware_SkipBypassesLimiting(t *testing.T) {
	stub := &limiterStub{decision: ports.RateLimitDecision{Allowed: false, Limit: 1}}
	m := middleware.NewRateLimitMiddleware(stub, middleware.RateLimitOptions{
		Skip: func(c echo.Context) bool { return c.Request().URL.Path == "/health" },
	}, logrus.New())

	rec, err := invoke(t, m, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, stub.lastKey, "the limiter must not be consulted at all")
}

func TestRateLimitMiddleware_KeyFallsBackToSourceAddress(t *testing.T) {
	stub := &limiterStub{decision: ports.RateLimitDecision{Allowed: true, Limit: 5, Remaining: 4, Reset: time.Now()}}
	m := middleware.NewRateLimitMiddleware(stub, middleware.RateLimitOptions{}, logrus.New())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	_, err := invoke(t, m, req)

	require.NoError(t, err)
	assert.Equal(t, "ip:1.2.3.4", stub.lastKey)
}
