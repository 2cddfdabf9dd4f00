package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tieredcache "github.com/stagelink/booking-platform/internal/infrastructure/cache"
	"github.com/stagelink/booking-platform/internal/infrastructure/httpserver/middleware"
	"github.com/stagelink/booking-platform/internal/infrastructure/memory"
)

func TestParseTTL(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"1h", time.Hour},
		{"2d", 48 * time.Hour},
	}
	for _, tc := range cases {
		got, err := middleware.ParseTTL(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "5", "m", "5w", "5 m", "-5m", "5m30s"} {
		_, err := middleware.ParseTTL(bad)
		assert.Error(t, err, "%q should be rejected at construction time", bad)
	}
}

func TestNewResponseCacheMiddleware_InvalidTTLFailsFast(t *testing.T) {
	_, err := middleware.NewResponseCacheMiddleware(nil, "nope", logrus.New())
	require.Error(t, err)
}

func newResponseCache(t *testing.T, ttl string) *middleware.ResponseCacheMiddleware {
	t.Helper()
	local := memory.NewStore(0, nil)
	t.Cleanup(local.Close)
	store := tieredcache.NewTiered(local, nil, logrus.New())
	store.Initialize(context.Background())
	m, err := middleware.NewResponseCacheMiddleware(store, ttl, logrus.New())
	require.NoError(t, err)
	return m
}

func TestResponseCache_MissThenHit(t *testing.T) {
	m := newResponseCache(t, "5m")
	e := echo.New()
	handlerCalls := 0
	handler := m.Handler()(func(c echo.Context) error {
		handlerCalls++
		return c.JSON(http.StatusOK, map[string]string{"name": "Nina"})
	})

	// First request: handler runs, response marked MISS.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/artists?page=1", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, handlerCalls)
	firstBody := rec.Body.String()

	// Second request: served from cache, handler untouched.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/artists?page=1", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, handlerCalls)
	assert.JSONEq(t, firstBody, rec.Body.String())
}

func TestResponseCache_DistinctURIsAreDistinctKeys(t *testing.T) {
	m := newResponseCache(t, "5m")
	e := echo.New()
	handlerCalls := 0
	handler := m.Handler()(func(c echo.Context) error {
		handlerCalls++
		return c.JSON(http.StatusOK, map[string]int{"calls": handlerCalls})
	})

	for _, uri := range []string{"/api/v1/artists?page=1", "/api/v1/artists?page=2"} {
		req := httptest.NewRequest(http.MethodGet, uri, nil)
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"), uri)
	}
	assert.Equal(t, 2, handlerCalls)
}

func TestResponseCache_OnlyGETIsCached(t *testing.T) {
	m := newResponseCache(t, "5m")
	e := echo.New()
	handlerCalls := 0
	handler := m.Handler()(func(c echo.Context) error {
		handlerCalls++
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/artists", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, handlerCalls)
}

func TestResponseCache_ErrorResponsesNotCached(t *testing.T) {
	m := newResponseCache(t, "5m")
	e := echo.New()
	handlerCalls := 0
	handler := m.Handler()(func(c echo.Context) error {
		handlerCalls++
		if handlerCalls == 1 {
			return echo.NewHTTPError(http.StatusInternalServerError, "boom")
		}
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artists", nil)
	rec := httptest.NewRecorder()
	require.Error(t, handler(e.NewContext(req, rec)))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/artists", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"), "the failed response must not have been stored")
	assert.Equal(t, 2, handlerCalls)
}
