package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/stagelink/booking-platform/internal/core/ports"
)

var ttlPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseTTL converts a compact TTL string ("30s", "5m", "1h", "2d") to a
// duration. A malformed string is a configuration error, caught at
// construction time rather than per request.
func ParseTTL(s string) (time.Duration, error) {
	m := ttlPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid TTL format %q: want <number><s|m|h|d>", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid TTL format %q: %w", s, err)
	}
	switch m[2] {
	case "s":
		return time.Duration(n) * time.Second, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	default: // "d"
		return time.Duration(n) * 24 * time.Hour, nil
	}
}

// ResponseCacheMiddleware caches successful GET JSON responses keyed by
// method and full request URI, marking responses with X-Cache: HIT|MISS.
type ResponseCacheMiddleware struct {
	cache  ports.CacheStore
	ttl    time.Duration
	logger *logrus.Logger
}

// NewResponseCacheMiddleware builds the middleware from a TTL string,
// failing fast on a malformed one.
func NewResponseCacheMiddleware(cache ports.CacheStore, ttl string, logger *logrus.Logger) (*ResponseCacheMiddleware, error) {
	d, err := ParseTTL(ttl)
	if err != nil {
		return nil, err
	}
	return &ResponseCacheMiddleware{cache: cache, ttl: d, logger: logger}, nil
}

type captureWriter struct {
	http.ResponseWriter
	buf *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (m *ResponseCacheMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := c.Request().Method + ":" + c.Request().URL.RequestURI()
			ctx := c.Request().Context()

			if body, ok := m.cache.Get(ctx, key); ok {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			c.Response().Header().Set("X-Cache", "MISS")
			buf := &bytes.Buffer{}
			original := c.Response().Writer
			c.Response().Writer = &captureWriter{ResponseWriter: original, buf: buf}
			defer func() { c.Response().Writer = original }()

			if err := next(c); err != nil {
				return err
			}

			if c.Response().Status == http.StatusOK && buf.Len() > 0 {
				m.cache.Set(ctx, key, buf.Bytes(), m.ttl)
			}
			return nil
		}
	}
}
