package middleware

import (
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/stagelink/booking-platform/internal/core/ports"
	"github.com/stagelink/booking-platform/internal/infrastructure/httpserver/helpers"
)

const defaultRateLimitMessage = "Too many requests, please try again later"

// RateLimitError is the structured rejection body.
type RateLimitError struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"` // seconds
}

// RateLimitOptions tunes the middleware around a limiter.
type RateLimitOptions struct {
	// Message overrides the rejection message.
	Message string
	// KeyFunc derives the client identity; defaults to authenticated user id,
	// falling back to the source address.
	KeyFunc func(c echo.Context) string
	// Skip bypasses limiting entirely when it returns true (health checks,
	// internal probes).
	Skip func(c echo.Context) bool
}

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiterService
	opts        RateLimitOptions
	logger      *logrus.Logger
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, opts RateLimitOptions, logger *logrus.Logger) *RateLimitMiddleware {
	if opts.Message == "" {
		opts.Message = defaultRateLimitMessage
	}
	if opts.KeyFunc == nil {
		opts.KeyFunc = helpers.ClientKey
	}
	return &RateLimitMiddleware{rateLimiter: rateLimiter, opts: opts, logger: logger}
}

func (r *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.opts.Skip != nil && r.opts.Skip(c) {
				return next(c)
			}

			clientKey := r.opts.KeyFunc(c)
			decision, rlErr := r.rateLimiter.Allow(c.Request().Context(), clientKey)

			// Standard rate limit headers go on every response, accepted or not.
			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
			c.Response().Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", decision.Reset.Unix()))

			if rlErr != nil {
				if r.logger != nil {
					r.logger.WithError(rlErr).WithField("client", clientKey).Warn("rate limiter error; allowing request (fail-open)")
				}
				return next(c)
			}

			if !decision.Allowed {
				retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				return c.JSON(http.StatusTooManyRequests, RateLimitError{
					Error:      "RATE_LIMIT_EXCEEDED",
					Message:    r.opts.Message,
					RetryAfter: retryAfter,
				})
			}
			return next(c)
		}
	}
}
