package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stagelink/booking-platform/internal/core/ports"
)

// RateLimiterService enforces a fixed-window quota per client key.
//
// Fixed windows admit a boundary burst: a client can spend a full quota at
// the end of one window and another at the start of the next, so up to
// 2×MaxRequests calls can land inside any single window-length span. This is
// accepted behavior, matching the simple counter semantics the repository
// layer provides. Windows are also per-process unless the Redis-backed
// repository is in use, so N instances enforce N×MaxRequests in aggregate.
type RateLimiterService struct {
	repo        ports.RateLimitRepository
	maxRequests int
	window      time.Duration
	keyPrefix   string
	logger      *logrus.Logger
}

// RateLimiterConfig groups configuration parameters for the rate limiter.
type RateLimiterConfig struct {
	MaxRequests int
	Window      time.Duration
	KeyPrefix   string
}

func NewRateLimiterService(repo ports.RateLimitRepository, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	// Apply defaults
	mr := 120
	w := time.Minute
	kp := "ratelimit"
	if cfg != nil {
		if cfg.MaxRequests > 0 {
			mr = cfg.MaxRequests
		}
		if cfg.Window > 0 {
			w = cfg.Window
		}
		if cfg.KeyPrefix != "" {
			kp = cfg.KeyPrefix
		}
	}
	return &RateLimiterService{repo: repo, maxRequests: mr, window: w, keyPrefix: kp, logger: logger}
}

// Allow consumes one request unit for clientKey. It fails open: on a
// repository error the decision allows the request and the error is returned
// for logging.
func (s *RateLimiterService) Allow(ctx context.Context, clientKey string) (ports.RateLimitDecision, error) {
	ttl := s.window * 2 // retain counters past the window edge
	count, windowStart, err := s.repo.IncrementWindow(ctx, clientKey, s.window, s.keyPrefix, ttl)
	reset := windowStart.Add(s.window)
	decision := ports.RateLimitDecision{Limit: s.maxRequests, Reset: reset}
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithField("client", clientKey).Error("rate limiter: failed to increment window")
		}
		decision.Allowed = true
		decision.Remaining = s.maxRequests
		return decision, err
	}
	if count > s.maxRequests {
		retry := time.Until(reset)
		if retry < time.Second {
			retry = time.Second
		}
		decision.RetryAfter = retry
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"client": clientKey, "count": count, "limit": s.maxRequests}).Warn("rate limit exceeded")
		}
		return decision, nil
	}
	decision.Allowed = true
	decision.Remaining = s.maxRequests - count
	return decision, nil
}
