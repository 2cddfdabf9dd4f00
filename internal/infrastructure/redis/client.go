package redis

import (
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	config "github.com/stagelink/booking-platform/configs"
)

// NewClient builds a Redis client from the configured connection URL.
// An empty URL is the valid local-only configuration and returns a nil client
// without error. A malformed URL is a configuration error and fails fast.
// Reachability is NOT checked here; the tiered cache probes it during
// Initialize and degrades to local-only mode if the ping fails.
func NewClient(cfg *config.RedisConfig, logger *logrus.Logger) (*redis.Client, error) {
	if cfg.URL == "" {
		if logger != nil {
			logger.Info("REDIS_URL not set; running with local cache only")
		}
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}
