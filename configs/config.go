package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	Version      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds the optional remote cache configuration. URL is the single
// source of truth: when empty the process runs in local-only cache mode.
type RedisConfig struct {
	URL string
}

type CacheConfig struct {
	DefaultTTL    time.Duration
	SweepInterval time.Duration
	KeyPrefix     string
	// ResponseTTL uses the compact route-cache grammar ("30s", "5m", "1h", "2d").
	ResponseTTL string
	// RemoteRetryInterval bounds how often an unavailable remote cache is
	// re-probed for recovery.
	RemoteRetryInterval time.Duration
}

type RateLimitConfig struct {
	MaxRequests     int
	Window          time.Duration
	CleanupInterval time.Duration
	KeyPrefix       string
}

type MetricsConfig struct {
	Capacity      int
	SlowThreshold time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			Version:      getEnv("SERVICE_VERSION", "1.0.0"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:  getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:   getEnv("TLS_KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "stagelink_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Cache: CacheConfig{
			DefaultTTL:    getDurationEnv("CACHE_DEFAULT_TTL", 5*time.Minute),
			SweepInterval: getDurationEnv("CACHE_SWEEP_INTERVAL", time.Minute),
			KeyPrefix:     getEnv("CACHE_KEY_PREFIX", "stagelink"),
			ResponseTTL:   getEnv("CACHE_RESPONSE_TTL", "5m"),

			RemoteRetryInterval: getDurationEnv("CACHE_REMOTE_RETRY_INTERVAL", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			MaxRequests:     getIntEnv("RATE_LIMIT_MAX_REQUESTS", 120),
			Window:          getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			CleanupInterval: getDurationEnv("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
			KeyPrefix:       getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit"),
		},
		Metrics: MetricsConfig{
			Capacity:      getIntEnv("METRICS_CAPACITY", 10000),
			SlowThreshold: getDurationEnv("METRICS_SLOW_THRESHOLD", time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Build database DSN
	cfg.Database.DSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
