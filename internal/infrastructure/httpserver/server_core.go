package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/stagelink/booking-platform/internal/core/ports"
	customMiddleware "github.com/stagelink/booking-platform/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	Version      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
	// ResponseCacheTTL is the compact TTL string ("5m", "30s", "1h", "2d")
	// for the whole-response cache on catalog listings.
	ResponseCacheTTL string
}

type ServerDeps struct {
	ArtistService      ports.ArtistService
	VenueService       ports.VenueService
	CacheStore         ports.CacheStore
	RateLimiterService ports.RateLimiterService
	MetricsRecorder    ports.MetricsRecorder
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	artistService  ports.ArtistService
	venueService   ports.VenueService
	cacheStore     ports.CacheStore
	metricsSvc     ports.MetricsRecorder
	middleware     *customMiddleware.MiddlewareCollection
	responseCache  *customMiddleware.ResponseCacheMiddleware
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) (*Server, error) {
	e := echo.New()
	e.HideBanner = true

	rateLimitOpts := customMiddleware.RateLimitOptions{
		Skip: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/health" || p == "/metrics"
		},
	}

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		artistService:  deps.ArtistService,
		venueService:   deps.VenueService,
		cacheStore:     deps.CacheStore,
		metricsSvc:     deps.MetricsRecorder,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.RateLimiterService,
			rateLimitOpts,
			deps.MetricsRecorder,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	ttl := serverConfig.ResponseCacheTTL
	if ttl == "" {
		ttl = "5m"
	}
	responseCache, err := customMiddleware.NewResponseCacheMiddleware(deps.CacheStore, ttl, logger)
	if err != nil {
		return nil, err
	}
	server.responseCache = responseCache

	server.setupMiddleware()
	server.setupRoutes()

	return server, nil
}
