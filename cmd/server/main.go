package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/stagelink/booking-platform/configs"
	"github.com/stagelink/booking-platform/internal/application/services"
	"github.com/stagelink/booking-platform/internal/core/ports"
	tieredcache "github.com/stagelink/booking-platform/internal/infrastructure/cache"
	"github.com/stagelink/booking-platform/internal/infrastructure/db"
	"github.com/stagelink/booking-platform/internal/infrastructure/health"
	"github.com/stagelink/booking-platform/internal/infrastructure/httpserver"
	"github.com/stagelink/booking-platform/internal/infrastructure/memory"
	redisinfra "github.com/stagelink/booking-platform/internal/infrastructure/redis"
	"github.com/stagelink/booking-platform/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting booking-platform server...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Optional Redis client; nil means local-only caching and per-process
	// rate limiting.
	redisClient, err := redisinfra.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Invalid REDIS_URL:", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Local TTL store plus the tiered adapter over the optional remote store
	localStore := memory.NewStore(cfg.Cache.SweepInterval, logger)
	defer localStore.Close()

	var remoteCache ports.RemoteCache
	if redisClient != nil {
		remoteCache = redisinfra.NewCache(redisClient, cfg.Cache.KeyPrefix)
	}
	cacheStore := tieredcache.NewTiered(localStore, remoteCache, logger)
	cacheStore.SetRetryInterval(cfg.Cache.RemoteRetryInterval)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		cacheStore.Initialize(ctx)
		cancel()
	}

	// Rate limit windows share the remote store when it is connected;
	// otherwise quotas are per-process.
	var rateLimitRepo ports.RateLimitRepository
	if cacheStore.Connected() {
		rateLimitRepo = repositories.NewRateLimitRedisRepository(redisClient)
	} else {
		memRepo := repositories.NewRateLimitMemoryRepository(cfg.RateLimit.CleanupInterval)
		defer memRepo.Close()
		rateLimitRepo = memRepo
	}
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, &services.RateLimiterConfig{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window,
		KeyPrefix:   cfg.RateLimit.KeyPrefix,
	}, logger)

	// Request metrics recorder
	metricsService := services.NewMetricsService(cfg.Metrics.Capacity, cfg.Metrics.SlowThreshold, logger)

	// Endpoint cache policies and catalog services
	cachePolicyService := services.NewCachePolicyService(cacheStore, nil, logger)
	artistRepo := repositories.NewArtistRepository(database, logger)
	venueRepo := repositories.NewVenueRepository(database, logger)
	artistService := services.NewArtistService(artistRepo, cachePolicyService, logger)
	venueService := services.NewVenueService(venueRepo, cachePolicyService)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database)}
	if redisClient != nil {
		hcSlice = append(hcSlice, health.NewRedisHealthChecker(redisClient))
	}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		Version:      cfg.Server.Version,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,

		ResponseCacheTTL: cfg.Cache.ResponseTTL,
	}

	deps := httpserver.ServerDeps{
		ArtistService:      artistService,
		VenueService:       venueService,
		CacheStore:         cacheStore,
		RateLimiterService: rateLimiterService,
		MetricsRecorder:    metricsService,
		HealthCheckers:     hcSlice,
	}

	server, err := httpserver.NewServer(serverConfig, logger, deps)
	if err != nil {
		logger.Fatal("Failed to initialize server:", err)
	}

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
