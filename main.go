package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/abdussamietahir2006-stack/remotage-backend/internal/api"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/api/middleware"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/broker"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/config"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/db"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/logger"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/metrics"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/services"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (lead expiry worker), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		logger.GetLogger().Fatalf("Failed to load configuration: %v", err)
	}

	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Database
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Errorw("Error disconnecting from MongoDB", "error", err)
		}
	}()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx, mongoDb, cfg.LeadTTL); err != nil {
		cancelIndex()
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancelIndex()

	// Initialize Services
	m := metrics.New()
	leadService := services.NewLeadService(mongoDb, cfg.DbOperationTimeout)
	contentService := services.NewContentService(mongoDb, cfg.DbOperationTimeout)
	taskProcessor := tasks.NewTaskProcessor(cfg, leadService, m)

	// Initialize Broker (Redis), only needed by the lead expiry worker
	var redisClient *redis.Client
	needsWorker := cfg.RunMode == "bg" || cfg.RunMode == "all"
	if needsWorker && cfg.SweepEnabled() {
		redisClient, err = broker.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer func() {
			if err := broker.DisconnectRedis(redisClient); err != nil {
				log.Errorw("Error disconnecting from Redis", "error", err)
			}
		}()
	}

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup

	// Cancelled on shutdown to stop housekeeping goroutines
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	// Channel to signal shutdown from Service API
	shutdownChan := make(chan struct{}, 1)

	// Start Service API (always runs, loopback only)
	serviceSrv := &http.Server{
		Addr:              "127.0.0.1:" + cfg.ServiceApiPort,
		Handler:           api.SetupServiceRouter(log, taskProcessor, shutdownChan),
		ReadHeaderTimeout: 10 * time.Second,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infow("Service API listening", "addr", serviceSrv.Addr)
		if err := serviceSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Service API ListenAndServe error: %v", err)
		}
		log.Info("Service API server stopped")
	}()

	// --- Mode-specific servers ---
	var mainApiSrv *http.Server
	var backgroundTaskSrv *asynq.Server
	var scheduler *asynq.Scheduler

	log.Infow("Starting application", "mode", cfg.RunMode, "environment", cfg.Environment)

	apiMode := func() {
		rateLimiter := middleware.NewRateLimiterMiddleware(cfg.LeadRateLimitPerMinute, cfg.LeadRateLimitBurst, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			rateLimiter.Cleanup(appCtx)
		}()

		mainApiSrv = &http.Server{
			Addr:              ":" + cfg.ApiPort,
			Handler:           api.SetupRouter(cfg, log, m, leadService, contentService, rateLimiter),
			ReadHeaderTimeout: 10 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Infow("Main API listening", "port", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
			log.Info("Main API server stopped")
		}()
	}

	bgMode := func() {
		if redisClient == nil {
			if cfg.RunMode == "bg" {
				log.Fatal("Run mode 'bg' requires REDIS_ADDR")
			}
			log.Warn("REDIS_ADDR not set: lead expiry relies on the TTL index only")
			return
		}

		scheduler, err = tasks.SetupScheduler(redisClient, cfg.LeadSweepInterval)
		if err != nil {
			log.Fatalf("Failed to set up scheduler: %v", err)
		}
		if err := scheduler.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}

		backgroundTaskSrv = tasks.SetupServer(redisClient)
		if err := backgroundTaskSrv.Start(taskProcessor.ServeMux()); err != nil {
			log.Fatalf("Background task server error: %v", err)
		}
		log.Infow("Lead expiry worker started", "interval", cfg.LeadSweepInterval, "ttl", cfg.LeadTTL)
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatalf("Invalid run mode specified: %s", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infow("Received signal, shutting down gracefully", "signal", sig.String())
	case <-shutdownChan:
		log.Info("Shutdown requested via Service API, shutting down gracefully")
	}

	cancelApp()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Errorw("Service API server shutdown error", "error", err)
	}

	if mainApiSrv != nil {
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Errorw("Main API server shutdown error", "error", err)
		}
	}

	if scheduler != nil {
		scheduler.Shutdown()
	}
	if backgroundTaskSrv != nil {
		backgroundTaskSrv.Shutdown()
	}

	wg.Wait()
	log.Info("Server gracefully stopped")
}
