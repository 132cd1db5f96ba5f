package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ricemill/backend/config"
	httpDelivery "github.com/ricemill/backend/internal/delivery/http"
	"github.com/ricemill/backend/internal/domain"
	"github.com/ricemill/backend/internal/infrastructure/cache"
	"github.com/ricemill/backend/internal/infrastructure/store"
	"github.com/ricemill/backend/internal/scheduler"
	"github.com/ricemill/backend/internal/usecase"
)

func main() {
	// Load .env if present; real deployments set env vars directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting RiceMill Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize infrastructure dependencies
	var cacheRepo domain.CacheRepository
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		cacheRepo = redisCache
	default:
		cacheRepo = cache.NewMemoryCache()
	}

	storeClient := store.NewClient(cfg.Store.BaseURL, cfg.Store.AuthToken)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		storeClient.SetDebug(true)
		log.Printf("Store client debug mode enabled")
	}
	log.Printf("Document store configured: %s", cfg.Store.BaseURL)

	// Initialize usecase layer
	matchingService := usecase.NewMatchingService(usecase.MatchConfig{
		TopN:               cfg.Matching.TopN,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})
	forecastService := usecase.NewForecastService(storeClient, cacheRepo, usecase.ForecastConfig{
		CacheTTL: cfg.Forecast.CacheTTL,
	})

	log.Printf("Matching: topN=%d, debug=%v", cfg.Matching.TopN, cfg.Matching.EnableDebugLogging)

	// Scheduled forecast refresh
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(forecastService, cfg.Scheduler.Timeframe)
		if err := sched.Register(cfg.Scheduler.Cron); err != nil {
			log.Fatalf("Failed to register forecast schedule: %v", err)
		}
		sched.Start()
		log.Printf("Forecast refresh scheduled: %q (timeframe=%s)", cfg.Scheduler.Cron, cfg.Scheduler.Timeframe)
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(storeClient, matchingService, forecastService, cfg.Forecast.DefaultTimeframe)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown: stop the scheduler, then drain the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutting down")

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] server shutdown: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
