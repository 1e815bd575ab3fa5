package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hut-services/internal/app"
	"github.com/hut-services/internal/config"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/observability"
	"github.com/hut-services/internal/pkg/logger"
	"github.com/hut-services/internal/repository/cache"
	redisRepo "github.com/hut-services/internal/repository/redis"
	"github.com/hut-services/internal/worker"
	"github.com/hut-services/internal/worker/hut"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "hut-services-worker"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Hut Convert Worker")
	log.Info("Configuration loaded",
		zap.String("input_stream", cfg.Worker.InputStream),
		zap.String("output_stream", cfg.Worker.OutputStream),
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Bool("include_photos", cfg.Worker.IncludePhotos))

	// 3. Redis: стримы всегда, кеш источников по настройке
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	healthCtx, healthCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = redisClient.Health(healthCtx)
	healthCancel()
	if err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	var cacheRepo repository.CacheRepository
	if cfg.Cache.Enabled {
		cacheRepo = cache.NewCacheRepository(redisClient, cfg.Cache.Prefix, metrics)
	}

	// 4. Services and worker
	services := app.NewServices(cfg, cacheRepo, metrics, log)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	convertWorker := hut.NewConvertWorker(streamRepo, services.Registry, cfg.Worker, metrics, log)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(convertWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 5. Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
