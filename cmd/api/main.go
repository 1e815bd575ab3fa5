package main

// @title Hut Services API
// @version 1.0.0
// @description Сервис собирает данные о горных хижинах из OpenStreetMap, refuges.info и Wikidata
// @description и приводит их к единой модели хижины.
// @description
// @description Основные возможности:
// @description - Загрузка исходных записей источников и их конвертация в хижины
// @description - Угадывание типа хижины и генерация slug
// @description - Поиск координат по названию и высоты по координатам
// @description - Очистка кеша ответов внешних источников

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/hut-services/docs"
	"github.com/hut-services/internal/app"
	"github.com/hut-services/internal/config"
	httpDelivery "github.com/hut-services/internal/delivery/http"
	"github.com/hut-services/internal/delivery/http/handler"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/observability"
	"github.com/hut-services/internal/pkg/logger"
	"github.com/hut-services/internal/repository/cache"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "hut-services-api"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Hut Services API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	metrics := observability.NewMetrics()
	checks := map[string]handler.HealthChecker{}

	// 3. Redis нужен только для кеша ответов источников
	var cacheRepo repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Health(ctx)
		cancel()
		if err != nil {
			log.Fatal("Redis health check failed", zap.Error(err))
		}
		log.Info("Redis connected")

		cacheRepo = cache.NewCacheRepository(redisClient, cfg.Cache.Prefix, metrics)
		checks["redis"] = redisClient
	}

	// 4. Upstream clients and hut services
	services := app.NewServices(cfg, cacheRepo, metrics, log)
	log.Info("Services initialized", zap.Strings("services", services.Registry.Names()))

	cleaners := make([]handler.CacheCleaner, 0, len(services.Clients))
	for _, c := range services.Clients {
		cleaners = append(cleaners, c)
	}

	// 5. HTTP handlers and server
	server := httpDelivery.NewServer(cfg, log, metrics, httpDelivery.Handlers{
		Health:   handler.NewHealthHandler(checks, log),
		Services: handler.NewServicesHandler(services.Registry, metrics, log),
		Guess:    handler.NewGuessHandler(log),
		Geocode:  handler.NewGeocodeHandler(services.Geocode, log),
		Cache:    handler.NewCacheHandler(log, cleaners...),
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
