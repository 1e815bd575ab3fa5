package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/hut-services/internal/config"
	"github.com/hut-services/internal/delivery/http/handler"
	"github.com/hut-services/internal/delivery/http/middleware"
	"github.com/hut-services/internal/observability"
	"github.com/hut-services/internal/pkg/errors"
	"github.com/hut-services/internal/pkg/utils"
)

// Handlers - обработчики HTTP API
type Handlers struct {
	Health   *handler.HealthHandler
	Services *handler.ServicesHandler
	Guess    *handler.GuessHandler
	Geocode  *handler.GeocodeHandler
	Cache    *handler.CacheHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	metrics  *observability.Metrics
	handlers Handlers
}

// NewServer - создание нового HTTP сервера
func NewServer(cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics, handlers Handlers) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Hut Services",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * 2,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		metrics:  metrics,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App возвращает fiber приложение (используется в тестах)
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.Metrics(s.metrics))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/metrics", adaptor.HTTPHandler(observability.Handler()))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.handlers.Health.Health)

	// Сервисы источников
	api.Get("/services", s.handlers.Services.List)
	api.Get("/services/:source/sources", s.handlers.Services.Sources)
	api.Get("/services/:source/huts", s.handlers.Services.Huts)
	api.Post("/services/:source/convert", s.handlers.Services.Convert)
	api.Get("/services/:source/bookings", s.handlers.Services.Bookings)

	api.Post("/guess/type", s.handlers.Guess.HutType)
	api.Get("/guess/slug", s.handlers.Guess.Slug)

	if s.handlers.Geocode != nil {
		api.Get("/geocode/location", s.handlers.Geocode.Location)
		api.Post("/geocode/elevations", s.handlers.Geocode.Elevations)
	}

	if s.handlers.Cache != nil {
		api.Delete("/cache", s.handlers.Cache.Clear)
	}
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки fiber (404 маршрута, 405) в формате ErrorResponse
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(utils.ErrorResponse{
				Error: errors.New("HTTP_ERROR", e.Message, e.Code),
			})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}
