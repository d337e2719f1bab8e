package main

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/dronevox/internal/adapter/http/fiber/middleware"
	wsAdapter "github.com/seu-repo/dronevox/internal/adapter/websocket"
	"github.com/seu-repo/dronevox/internal/ports"
	"github.com/seu-repo/dronevox/internal/service/health"
	"github.com/seu-repo/dronevox/pkg/config"
)

type routes struct {
	health    *health.FiberHandler
	voice     ports.VoiceService
	fleet     ports.FleetService
	dispatch  ports.DispatchService
	hub       *wsAdapter.Hub
	streaming *wsAdapter.VoiceStreamHandler
	ingest    *wsAdapter.TelemetryIngestHandler
}

func newHTTPApp(cfg *config.Config, logger *zap.Logger, r routes) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Next: func(c *fiber.Ctx) bool { return c.Path() == cfg.Prometheus.Path },
	}))
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS, logger))
	}
	if cfg.RateLimiting.Enabled {
		app.Use(middleware.RateLimit(cfg.RateLimiting))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(cfg.CircuitBreaker, logger))
	}

	r.health.RegisterRoutes(app)

	if cfg.Prometheus.Enabled {
		metrics := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metrics(c.Context())
			return nil
		})
	}

	v1 := app.Group("/api/v1")
	handlers.NewVoiceHandler(r.voice, logger).Register(v1)
	handlers.NewFleetHandler(r.fleet, r.dispatch, logger).Register(v1)

	wsAdapter.Register(app, r.hub, r.streaming, r.ingest)
	return app
}
