package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seu-repo/dronevox/internal/adapter/ai"
	"github.com/seu-repo/dronevox/internal/adapter/cache"
	"github.com/seu-repo/dronevox/internal/adapter/grpc/server"
	"github.com/seu-repo/dronevox/internal/adapter/queue"
	"github.com/seu-repo/dronevox/internal/adapter/storage/postgres"
	"github.com/seu-repo/dronevox/internal/adapter/storage/s3"
	"github.com/seu-repo/dronevox/internal/adapter/storage/seed"
	"github.com/seu-repo/dronevox/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/dronevox/internal/adapter/websocket"
	"github.com/seu-repo/dronevox/internal/observability/logging"
	"github.com/seu-repo/dronevox/internal/observability/telemetry"
	"github.com/seu-repo/dronevox/internal/ports"
	"github.com/seu-repo/dronevox/internal/service/dispatch"
	"github.com/seu-repo/dronevox/internal/service/fleet"
	"github.com/seu-repo/dronevox/internal/service/health"
	"github.com/seu-repo/dronevox/internal/service/voice"
	"github.com/seu-repo/dronevox/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dronevox:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("APP_CONFIG_FILE"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Configuration and logger
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting dronevox",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("queue", cfg.Queue.Driver),
		zap.String("transcription", cfg.Transcription.Provider),
	)

	// 2. Secrets overlay
	if cfg.Vault.Enabled {
		sm, err := vault.NewSecretManager(cfg.Vault)
		if err != nil {
			return err
		}
		if _, err := sm.Apply(ctx, cfg, logger); err != nil {
			return err
		}
	}

	// 3. Tracing
	tracerProvider, err := telemetry.InitTracer(cfg.OpenTelemetry, cfg.App.Version)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// 4. PostgreSQL
	db, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer postgres.Close(db)
	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	droneRepo := postgres.NewDroneRepository(db, logger)
	areaRepo := postgres.NewAreaRepository(db, logger)
	sensorRepo := postgres.NewSensorRepository(db, logger)
	commandRepo := postgres.NewCommandLogRepository(db, logger)

	if cfg.Seed.Enabled {
		if _, err := seed.NewLoader(areaRepo, sensorRepo, droneRepo, logger).LoadFile(ctx, cfg.Seed.Path); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	// 5. Resolution cache
	resolveCache, err := newCache(cfg, logger)
	if err != nil {
		return err
	}
	defer resolveCache.Close()

	// 6. Fleet transport
	mq, err := queue.New(*cfg, logger)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.Queue.Driver, err)
	}
	defer mq.Close()
	codec, err := queue.CodecFor(cfg.Queue.Encoding)
	if err != nil {
		return err
	}

	// 7. Services
	hub := wsAdapter.NewHub(logger)
	fleetSvc := fleet.NewService(droneRepo, areaRepo, sensorRepo, resolveCache, hub,
		fleet.OptionsFromConfig(cfg.Cache, cfg.Resolver), logger)
	dispatchSvc := dispatch.NewService(mq, codec, cfg.Queue.FleetTopic, hub, logger)

	transcriber, err := ai.NewTranscriber(cfg.Transcription, cfg.CircuitBreaker, logger)
	if err != nil {
		return err
	}
	var archive ports.AudioArchive
	if cfg.Storage.Enabled {
		a, err := s3.NewAudioArchive(ctx, cfg.Storage, logger)
		if err != nil {
			return err
		}
		archive = a
	}

	assistant := voice.NewVoiceAssistant(voice.Dependencies{
		Fleet:         fleetSvc,
		Dispatch:      dispatchSvc,
		Commands:      commandRepo,
		Transcriber:   transcriber,
		Archive:       archive,
		Hub:           hub,
		MaxAudioBytes: cfg.Transcription.MaxAudio,
	}, logger)

	if err := fleet.SubscribeTelemetry(ctx, mq, codec, cfg.Queue.TelemetryTopic, fleetSvc, logger); err != nil {
		return fmt.Errorf("subscribe telemetry: %w", err)
	}

	healthSvc := health.NewService(&health.Config{
		Version:   cfg.App.Version,
		DB:        sqlDB,
		Cache:     resolveCache,
		Queue:     mq,
		QueueName: cfg.Queue.Driver,
	}, logger)

	// 8. HTTP, websocket and gRPC surfaces
	app := newHTTPApp(cfg, logger, routes{
		health:    health.NewFiberHandler(healthSvc),
		voice:     assistant,
		fleet:     fleetSvc,
		dispatch:  dispatchSvc,
		hub:       hub,
		streaming: wsAdapter.NewVoiceStreamHandler(assistant, logger),
		ingest:    wsAdapter.NewTelemetryIngestHandler(fleetSvc, logger),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run()
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		return app.Listen(addr)
	})

	var grpcServer *server.GRPCServer
	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		grpcServer = server.NewGRPCServer(assistant, cfg.GRPC.Reflection, logger)
		g.Go(func() error {
			return grpcServer.Serve(lis)
		})
	}

	// 9. Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if grpcServer != nil {
			grpcServer.Stop()
		}
		hub.Stop()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Server exited gracefully")
	return nil
}

func newCache(cfg *config.Config, logger *zap.Logger) (ports.Cache, error) {
	if cfg.Cache.Driver == "redis" {
		c, err := cache.NewRedisCache(cfg.Redis, "dronevox:", logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return c, nil
	}
	return cache.NewLocalCache(cfg.Cache.LocalEntries, cfg.Cache.ResolveTTL, logger), nil
}
