package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/adapter/queue"
	"github.com/seu-repo/dronevox/pkg/config"
)

var (
	telemetryURL = flag.String("server", "ws://localhost:8080/ws/telemetry", "Telemetry WebSocket URL")
	droneIDs     = flag.String("drones", "D-1", "Comma separated drone ids to simulate")
	configFile   = flag.String("config", "", "Config file with the queue settings (defaults to ./configs/config.yaml)")
	homeLat      = flag.Float64("lat", -23.5505, "Home latitude")
	homeLon      = flag.Float64("lon", -46.6333, "Home longitude")
	speed        = flag.Float64("speed", 15, "Cruise speed (m/s)")
	tick         = flag.Duration("tick", time.Second, "Telemetry interval")
	drain        = flag.Float64("drain", 2.5, "Battery percent used per km")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	codec, err := queue.CodecFor(cfg.Queue.Encoding)
	if err != nil {
		logger.Fatal("Invalid queue encoding", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sim := NewSimulator(&SimulatorConfig{
		TelemetryURL: *telemetryURL,
		DroneIDs:     splitIDs(*droneIDs),
		HomeLat:      *homeLat,
		HomeLon:      *homeLon,
		SpeedMPS:     *speed,
		Tick:         *tick,
		DrainPerKm:   *drain,
	}, codec, logger)

	// Subscribing as a distinct client keeps the server's MQTT session intact.
	cfg.MQTT.ClientID = cfg.MQTT.ClientID + "-simulator"
	mq, err := queue.New(*cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to the fleet broker", zap.Error(err))
	}
	defer mq.Close()

	if err := mq.Subscribe(cfg.Queue.FleetTopic, sim.HandleCommand); err != nil {
		logger.Fatal("Failed to subscribe", zap.String("topic", cfg.Queue.FleetTopic), zap.Error(err))
	}
	if err := sim.Connect(ctx); err != nil {
		logger.Fatal("Failed to connect to server", zap.Error(err))
	}

	fmt.Printf("Drone simulator started\n")
	fmt.Printf("  Drones: %s\n", *droneIDs)
	fmt.Printf("  Topic:  %s (%s)\n", cfg.Queue.FleetTopic, cfg.Queue.Driver)
	fmt.Printf("  Server: %s\n", *telemetryURL)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := sim.Run(ctx); err != nil {
		logger.Error("Simulator stopped", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
