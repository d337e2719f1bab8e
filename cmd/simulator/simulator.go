package main

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/adapter/queue"
	"github.com/seu-repo/dronevox/internal/domain"
)

const metersPerDegree = 111320.0

// SimulatorConfig holds the simulator configuration
type SimulatorConfig struct {
	TelemetryURL string
	DroneIDs     []string
	HomeLat      float64
	HomeLon      float64
	SpeedMPS     float64
	Tick         time.Duration
	// DrainPerKm is the battery percentage spent per kilometre flown.
	DrainPerKm float64
}

type position struct {
	Lat, Lon float64
}

// droneState is the simulated flight of one drone.
type droneState struct {
	id      string
	pos     position
	home    position
	target  *position
	status  domain.DroneStatus
	battery float64
}

// Simulator flies the configured drones toward the targets they receive on
// the fleet topic and uplinks their telemetry.
type Simulator struct {
	config *SimulatorConfig
	codec  queue.Codec
	log    *zap.Logger

	mu     sync.Mutex
	drones map[string]*droneState

	conn   *websocket.Conn
	connMu sync.Mutex
}

func NewSimulator(config *SimulatorConfig, codec queue.Codec, log *zap.Logger) *Simulator {
	home := position{Lat: config.HomeLat, Lon: config.HomeLon}
	drones := make(map[string]*droneState, len(config.DroneIDs))
	for _, id := range config.DroneIDs {
		drones[id] = &droneState{id: id, pos: home, home: home, status: domain.DroneStatusIdle, battery: 100}
	}
	if codec == nil {
		codec = queue.JSON
	}
	return &Simulator{
		config: config,
		codec:  codec,
		log:    log,
		drones: drones,
	}
}

// Connect dials the telemetry websocket.
func (s *Simulator) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.config.TelemetryURL, nil)
	if err != nil {
		return err
	}
	s.conn = conn
	s.log.Info("Connected to telemetry endpoint", zap.String("url", s.config.TelemetryURL))

	// Drain server frames (error replies) so control frames are processed.
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			s.log.Warn("Server rejected telemetry", zap.ByteString("reply", msg))
		}
	}()
	return nil
}

// HandleCommand is the fleet topic subscriber. Commands for drones this
// simulator does not fly are ignored.
func (s *Simulator) HandleCommand(data []byte) error {
	var cmd domain.DroneCommand
	if err := s.codec.Unmarshal(data, &cmd); err != nil {
		s.log.Warn("Ignoring undecodable command", zap.Error(err))
		return nil
	}
	s.apply(cmd)
	return nil
}

func (s *Simulator) apply(cmd domain.DroneCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drones[cmd.DroneID]
	if !ok {
		return
	}

	switch cmd.Event {
	case domain.DroneEventSend:
		if cmd.Latitude == nil || cmd.Longitude == nil {
			s.log.Warn("Send command without coordinates", zap.String("drone_id", cmd.DroneID), zap.String("area_id", cmd.AreaID))
			return
		}
		d.target = &position{Lat: *cmd.Latitude, Lon: *cmd.Longitude}
		d.status = domain.DroneStatusInFlight
	case domain.DroneEventRecall:
		home := d.home
		if cmd.Latitude != nil && cmd.Longitude != nil {
			home = position{Lat: *cmd.Latitude, Lon: *cmd.Longitude}
		}
		d.target = &home
		d.status = domain.DroneStatusReturning
	default:
		return
	}
	s.log.Info("Command received",
		zap.String("drone_id", cmd.DroneID),
		zap.String("event", string(cmd.Event)),
		zap.String("source", cmd.Source),
	)
}

// advance moves every drone one tick and returns the frames to uplink.
func (s *Simulator) advance(now time.Time) []domain.Telemetry {
	s.mu.Lock()
	defer s.mu.Unlock()

	stepMeters := s.config.SpeedMPS * s.config.Tick.Seconds()
	frames := make([]domain.Telemetry, 0, len(s.drones))
	for _, d := range s.drones {
		if d.target != nil {
			var moved float64
			var arrived bool
			d.pos, moved, arrived = step(d.pos, *d.target, stepMeters)
			d.battery = math.Max(0, d.battery-moved/1000*s.config.DrainPerKm)
			if arrived {
				d.target = nil
				d.status = domain.DroneStatusIdle
			}
		}
		frames = append(frames, domain.Telemetry{
			DroneID:   d.id,
			Latitude:  d.pos.Lat,
			Longitude: d.pos.Lon,
			Altitude:  altitude(d),
			Battery:   int(math.Round(d.battery)),
			Status:    d.status,
			Timestamp: now.UTC(),
		})
	}
	return frames
}

func altitude(d *droneState) float64 {
	if d.target == nil {
		return 0
	}
	return 30
}

// step moves from toward to by at most meters using an equirectangular
// approximation, which is accurate enough over a few kilometres.
func step(from, to position, meters float64) (next position, moved float64, arrived bool) {
	latScale := metersPerDegree
	lonScale := metersPerDegree * math.Cos(from.Lat*math.Pi/180)

	dy := (to.Lat - from.Lat) * latScale
	dx := (to.Lon - from.Lon) * lonScale
	dist := math.Hypot(dx, dy)
	if dist <= meters || dist == 0 {
		return to, dist, true
	}

	f := meters / dist
	return position{
		Lat: from.Lat + (to.Lat-from.Lat)*f,
		Lon: from.Lon + (to.Lon-from.Lon)*f,
	}, meters, false
}

// Run ticks until ctx is done.
func (s *Simulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.close()
		case now := <-ticker.C:
			for _, frame := range s.advance(now) {
				if err := s.send(frame); err != nil {
					return err
				}
			}
		}
	}
}

func (s *Simulator) send(frame domain.Telemetry) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.WriteJSON(frame)
}

func (s *Simulator) close() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return nil
	}
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}
