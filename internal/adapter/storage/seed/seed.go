// Package seed loads a YAML fleet registry (areas, sensors, drones) into the
// repositories on startup.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/ports"
)

type File struct {
	Areas   []AreaEntry   `yaml:"areas"`
	Sensors []SensorEntry `yaml:"sensors"`
	Drones  []DroneEntry  `yaml:"drones"`
}

type AreaEntry struct {
	Name      string   `yaml:"name"`
	AreaID    string   `yaml:"area_id"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
}

type SensorEntry struct {
	Name      string  `yaml:"name"`
	SensorID  string  `yaml:"sensor_id"`
	AreaID    string  `yaml:"area_id"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type DroneEntry struct {
	Name       string `yaml:"name"`
	DroneID    string `yaml:"drone_id"`
	AreaID     string `yaml:"area_id"`
	USBAddress string `yaml:"usb_address"`
	CameraFeed string `yaml:"camera_feed"`
}

// Result counts the records created; existing records are left untouched.
type Result struct {
	Areas   int
	Sensors int
	Drones  int
}

type Loader struct {
	areas   ports.AreaRepository
	sensors ports.SensorRepository
	drones  ports.DroneRepository
	log     *zap.Logger
}

func NewLoader(areas ports.AreaRepository, sensors ports.SensorRepository, drones ports.DroneRepository, log *zap.Logger) *Loader {
	return &Loader{areas: areas, sensors: sensors, drones: drones, log: log}
}

// Parse decodes and validates a seed document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	areas := make(map[string]bool, len(f.Areas))
	for i, a := range f.Areas {
		if a.Name == "" || a.AreaID == "" {
			return nil, fmt.Errorf("area %d: name and area_id are required", i)
		}
		areas[a.AreaID] = true
	}
	for i, s := range f.Sensors {
		if s.Name == "" || s.SensorID == "" {
			return nil, fmt.Errorf("sensor %d: name and sensor_id are required", i)
		}
	}
	for i, d := range f.Drones {
		if d.Name == "" || d.DroneID == "" || d.AreaID == "" {
			return nil, fmt.Errorf("drone %d: name, drone_id and area_id are required", i)
		}
	}
	return &f, nil
}

// LoadFile reads path and applies it. A missing file is not an error.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.log.Info("No seed file found, skipping", zap.String("path", path))
			return &Result{}, nil
		}
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return l.Apply(ctx, f)
}

// Apply creates every entry whose natural id is not registered yet. Areas go
// first since drones reference them.
func (l *Loader) Apply(ctx context.Context, f *File) (*Result, error) {
	res := &Result{}

	for _, a := range f.Areas {
		existing, err := l.areas.FindByAreaID(ctx, a.AreaID)
		if err != nil {
			return res, fmt.Errorf("failed to look up area %s: %w", a.AreaID, err)
		}
		if existing != nil {
			continue
		}
		area := &domain.Area{ID: uuid.New().String(), Name: a.Name, AreaID: a.AreaID, Latitude: a.Latitude, Longitude: a.Longitude}
		if err := l.areas.Save(ctx, area); err != nil {
			return res, fmt.Errorf("failed to seed area %s: %w", a.AreaID, err)
		}
		res.Areas++
	}

	for _, s := range f.Sensors {
		existing, err := l.sensors.FindBySensorID(ctx, s.SensorID)
		if err != nil {
			return res, fmt.Errorf("failed to look up sensor %s: %w", s.SensorID, err)
		}
		if existing != nil {
			continue
		}
		sensor := &domain.Sensor{
			ID:        uuid.New().String(),
			Name:      s.Name,
			SensorID:  s.SensorID,
			AreaID:    s.AreaID,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		}
		if err := l.sensors.Save(ctx, sensor); err != nil {
			return res, fmt.Errorf("failed to seed sensor %s: %w", s.SensorID, err)
		}
		res.Sensors++
	}

	for _, d := range f.Drones {
		existing, err := l.drones.FindByDroneID(ctx, d.DroneID)
		if err != nil {
			return res, fmt.Errorf("failed to look up drone %s: %w", d.DroneID, err)
		}
		if existing != nil {
			continue
		}
		drone := &domain.Drone{
			ID:         uuid.New().String(),
			Name:       d.Name,
			DroneID:    d.DroneID,
			AreaID:     d.AreaID,
			USBAddress: d.USBAddress,
			Status:     domain.DroneStatusIdle,
		}
		if d.CameraFeed != "" {
			feed := d.CameraFeed
			drone.CameraFeed = &feed
		}
		if err := l.drones.Save(ctx, drone); err != nil {
			return res, fmt.Errorf("failed to seed drone %s: %w", d.DroneID, err)
		}
		res.Drones++
	}

	l.log.Info("Fleet registry seeded",
		zap.Int("areas", res.Areas),
		zap.Int("sensors", res.Sensors),
		zap.Int("drones", res.Drones),
	)
	return res, nil
}
