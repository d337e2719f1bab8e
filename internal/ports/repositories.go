package ports

import (
	"context"
	"time"

	"github.com/seu-repo/dronevox/internal/domain"
)

// Find* methods return (nil, nil) when the record does not exist.

type DroneRepository interface {
	Save(ctx context.Context, drone *domain.Drone) error
	FindByID(ctx context.Context, id string) (*domain.Drone, error)
	FindByDroneID(ctx context.Context, droneID string) (*domain.Drone, error)
	FindByName(ctx context.Context, name string) ([]domain.Drone, error)
	FindAll(ctx context.Context) ([]domain.Drone, error)
	UpdateStatus(ctx context.Context, droneID string, status domain.DroneStatus, seen time.Time) error
	Delete(ctx context.Context, id string) error
}

type AreaRepository interface {
	Save(ctx context.Context, area *domain.Area) error
	FindByID(ctx context.Context, id string) (*domain.Area, error)
	FindByAreaID(ctx context.Context, areaID string) (*domain.Area, error)
	FindByName(ctx context.Context, name string) ([]domain.Area, error)
	FindAll(ctx context.Context) ([]domain.Area, error)
	Delete(ctx context.Context, id string) error
}

type SensorRepository interface {
	Save(ctx context.Context, sensor *domain.Sensor) error
	FindByID(ctx context.Context, id string) (*domain.Sensor, error)
	FindBySensorID(ctx context.Context, sensorID string) (*domain.Sensor, error)
	FindByName(ctx context.Context, name string) ([]domain.Sensor, error)
	FindByArea(ctx context.Context, areaID string) ([]domain.Sensor, error)
	FindAll(ctx context.Context) ([]domain.Sensor, error)
	Delete(ctx context.Context, id string) error
}

// CommandLogRepository persists one record per processed voice command.
type CommandLogRepository interface {
	Save(ctx context.Context, record *domain.CommandRecord) error
	FindRecent(ctx context.Context, limit int) ([]domain.CommandRecord, error)
	CountByIntent(ctx context.Context) (map[domain.Intent]int64, error)
	CountByStatus(ctx context.Context) (map[domain.CommandStatus]int64, error)
}
