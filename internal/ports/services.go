package ports

import (
	"context"

	"github.com/seu-repo/dronevox/internal/domain"
)

// Transcriber turns recorded audio into text. Implementations call an external
// speech-to-text provider.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
	Name() string
}

// AudioArchive keeps the raw audio of a command for later review.
type AudioArchive interface {
	Store(ctx context.Context, key string, audio []byte, contentType string) (string, error)
}

// Interpreter is the pure transcript -> command step.
type Interpreter interface {
	Interpret(transcript string) domain.StructuredCommand
}

// Broadcaster pushes real-time events to connected dashboards.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

type FleetService interface {
	ResolveDrone(ctx context.Context, name string) (*domain.Drone, error)
	ResolveTarget(ctx context.Context, name string) (*domain.Target, error)

	ListDrones(ctx context.Context) ([]domain.Drone, error)
	GetDrone(ctx context.Context, id string) (*domain.Drone, error)
	GetDroneByDroneID(ctx context.Context, droneID string) (*domain.Drone, error)
	CreateDrone(ctx context.Context, drone *domain.Drone) error
	DeleteDrone(ctx context.Context, id string) error

	ListAreas(ctx context.Context) ([]domain.Area, error)
	GetAreaByAreaID(ctx context.Context, areaID string) (*domain.Area, error)
	CreateArea(ctx context.Context, area *domain.Area) error
	DeleteArea(ctx context.Context, id string) error

	ListSensors(ctx context.Context) ([]domain.Sensor, error)
	GetSensorBySensorID(ctx context.Context, sensorID string) (*domain.Sensor, error)
	CreateSensor(ctx context.Context, sensor *domain.Sensor) error
	DeleteSensor(ctx context.Context, id string) error

	RecordTelemetry(ctx context.Context, t domain.Telemetry) error
}

type DispatchService interface {
	Dispatch(ctx context.Context, cmd *domain.DroneCommand) error
	Send(ctx context.Context, drone *domain.Drone, target *domain.Target, source string) (*domain.DroneCommand, error)
	Recall(ctx context.Context, drone *domain.Drone, source string) (*domain.DroneCommand, error)
}

type VoiceService interface {
	Interpret(transcript string) domain.StructuredCommand
	ProcessTranscript(ctx context.Context, transcript string) (*domain.VoiceResponse, error)
	ProcessAudio(ctx context.Context, audio []byte, contentType string) (*domain.VoiceResponse, error)
	History(ctx context.Context, limit int) ([]domain.CommandRecord, error)
	Stats(ctx context.Context) (*domain.CommandStats, error)
}
