package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/dronevox/internal/domain"
)

// MockTranscriber is a mock implementation of Transcriber interface
type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, audio []byte, contentType string) (string, error)
	ProviderName   string
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, contentType)
	}
	return "", nil
}

func (m *MockTranscriber) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock"
}

// MockAudioArchive is a mock implementation of AudioArchive interface
type MockAudioArchive struct {
	StoreFunc func(ctx context.Context, key string, audio []byte, contentType string) (string, error)
}

func (m *MockAudioArchive) Store(ctx context.Context, key string, audio []byte, contentType string) (string, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, key, audio, contentType)
	}
	return "mock://" + key, nil
}

// BroadcastEvent is one recorded Broadcast call.
type BroadcastEvent struct {
	Event   string
	Payload interface{}
}

// MockBroadcaster records broadcasts for assertions.
type MockBroadcaster struct {
	mu     sync.Mutex
	Events []BroadcastEvent
}

func (m *MockBroadcaster) Broadcast(event string, payload interface{}) {
	m.mu.Lock()
	m.Events = append(m.Events, BroadcastEvent{Event: event, Payload: payload})
	m.mu.Unlock()
}

func (m *MockBroadcaster) Count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// MockFleetService is a mock implementation of FleetService interface
type MockFleetService struct {
	ResolveDroneFunc        func(ctx context.Context, name string) (*domain.Drone, error)
	ResolveTargetFunc       func(ctx context.Context, name string) (*domain.Target, error)
	ListDronesFunc          func(ctx context.Context) ([]domain.Drone, error)
	GetDroneFunc            func(ctx context.Context, id string) (*domain.Drone, error)
	GetDroneByDroneIDFunc   func(ctx context.Context, droneID string) (*domain.Drone, error)
	CreateDroneFunc         func(ctx context.Context, drone *domain.Drone) error
	DeleteDroneFunc         func(ctx context.Context, id string) error
	ListAreasFunc           func(ctx context.Context) ([]domain.Area, error)
	GetAreaByAreaIDFunc     func(ctx context.Context, areaID string) (*domain.Area, error)
	CreateAreaFunc          func(ctx context.Context, area *domain.Area) error
	DeleteAreaFunc          func(ctx context.Context, id string) error
	ListSensorsFunc         func(ctx context.Context) ([]domain.Sensor, error)
	GetSensorBySensorIDFunc func(ctx context.Context, sensorID string) (*domain.Sensor, error)
	CreateSensorFunc        func(ctx context.Context, sensor *domain.Sensor) error
	DeleteSensorFunc        func(ctx context.Context, id string) error
	RecordTelemetryFunc     func(ctx context.Context, t domain.Telemetry) error
}

func (m *MockFleetService) ResolveDrone(ctx context.Context, name string) (*domain.Drone, error) {
	if m.ResolveDroneFunc != nil {
		return m.ResolveDroneFunc(ctx, name)
	}
	return nil, domain.ErrDroneNotFound
}

func (m *MockFleetService) ResolveTarget(ctx context.Context, name string) (*domain.Target, error) {
	if m.ResolveTargetFunc != nil {
		return m.ResolveTargetFunc(ctx, name)
	}
	return nil, domain.ErrTargetNotFound
}

func (m *MockFleetService) ListDrones(ctx context.Context) ([]domain.Drone, error) {
	if m.ListDronesFunc != nil {
		return m.ListDronesFunc(ctx)
	}
	return []domain.Drone{}, nil
}

func (m *MockFleetService) GetDrone(ctx context.Context, id string) (*domain.Drone, error) {
	if m.GetDroneFunc != nil {
		return m.GetDroneFunc(ctx, id)
	}
	return nil, domain.ErrDroneNotFound
}

func (m *MockFleetService) GetDroneByDroneID(ctx context.Context, droneID string) (*domain.Drone, error) {
	if m.GetDroneByDroneIDFunc != nil {
		return m.GetDroneByDroneIDFunc(ctx, droneID)
	}
	return nil, domain.ErrDroneNotFound
}

func (m *MockFleetService) CreateDrone(ctx context.Context, drone *domain.Drone) error {
	if m.CreateDroneFunc != nil {
		return m.CreateDroneFunc(ctx, drone)
	}
	return nil
}

func (m *MockFleetService) DeleteDrone(ctx context.Context, id string) error {
	if m.DeleteDroneFunc != nil {
		return m.DeleteDroneFunc(ctx, id)
	}
	return nil
}

func (m *MockFleetService) ListAreas(ctx context.Context) ([]domain.Area, error) {
	if m.ListAreasFunc != nil {
		return m.ListAreasFunc(ctx)
	}
	return []domain.Area{}, nil
}

func (m *MockFleetService) GetAreaByAreaID(ctx context.Context, areaID string) (*domain.Area, error) {
	if m.GetAreaByAreaIDFunc != nil {
		return m.GetAreaByAreaIDFunc(ctx, areaID)
	}
	return nil, domain.ErrAreaNotFound
}

func (m *MockFleetService) CreateArea(ctx context.Context, area *domain.Area) error {
	if m.CreateAreaFunc != nil {
		return m.CreateAreaFunc(ctx, area)
	}
	return nil
}

func (m *MockFleetService) DeleteArea(ctx context.Context, id string) error {
	if m.DeleteAreaFunc != nil {
		return m.DeleteAreaFunc(ctx, id)
	}
	return nil
}

func (m *MockFleetService) ListSensors(ctx context.Context) ([]domain.Sensor, error) {
	if m.ListSensorsFunc != nil {
		return m.ListSensorsFunc(ctx)
	}
	return []domain.Sensor{}, nil
}

func (m *MockFleetService) GetSensorBySensorID(ctx context.Context, sensorID string) (*domain.Sensor, error) {
	if m.GetSensorBySensorIDFunc != nil {
		return m.GetSensorBySensorIDFunc(ctx, sensorID)
	}
	return nil, domain.ErrTargetNotFound
}

func (m *MockFleetService) CreateSensor(ctx context.Context, sensor *domain.Sensor) error {
	if m.CreateSensorFunc != nil {
		return m.CreateSensorFunc(ctx, sensor)
	}
	return nil
}

func (m *MockFleetService) DeleteSensor(ctx context.Context, id string) error {
	if m.DeleteSensorFunc != nil {
		return m.DeleteSensorFunc(ctx, id)
	}
	return nil
}

func (m *MockFleetService) RecordTelemetry(ctx context.Context, t domain.Telemetry) error {
	if m.RecordTelemetryFunc != nil {
		return m.RecordTelemetryFunc(ctx, t)
	}
	return nil
}

// MockDispatchService is a mock implementation of DispatchService interface
type MockDispatchService struct {
	DispatchFunc func(ctx context.Context, cmd *domain.DroneCommand) error
	SendFunc     func(ctx context.Context, drone *domain.Drone, target *domain.Target, source string) (*domain.DroneCommand, error)
	RecallFunc   func(ctx context.Context, drone *domain.Drone, source string) (*domain.DroneCommand, error)
}

func (m *MockDispatchService) Dispatch(ctx context.Context, cmd *domain.DroneCommand) error {
	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, cmd)
	}
	return nil
}

func (m *MockDispatchService) Send(ctx context.Context, drone *domain.Drone, target *domain.Target, source string) (*domain.DroneCommand, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, drone, target, source)
	}
	return &domain.DroneCommand{Event: domain.DroneEventSend, DroneID: drone.DroneID, AreaID: target.AreaID, SensorID: target.SensorID, Source: source}, nil
}

func (m *MockDispatchService) Recall(ctx context.Context, drone *domain.Drone, source string) (*domain.DroneCommand, error) {
	if m.RecallFunc != nil {
		return m.RecallFunc(ctx, drone, source)
	}
	return &domain.DroneCommand{Event: domain.DroneEventRecall, DroneID: drone.DroneID, AreaID: drone.AreaID, Source: source}, nil
}

// MockVoiceService is a mock implementation of VoiceService interface
type MockVoiceService struct {
	InterpretFunc         func(transcript string) domain.StructuredCommand
	ProcessTranscriptFunc func(ctx context.Context, transcript string) (*domain.VoiceResponse, error)
	ProcessAudioFunc      func(ctx context.Context, audio []byte, contentType string) (*domain.VoiceResponse, error)
	HistoryFunc           func(ctx context.Context, limit int) ([]domain.CommandRecord, error)
	StatsFunc             func(ctx context.Context) (*domain.CommandStats, error)
}

func (m *MockVoiceService) Interpret(transcript string) domain.StructuredCommand {
	if m.InterpretFunc != nil {
		return m.InterpretFunc(transcript)
	}
	return domain.StructuredCommand{Transcript: transcript, Intent: domain.IntentUnknown, Rule: "none"}
}

func (m *MockVoiceService) ProcessTranscript(ctx context.Context, transcript string) (*domain.VoiceResponse, error) {
	if m.ProcessTranscriptFunc != nil {
		return m.ProcessTranscriptFunc(ctx, transcript)
	}
	return &domain.VoiceResponse{Status: domain.CommandStatusNotUnderstood}, nil
}

func (m *MockVoiceService) ProcessAudio(ctx context.Context, audio []byte, contentType string) (*domain.VoiceResponse, error) {
	if m.ProcessAudioFunc != nil {
		return m.ProcessAudioFunc(ctx, audio, contentType)
	}
	return &domain.VoiceResponse{Status: domain.CommandStatusNotUnderstood}, nil
}

func (m *MockVoiceService) History(ctx context.Context, limit int) ([]domain.CommandRecord, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, limit)
	}
	return []domain.CommandRecord{}, nil
}

func (m *MockVoiceService) Stats(ctx context.Context) (*domain.CommandStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &domain.CommandStats{ByIntent: map[domain.Intent]int64{}, ByStatus: map[domain.CommandStatus]int64{}}, nil
}
