package mocks

import (
	"context"
	"time"

	"github.com/seu-repo/dronevox/internal/domain"
)

// MockDroneRepository is a mock implementation of DroneRepository
type MockDroneRepository struct {
	SaveFunc          func(ctx context.Context, drone *domain.Drone) error
	FindByIDFunc      func(ctx context.Context, id string) (*domain.Drone, error)
	FindByDroneIDFunc func(ctx context.Context, droneID string) (*domain.Drone, error)
	FindByNameFunc    func(ctx context.Context, name string) ([]domain.Drone, error)
	FindAllFunc       func(ctx context.Context) ([]domain.Drone, error)
	UpdateStatusFunc  func(ctx context.Context, droneID string, status domain.DroneStatus, seen time.Time) error
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockDroneRepository) Save(ctx context.Context, drone *domain.Drone) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, drone)
	}
	return nil
}

func (m *MockDroneRepository) FindByID(ctx context.Context, id string) (*domain.Drone, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockDroneRepository) FindByDroneID(ctx context.Context, droneID string) (*domain.Drone, error) {
	if m.FindByDroneIDFunc != nil {
		return m.FindByDroneIDFunc(ctx, droneID)
	}
	return nil, nil
}

func (m *MockDroneRepository) FindByName(ctx context.Context, name string) ([]domain.Drone, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return []domain.Drone{}, nil
}

func (m *MockDroneRepository) FindAll(ctx context.Context) ([]domain.Drone, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.Drone{}, nil
}

func (m *MockDroneRepository) UpdateStatus(ctx context.Context, droneID string, status domain.DroneStatus, seen time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, droneID, status, seen)
	}
	return nil
}

func (m *MockDroneRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockAreaRepository is a mock implementation of AreaRepository
type MockAreaRepository struct {
	SaveFunc         func(ctx context.Context, area *domain.Area) error
	FindByIDFunc     func(ctx context.Context, id string) (*domain.Area, error)
	FindByAreaIDFunc func(ctx context.Context, areaID string) (*domain.Area, error)
	FindByNameFunc   func(ctx context.Context, name string) ([]domain.Area, error)
	FindAllFunc      func(ctx context.Context) ([]domain.Area, error)
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockAreaRepository) Save(ctx context.Context, area *domain.Area) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, area)
	}
	return nil
}

func (m *MockAreaRepository) FindByID(ctx context.Context, id string) (*domain.Area, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAreaRepository) FindByAreaID(ctx context.Context, areaID string) (*domain.Area, error) {
	if m.FindByAreaIDFunc != nil {
		return m.FindByAreaIDFunc(ctx, areaID)
	}
	return nil, nil
}

func (m *MockAreaRepository) FindByName(ctx context.Context, name string) ([]domain.Area, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return []domain.Area{}, nil
}

func (m *MockAreaRepository) FindAll(ctx context.Context) ([]domain.Area, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.Area{}, nil
}

func (m *MockAreaRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockSensorRepository is a mock implementation of SensorRepository
type MockSensorRepository struct {
	SaveFunc           func(ctx context.Context, sensor *domain.Sensor) error
	FindByIDFunc       func(ctx context.Context, id string) (*domain.Sensor, error)
	FindBySensorIDFunc func(ctx context.Context, sensorID string) (*domain.Sensor, error)
	FindByNameFunc     func(ctx context.Context, name string) ([]domain.Sensor, error)
	FindByAreaFunc     func(ctx context.Context, areaID string) ([]domain.Sensor, error)
	FindAllFunc        func(ctx context.Context) ([]domain.Sensor, error)
	DeleteFunc         func(ctx context.Context, id string) error
}

func (m *MockSensorRepository) Save(ctx context.Context, sensor *domain.Sensor) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, sensor)
	}
	return nil
}

func (m *MockSensorRepository) FindByID(ctx context.Context, id string) (*domain.Sensor, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSensorRepository) FindBySensorID(ctx context.Context, sensorID string) (*domain.Sensor, error) {
	if m.FindBySensorIDFunc != nil {
		return m.FindBySensorIDFunc(ctx, sensorID)
	}
	return nil, nil
}

func (m *MockSensorRepository) FindByName(ctx context.Context, name string) ([]domain.Sensor, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return []domain.Sensor{}, nil
}

func (m *MockSensorRepository) FindByArea(ctx context.Context, areaID string) ([]domain.Sensor, error) {
	if m.FindByAreaFunc != nil {
		return m.FindByAreaFunc(ctx, areaID)
	}
	return []domain.Sensor{}, nil
}

func (m *MockSensorRepository) FindAll(ctx context.Context) ([]domain.Sensor, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.Sensor{}, nil
}

func (m *MockSensorRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockCommandLogRepository is a mock implementation of CommandLogRepository.
// Saved records are kept in Records when SaveFunc is nil.
type MockCommandLogRepository struct {
	Records           []domain.CommandRecord
	SaveFunc          func(ctx context.Context, record *domain.CommandRecord) error
	FindRecentFunc    func(ctx context.Context, limit int) ([]domain.CommandRecord, error)
	CountByIntentFunc func(ctx context.Context) (map[domain.Intent]int64, error)
	CountByStatusFunc func(ctx context.Context) (map[domain.CommandStatus]int64, error)
}

func (m *MockCommandLogRepository) Save(ctx context.Context, record *domain.CommandRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, record)
	}
	m.Records = append(m.Records, *record)
	return nil
}

func (m *MockCommandLogRepository) FindRecent(ctx context.Context, limit int) ([]domain.CommandRecord, error) {
	if m.FindRecentFunc != nil {
		return m.FindRecentFunc(ctx, limit)
	}
	return []domain.CommandRecord{}, nil
}

func (m *MockCommandLogRepository) CountByIntent(ctx context.Context) (map[domain.Intent]int64, error) {
	if m.CountByIntentFunc != nil {
		return m.CountByIntentFunc(ctx)
	}
	return map[domain.Intent]int64{}, nil
}

func (m *MockCommandLogRepository) CountByStatus(ctx context.Context) (map[domain.CommandStatus]int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return map[domain.CommandStatus]int64{}, nil
}
