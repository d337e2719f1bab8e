package fleet

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/mocks"
	"github.com/seu-repo/dronevox/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func floatPtr(f float64) *float64 { return &f }

type registry struct {
	drones  []domain.Drone
	areas   []domain.Area
	sensors []domain.Sensor
}

func (r *registry) droneRepo() *mocks.MockDroneRepository {
	return &mocks.MockDroneRepository{
		FindByNameFunc: func(ctx context.Context, name string) ([]domain.Drone, error) {
			var out []domain.Drone
			for _, d := range r.drones {
				if strings.EqualFold(d.Name, name) {
					out = append(out, d)
				}
			}
			return out, nil
		},
		FindAllFunc: func(ctx context.Context) ([]domain.Drone, error) {
			return r.drones, nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Drone, error) {
			for i := range r.drones {
				if r.drones[i].ID == id {
					return &r.drones[i], nil
				}
			}
			return nil, nil
		},
		FindByDroneIDFunc: func(ctx context.Context, droneID string) (*domain.Drone, error) {
			for i := range r.drones {
				if r.drones[i].DroneID == droneID {
					return &r.drones[i], nil
				}
			}
			return nil, nil
		},
	}
}

func (r *registry) areaRepo() *mocks.MockAreaRepository {
	return &mocks.MockAreaRepository{
		FindByNameFunc: func(ctx context.Context, name string) ([]domain.Area, error) {
			var out []domain.Area
			for _, a := range r.areas {
				if strings.EqualFold(a.Name, name) {
					out = append(out, a)
				}
			}
			return out, nil
		},
		FindAllFunc: func(ctx context.Context) ([]domain.Area, error) {
			return r.areas, nil
		},
		FindByAreaIDFunc: func(ctx context.Context, areaID string) (*domain.Area, error) {
			for i := range r.areas {
				if r.areas[i].AreaID == areaID {
					return &r.areas[i], nil
				}
			}
			return nil, nil
		},
	}
}

func (r *registry) sensorRepo() *mocks.MockSensorRepository {
	return &mocks.MockSensorRepository{
		FindByNameFunc: func(ctx context.Context, name string) ([]domain.Sensor, error) {
			var out []domain.Sensor
			for _, s := range r.sensors {
				if strings.EqualFold(s.Name, name) {
					out = append(out, s)
				}
			}
			return out, nil
		},
		FindAllFunc: func(ctx context.Context) ([]domain.Sensor, error) {
			return r.sensors, nil
		},
	}
}

func defaultRegistry() *registry {
	return &registry{
		drones: []domain.Drone{
			{ID: "d1", Name: "Red Falcon", DroneID: "DR001", AreaID: "A001"},
			{ID: "d2", Name: "Hawk", DroneID: "DR002", AreaID: "A001"},
			{ID: "d3", Name: "Tiger", DroneID: "DR003", AreaID: "A002"},
		},
		areas: []domain.Area{
			{ID: "a1", Name: "Sector Alpha", AreaID: "A001", Latitude: floatPtr(28.60), Longitude: floatPtr(77.14)},
			{ID: "a2", Name: "North Ridge", AreaID: "A002"},
			{ID: "a3", Name: "Betta", AreaID: "A003"},
		},
		sensors: []domain.Sensor{
			{ID: "s1", Name: "Beta", SensorID: "S001", AreaID: "A002", Latitude: 28.7, Longitude: 77.2},
			{ID: "s2", Name: "Sector Alpha", SensorID: "S002", AreaID: "A001", Latitude: 1, Longitude: 2},
		},
	}
}

func newService(r *registry, cache *mocks.MockCache, hub *mocks.MockBroadcaster) *Service {
	var b ports.Broadcaster
	if hub != nil {
		b = hub
	}
	return NewService(r.droneRepo(), r.areaRepo(), r.sensorRepo(), cache, b,
		Options{ResolveTTL: time.Minute, Fuzzy: true}, newTestLogger())
}

func TestResolveDrone(t *testing.T) {
	tests := []struct {
		name    string
		spoken  string
		wantID  string
		wantErr error
	}{
		{"exact case-insensitive", "red falcon", "d1", nil},
		{"extra whitespace", "  RED   falcon ", "d1", nil},
		{"noise word dropped", "red falcon drone", "d1", nil},
		{"fuzzy within limit", "red falkon", "d1", nil},
		{"short name fuzzy", "hawc", "d2", nil},
		{"short name too far", "hulk", "", domain.ErrDroneNotFound},
		{"unknown", "eagle", "", domain.ErrDroneNotFound},
		{"empty", "   ", "", domain.ErrDroneNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			svc := newService(defaultRegistry(), mocks.NewMockCache(), nil)

			// Act
			drone, err := svc.ResolveDrone(context.Background(), tt.spoken)

			// Assert
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if drone.ID != tt.wantID {
				t.Errorf("expected drone %s, got %s", tt.wantID, drone.ID)
			}
		})
	}
}

func TestResolveDrone_AmbiguousExact(t *testing.T) {
	r := defaultRegistry()
	r.drones = append(r.drones, domain.Drone{ID: "d4", Name: "hawk", DroneID: "DR004"})
	svc := newService(r, mocks.NewMockCache(), nil)

	_, err := svc.ResolveDrone(context.Background(), "Hawk")

	if !errors.Is(err, domain.ErrAmbiguousName) {
		t.Fatalf("expected ErrAmbiguousName, got %v", err)
	}
}

func TestResolveDrone_AmbiguousFuzzyTie(t *testing.T) {
	r := &registry{drones: []domain.Drone{
		{ID: "x", Name: "Hawk"},
		{ID: "y", Name: "Hawx"},
	}}
	svc := newService(r, mocks.NewMockCache(), nil)

	_, err := svc.ResolveDrone(context.Background(), "hawq")

	if !errors.Is(err, domain.ErrAmbiguousName) {
		t.Fatalf("expected ErrAmbiguousName, got %v", err)
	}
}

func TestResolveDrone_FuzzyDisabled(t *testing.T) {
	r := defaultRegistry()
	svc := NewService(r.droneRepo(), r.areaRepo(), r.sensorRepo(), mocks.NewMockCache(), nil,
		Options{Fuzzy: false}, newTestLogger())

	_, err := svc.ResolveDrone(context.Background(), "red falkon")

	if !errors.Is(err, domain.ErrDroneNotFound) {
		t.Fatalf("expected ErrDroneNotFound, got %v", err)
	}
}

func TestResolveDrone_CacheHit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	r := defaultRegistry()
	cache := mocks.NewMockCache()
	_ = cache.Set(ctx, "resolve:drone:falcon one", "d3", time.Minute)

	drones := r.droneRepo()
	drones.FindByNameFunc = func(ctx context.Context, name string) ([]domain.Drone, error) {
		t.Error("repository lookup should be skipped on cache hit")
		return nil, nil
	}
	svc := NewService(drones, r.areaRepo(), r.sensorRepo(), cache, nil, Options{ResolveTTL: time.Minute}, newTestLogger())

	// Act
	drone, err := svc.ResolveDrone(ctx, "Falcon One")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if drone.ID != "d3" {
		t.Errorf("expected cached drone d3, got %s", drone.ID)
	}
}

func TestResolveDrone_StoresResolution(t *testing.T) {
	ctx := context.Background()
	cache := mocks.NewMockCache()
	svc := newService(defaultRegistry(), cache, nil)

	if _, err := svc.ResolveDrone(ctx, "red falkon"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := cache.Get(ctx, "resolve:drone:red falkon")
	if err != nil {
		t.Fatalf("expected cached entry, got %v", err)
	}
	if got != "d1" {
		t.Errorf("expected cached id d1, got %q", got)
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name       string
		spoken     string
		wantKind   domain.TargetKind
		wantArea   string
		wantSensor string
		wantErr    error
	}{
		{"area before sensor with same name", "sector alpha", domain.TargetKindArea, "A001", "", nil},
		{"sensor exact", "beta", domain.TargetKindSensor, "A002", "S001", nil},
		{"exact sensor beats fuzzy area", "BETA", domain.TargetKindSensor, "A002", "S001", nil},
		{"fuzzy area", "north rige", domain.TargetKindArea, "A002", "", nil},
		{"noise word", "north ridge now", domain.TargetKindArea, "A002", "", nil},
		{"unknown", "the moon", "", "", "", domain.ErrTargetNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(defaultRegistry(), mocks.NewMockCache(), nil)

			target, err := svc.ResolveTarget(context.Background(), tt.spoken)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if target.Kind != tt.wantKind || target.AreaID != tt.wantArea || target.SensorID != tt.wantSensor {
				t.Errorf("unexpected target %+v", target)
			}
		})
	}
}

func TestResolveTarget_SensorCarriesCoordinates(t *testing.T) {
	svc := newService(defaultRegistry(), mocks.NewMockCache(), nil)

	target, err := svc.ResolveTarget(context.Background(), "beta")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if target.Latitude == nil || *target.Latitude != 28.7 || target.Longitude == nil || *target.Longitude != 77.2 {
		t.Errorf("expected sensor coordinates, got %+v", target)
	}
}

func TestResolveTarget_CachedAsJSON(t *testing.T) {
	ctx := context.Background()
	cache := mocks.NewMockCache()
	r := defaultRegistry()
	svc := newService(r, cache, nil)

	first, err := svc.ResolveTarget(ctx, "beta")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Drop the sensor; the cached resolution still answers within the TTL.
	r.sensors = nil
	second, err := svc.ResolveTarget(ctx, "beta")
	if err != nil {
		t.Fatalf("expected cached target, got %v", err)
	}
	if second.SensorID != first.SensorID {
		t.Errorf("expected %s, got %s", first.SensorID, second.SensorID)
	}
}

func TestCreateDrone(t *testing.T) {
	t.Run("assigns id and idle status", func(t *testing.T) {
		r := defaultRegistry()
		var saved *domain.Drone
		drones := r.droneRepo()
		drones.SaveFunc = func(ctx context.Context, d *domain.Drone) error {
			saved = d
			return nil
		}
		svc := NewService(drones, r.areaRepo(), r.sensorRepo(), mocks.NewMockCache(), nil, Options{}, newTestLogger())

		err := svc.CreateDrone(context.Background(), &domain.Drone{Name: " Eagle ", DroneID: "DR009", AreaID: "A001"})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if saved == nil || saved.ID == "" || saved.Status != domain.DroneStatusIdle || saved.Name != "Eagle" {
			t.Errorf("unexpected saved drone %+v", saved)
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc := newService(defaultRegistry(), mocks.NewMockCache(), nil)
		err := svc.CreateDrone(context.Background(), &domain.Drone{Name: "Eagle"})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("rejects duplicate drone id", func(t *testing.T) {
		svc := newService(defaultRegistry(), mocks.NewMockCache(), nil)
		err := svc.CreateDrone(context.Background(), &domain.Drone{Name: "Dup", DroneID: "DR001", AreaID: "A001"})
		if !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("rejects unknown area", func(t *testing.T) {
		svc := newService(defaultRegistry(), mocks.NewMockCache(), nil)
		err := svc.CreateDrone(context.Background(), &domain.Drone{Name: "Eagle", DroneID: "DR010", AreaID: "A999"})
		if !errors.Is(err, domain.ErrAreaNotFound) {
			t.Fatalf("expected ErrAreaNotFound, got %v", err)
		}
	})
}

func TestGetDrone_NotFound(t *testing.T) {
	svc := newService(defaultRegistry(), mocks.NewMockCache(), nil)

	_, err := svc.GetDrone(context.Background(), "missing")

	if !errors.Is(err, domain.ErrDroneNotFound) {
		t.Fatalf("expected ErrDroneNotFound, got %v", err)
	}
}

func TestDeleteDrone_InvalidatesResolution(t *testing.T) {
	ctx := context.Background()
	cache := mocks.NewMockCache()
	svc := newService(defaultRegistry(), cache, nil)
	if _, err := svc.ResolveDrone(ctx, "Red Falcon"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.DeleteDrone(ctx, "d1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := cache.Get(ctx, "resolve:drone:red falcon"); err == nil {
		t.Error("expected cache entry to be removed")
	}
}

func TestRecordTelemetry(t *testing.T) {
	// Arrange
	ctx := context.Background()
	r := defaultRegistry()
	hub := &mocks.MockBroadcaster{}
	var gotStatus domain.DroneStatus
	drones := r.droneRepo()
	drones.UpdateStatusFunc = func(ctx context.Context, droneID string, status domain.DroneStatus, seen time.Time) error {
		gotStatus = status
		return nil
	}
	svc := NewService(drones, r.areaRepo(), r.sensorRepo(), mocks.NewMockCache(), hub, Options{}, newTestLogger())

	// Act
	err := svc.RecordTelemetry(ctx, domain.Telemetry{DroneID: "DR001", Latitude: 28.6, Longitude: 77.1})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotStatus != domain.DroneStatusInFlight {
		t.Errorf("expected default status InFlight, got %s", gotStatus)
	}
	if hub.Count("telemetry") != 1 {
		t.Errorf("expected one telemetry broadcast, got %d", hub.Count("telemetry"))
	}
}

func TestRecordTelemetry_UnknownDrone(t *testing.T) {
	svc := newService(defaultRegistry(), mocks.NewMockCache(), nil)

	err := svc.RecordTelemetry(context.Background(), domain.Telemetry{DroneID: "ghost"})

	if !errors.Is(err, domain.ErrDroneNotFound) {
		t.Fatalf("expected ErrDroneNotFound, got %v", err)
	}
}
