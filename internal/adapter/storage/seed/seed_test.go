package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/mocks"
)

const fleetYAML = `
areas:
  - name: Alpha Field
    area_id: A-1
    latitude: -23.55
    longitude: -46.63
  - name: Bravo
    area_id: A-2
sensors:
  - name: North Gate
    sensor_id: S-1
    area_id: A-1
    latitude: -23.54
    longitude: -46.62
drones:
  - name: Red Falcon
    drone_id: D-1
    area_id: A-1
    usb_address: /dev/ttyUSB0
    camera_feed: rtsp://cam/1
  - name: Hawk
    drone_id: D-2
    area_id: A-2
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(fleetYAML))

	require.NoError(t, err)
	require.Len(t, f.Areas, 2)
	require.NotNil(t, f.Areas[0].Latitude)
	assert.InDelta(t, -23.55, *f.Areas[0].Latitude, 1e-9)
	assert.Nil(t, f.Areas[1].Latitude)
	assert.Equal(t, "/dev/ttyUSB0", f.Drones[0].USBAddress)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"malformed":          "areas: [",
		"area without id":    "areas:\n  - name: Alpha\n",
		"drone without area": "drones:\n  - name: Hawk\n    drone_id: D-1\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoader_ApplySkipsExisting(t *testing.T) {
	// Arrange
	var areas []*domain.Area
	var drones []*domain.Drone
	var sensors []*domain.Sensor
	areaRepo := &mocks.MockAreaRepository{
		FindByAreaIDFunc: func(ctx context.Context, areaID string) (*domain.Area, error) {
			if areaID == "A-2" {
				return &domain.Area{AreaID: "A-2"}, nil
			}
			return nil, nil
		},
		SaveFunc: func(ctx context.Context, a *domain.Area) error {
			areas = append(areas, a)
			return nil
		},
	}
	sensorRepo := &mocks.MockSensorRepository{
		SaveFunc: func(ctx context.Context, s *domain.Sensor) error {
			sensors = append(sensors, s)
			return nil
		},
	}
	droneRepo := &mocks.MockDroneRepository{
		SaveFunc: func(ctx context.Context, d *domain.Drone) error {
			drones = append(drones, d)
			return nil
		},
	}
	f, err := Parse([]byte(fleetYAML))
	require.NoError(t, err)

	// Act
	res, err := NewLoader(areaRepo, sensorRepo, droneRepo, zap.NewNop()).Apply(context.Background(), f)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &Result{Areas: 1, Sensors: 1, Drones: 2}, res)
	require.Len(t, areas, 1)
	assert.Equal(t, "A-1", areas[0].AreaID)
	assert.NotEmpty(t, areas[0].ID)
	require.Len(t, drones, 2)
	assert.Equal(t, domain.DroneStatusIdle, drones[0].Status)
	require.NotNil(t, drones[0].CameraFeed)
	assert.Equal(t, "rtsp://cam/1", *drones[0].CameraFeed)
	assert.Nil(t, drones[1].CameraFeed)
	assert.Equal(t, "S-1", sensors[0].SensorID)
}

func TestLoader_LoadFile(t *testing.T) {
	loader := NewLoader(&mocks.MockAreaRepository{}, &mocks.MockSensorRepository{}, &mocks.MockDroneRepository{}, zap.NewNop())

	res, err := loader.LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Result{}, res)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fleetYAML), 0o600))
	res, err = loader.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Areas)
}
