package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/adapter/queue"
	"github.com/seu-repo/dronevox/internal/domain"
)

func TestStep(t *testing.T) {
	from := position{Lat: 0, Lon: 0}
	to := position{Lat: 0.01, Lon: 0} // about 1113 m north

	next, moved, arrived := step(from, to, 100)
	assert.False(t, arrived)
	assert.InDelta(t, 100, moved, 1e-6)
	assert.InDelta(t, 100/metersPerDegree, next.Lat, 1e-9)
	assert.InDelta(t, 0, next.Lon, 1e-12)

	next, _, arrived = step(from, to, 5000)
	assert.True(t, arrived)
	assert.Equal(t, to, next)
}

func newTestSimulator() *Simulator {
	return NewSimulator(&SimulatorConfig{
		DroneIDs:   []string{"D-1"},
		SpeedMPS:   1000,
		Tick:       time.Second,
		DrainPerKm: 10,
	}, queue.Msgpack, zap.NewNop())
}

func TestSimulator_SendAndRecall(t *testing.T) {
	// Arrange
	sim := newTestSimulator()
	lat, lon := 0.01, 0.0
	send, err := queue.Msgpack.Marshal(domain.DroneCommand{Event: domain.DroneEventSend, DroneID: "D-1", AreaID: "A-1", Latitude: &lat, Longitude: &lon})
	require.NoError(t, err)

	// Act
	require.NoError(t, sim.HandleCommand(send))
	first := sim.advance(time.Now())
	second := sim.advance(time.Now())

	// Assert
	require.Len(t, first, 1)
	assert.Equal(t, domain.DroneStatusInFlight, first[0].Status)
	assert.Equal(t, 90, first[0].Battery)
	assert.Equal(t, domain.DroneStatusIdle, second[0].Status)
	assert.InDelta(t, 0.01, second[0].Latitude, 1e-9)

	recall, err := queue.Msgpack.Marshal(domain.DroneCommand{Event: domain.DroneEventRecall, DroneID: "D-1"})
	require.NoError(t, err)
	require.NoError(t, sim.HandleCommand(recall))
	frames := sim.advance(time.Now())
	assert.Equal(t, domain.DroneStatusReturning, frames[0].Status)
}

func TestSimulator_IgnoresOtherDrones(t *testing.T) {
	sim := newTestSimulator()
	lat, lon := 1.0, 1.0
	data, err := queue.Msgpack.Marshal(domain.DroneCommand{Event: domain.DroneEventSend, DroneID: "D-9", Latitude: &lat, Longitude: &lon})
	require.NoError(t, err)

	require.NoError(t, sim.HandleCommand(data))
	require.NoError(t, sim.HandleCommand([]byte("garbage")))

	frames := sim.advance(time.Now())
	assert.Equal(t, domain.DroneStatusIdle, frames[0].Status)
	assert.Equal(t, 100, frames[0].Battery)
}

func TestSplitIDs(t *testing.T) {
	assert.Equal(t, []string{"D-1", "D-2"}, splitIDs(" D-1, ,D-2 "))
	assert.Nil(t, splitIDs(""))
}
