package fleet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seu-repo/dronevox/internal/adapter/queue"
	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/mocks"
)

func TestSubscribeTelemetry(t *testing.T) {
	// Arrange
	mq := mocks.NewMockMessageQueue()
	var handler func([]byte) error
	mq.SubscribeFunc = func(topic string, h func([]byte) error) error {
		assert.Equal(t, "drone/telemetry", topic)
		handler = h
		return nil
	}
	var frames []domain.Telemetry
	svc := &mocks.MockFleetService{
		RecordTelemetryFunc: func(ctx context.Context, tm domain.Telemetry) error {
			switch tm.DroneID {
			case "ghost":
				return domain.ErrDroneNotFound
			case "flaky":
				return errors.New("db timeout")
			}
			frames = append(frames, tm)
			return nil
		},
	}
	require.NoError(t, SubscribeTelemetry(context.Background(), mq, queue.Msgpack, "drone/telemetry", svc, newTestLogger()))

	encode := func(tm domain.Telemetry) []byte {
		data, err := queue.Msgpack.Marshal(tm)
		require.NoError(t, err)
		return data
	}

	// Act / Assert
	require.NotNil(t, handler)
	assert.NoError(t, handler(encode(domain.Telemetry{DroneID: "D-1", Battery: 70})))
	assert.NoError(t, handler(encode(domain.Telemetry{DroneID: "ghost"})))
	assert.NoError(t, handler([]byte{0xc1}))
	assert.Error(t, handler(encode(domain.Telemetry{DroneID: "flaky"})))

	require.Len(t, frames, 1)
	assert.Equal(t, 70, frames[0].Battery)
}
