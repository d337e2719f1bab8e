package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/mocks"
)

func TestReady_AllHealthy(t *testing.T) {
	svc := NewService(&Config{
		Version:   "1.0.0",
		Cache:     mocks.NewMockCache(),
		Queue:     mocks.NewMockMessageQueue(),
		QueueName: "mqtt",
	}, zap.NewNop())

	resp := svc.Ready(context.Background())

	assert.True(t, resp.Ready)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Contains(t, resp.Checks, "cache")
	assert.Contains(t, resp.Checks, "mqtt")
}

func TestReady_QueueDown(t *testing.T) {
	mq := mocks.NewMockMessageQueue()
	mq.PingFunc = func() error { return errors.New("not connected") }
	svc := NewService(&Config{Queue: mq}, zap.NewNop())

	resp := svc.Ready(context.Background())

	assert.False(t, resp.Ready)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Equal(t, StatusUnhealthy, resp.Checks["queue"].Status)
	assert.Contains(t, resp.Checks["queue"].Message, "not connected")
}

func TestReady_DegradedStaysReady(t *testing.T) {
	svc := NewService(&Config{}, zap.NewNop())
	svc.RegisterChecker("transcription", func(ctx context.Context) CheckResult {
		return CheckResult{Name: "transcription", Status: StatusDegraded}
	})

	resp := svc.Ready(context.Background())

	assert.True(t, resp.Ready)
	assert.Equal(t, StatusDegraded, resp.Status)
}

func TestFiberHandler_Ready503(t *testing.T) {
	// Arrange
	mq := mocks.NewMockMessageQueue()
	mq.PingFunc = func() error { return errors.New("down") }
	app := fiber.New()
	NewFiberHandler(NewService(&Config{Queue: mq}, zap.NewNop())).RegisterRoutes(app)

	// Act
	resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var ready ReadyResponse
	require.NoError(t, json.Unmarshal(body, &ready))
	assert.False(t, ready.Ready)
}

func TestFiberHandler_Health(t *testing.T) {
	app := fiber.New()
	NewFiberHandler(NewService(&Config{Version: "0.1.0"}, zap.NewNop())).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestFiberHandler_SingleCheck(t *testing.T) {
	mq := mocks.NewMockMessageQueue()
	mq.PingFunc = func() error { return errors.New("down") }
	app := fiber.New()
	NewFiberHandler(NewService(&Config{Cache: mocks.NewMockCache(), Queue: mq, QueueName: "nats"}, zap.NewNop())).RegisterRoutes(app)

	tests := []struct {
		path string
		want int
	}{
		{"/ready/cache", fiber.StatusOK},
		{"/ready/nats", fiber.StatusServiceUnavailable},
		{"/ready/database", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
