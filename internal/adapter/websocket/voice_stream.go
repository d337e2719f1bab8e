package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/ports"
)

// StreamFrame is accepted as a text frame; a bare string is treated as the
// transcript too.
type StreamFrame struct {
	Transcript string `json:"transcript"`
}

type streamError struct {
	Error string `json:"error"`
}

// VoiceStreamHandler answers every transcript (text frame) or audio clip
// (binary frame) with a VoiceResponse.
type VoiceStreamHandler struct {
	svc ports.VoiceService
	log *zap.Logger
}

func NewVoiceStreamHandler(svc ports.VoiceService, log *zap.Logger) *VoiceStreamHandler {
	return &VoiceStreamHandler{svc: svc, log: log}
}

func (h *VoiceStreamHandler) Stream(ctx context.Context, conn Conn, contentType string) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var resp *domain.VoiceResponse
		switch messageType {
		case websocket.BinaryMessage:
			resp, err = h.svc.ProcessAudio(ctx, data, contentType)
		case websocket.TextMessage:
			transcript := parseTranscript(data)
			if transcript == "" {
				err = errors.New("transcript is required")
				break
			}
			resp, err = h.svc.ProcessTranscript(ctx, transcript)
		default:
			continue
		}

		var out []byte
		if err != nil {
			h.log.Warn("Voice stream command rejected", zap.Error(err))
			out, _ = json.Marshal(streamError{Error: err.Error()})
		} else {
			out, _ = json.Marshal(resp)
		}
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			h.log.Debug("Voice stream closed", zap.Error(err))
			return
		}
	}
}

func parseTranscript(data []byte) string {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var frame StreamFrame
		if err := json.Unmarshal(data, &frame); err == nil {
			return strings.TrimSpace(frame.Transcript)
		}
	}
	return trimmed
}

// TelemetryIngestHandler accepts Telemetry JSON frames from drones.
type TelemetryIngestHandler struct {
	fleet ports.FleetService
	log   *zap.Logger
}

func NewTelemetryIngestHandler(fleet ports.FleetService, log *zap.Logger) *TelemetryIngestHandler {
	return &TelemetryIngestHandler{fleet: fleet, log: log}
}

// Ingest reads frames until the drone disconnects. Bad frames are answered
// with an error frame and do not end the session.
func (h *TelemetryIngestHandler) Ingest(ctx context.Context, conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame domain.Telemetry
		if err := json.Unmarshal(data, &frame); err != nil {
			err = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid telemetry frame"}`))
			if err != nil {
				return
			}
			continue
		}
		if err := h.fleet.RecordTelemetry(ctx, frame); err != nil {
			h.log.Warn("Telemetry rejected", zap.String("drone_id", frame.DroneID), zap.Error(err))
			out, _ := json.Marshal(streamError{Error: err.Error()})
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}
		}
	}
}

func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Register mounts /ws/voice, /ws/updates and /ws/telemetry.
func Register(app fiber.Router, hub *Hub, voice *VoiceStreamHandler, ingest *TelemetryIngestHandler) {
	app.Use("/ws", requireUpgrade)

	app.Get("/ws/updates", websocket.New(func(c *websocket.Conn) {
		hub.Serve(c)
	}))
	app.Get("/ws/voice", websocket.New(func(c *websocket.Conn) {
		voice.Stream(context.Background(), c, c.Query("content_type", "audio/webm"))
	}))
	app.Get("/ws/telemetry", websocket.New(func(c *websocket.Conn) {
		ingest.Ingest(context.Background(), c)
	}))
}
