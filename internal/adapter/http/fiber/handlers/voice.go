package handlers

import (
	"encoding/base64"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/ports"
)

type VoiceHandler struct {
	svc ports.VoiceService
	log *zap.Logger
}

func NewVoiceHandler(svc ports.VoiceService, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		svc: svc,
		log: log,
	}
}

func (h *VoiceHandler) Register(r fiber.Router) {
	g := r.Group("/voice")
	g.Post("/interpret", h.Interpret)
	g.Post("/command", h.Command)
	g.Get("/history", h.History)
	g.Get("/stats", h.Stats)
}

type InterpretRequest struct {
	Transcript string `json:"transcript"`
}

// CommandRequest carries either a transcript or base64 audio.
type CommandRequest struct {
	Transcript  string `json:"transcript"`
	Audio       string `json:"audio"`
	ContentType string `json:"content_type"`
}

// Interpret never rejects a transcript for its content; unknown text yields
// an unknown command.
func (h *VoiceHandler) Interpret(c *fiber.Ctx) error {
	var req InterpretRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	return c.JSON(h.svc.Interpret(req.Transcript))
}

func (h *VoiceHandler) Command(c *fiber.Ctx) error {
	var (
		resp *domain.VoiceResponse
		err  error
	)

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		resp, err = h.commandFromUpload(c)
	} else {
		var req CommandRequest
		if perr := c.BodyParser(&req); perr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		switch {
		case req.Audio != "":
			audio, derr := base64.StdEncoding.DecodeString(req.Audio)
			if derr != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid base64 audio")
			}
			resp, err = h.svc.ProcessAudio(c.UserContext(), audio, req.ContentType)
		case strings.TrimSpace(req.Transcript) != "":
			resp, err = h.svc.ProcessTranscript(c.UserContext(), req.Transcript)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "transcript or audio is required")
		}
	}
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if resp.Status == domain.CommandStatusFailed {
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(resp)
}

func (h *VoiceHandler) commandFromUpload(c *fiber.Ctx) (*domain.VoiceResponse, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "multipart field \"file\" is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	audio, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return h.svc.ProcessAudio(c.UserContext(), audio, fh.Header.Get(fiber.HeaderContentType))
}

func (h *VoiceHandler) History(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	records, err := h.svc.History(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (h *VoiceHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.svc.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
