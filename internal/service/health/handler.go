package health

import (
	"github.com/gofiber/fiber/v2"
)

// FiberHandler serves the liveness and readiness probes.
type FiberHandler struct {
	svc *Service
}

func NewFiberHandler(svc *Service) *FiberHandler {
	return &FiberHandler{svc: svc}
}

// RegisterRoutes mounts the probes at the application root, outside /api/v1,
// so they bypass the rate limiter and circuit breaker groups.
func (h *FiberHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.liveness)
	app.Get("/healthz", h.liveness)
	app.Get("/ready", h.readiness)
	app.Get("/readyz", h.readiness)
	app.Get("/ready/:check", h.single)
}

func (h *FiberHandler) liveness(c *fiber.Ctx) error {
	return c.JSON(h.svc.Health(c.UserContext()))
}

func (h *FiberHandler) readiness(c *fiber.Ctx) error {
	resp := h.svc.Ready(c.UserContext())
	if !resp.Ready {
		c.Status(fiber.StatusServiceUnavailable)
	}
	return c.JSON(resp)
}

// single runs one named dependency check, e.g. /ready/database.
func (h *FiberHandler) single(c *fiber.Ctx) error {
	result, ok := h.svc.Check(c.UserContext(), c.Params("check"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown check")
	}
	if result.Status == StatusUnhealthy {
		c.Status(fiber.StatusServiceUnavailable)
	}
	return c.JSON(result)
}
