package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/domain"
)

// StatusFor maps an error to the HTTP status the API answers with.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrDroneNotFound),
		errors.Is(err, domain.ErrAreaNotFound),
		errors.Is(err, domain.ErrSensorNotFound),
		errors.Is(err, domain.ErrTargetNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAmbiguousName),
		errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyAudio),
		errors.Is(err, domain.ErrIncompleteCommand):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAudioTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrTranscriberUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := StatusFor(err)

		msg := err.Error()
		if code == fiber.StatusInternalServerError {
			log.Error("Internal Server Error", zap.Error(err), zap.String("path", c.Path()))
			msg = "internal server error"
		} else if code >= 500 {
			log.Warn("Upstream failure", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": msg,
		})
	}
}
