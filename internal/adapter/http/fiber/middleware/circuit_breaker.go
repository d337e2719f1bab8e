package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/dronevox/pkg/config"
)

var errServerStatus = errors.New("handler answered with a server error")

// CircuitBreaker sheds load with 503 once handlers keep failing. Only 5xx
// outcomes count as failures.
func CircuitBreaker(cfg config.CircuitBreakerConfig, log *zap.Logger) fiber.Handler {
	cb := circuitbreaker.New(circuitbreaker.SettingsFromConfig("dronevox-api", cfg), log)

	return func(c *fiber.Ctx) error {
		var handlerErr error
		_, err := cb.Execute(func() (interface{}, error) {
			handlerErr = c.Next()
			if handlerErr != nil {
				if StatusFor(handlerErr) >= 500 {
					return nil, handlerErr
				}
				return nil, nil
			}
			if c.Response().StatusCode() >= 500 {
				return nil, errServerStatus
			}
			return nil, nil
		})

		if circuitbreaker.IsOpen(err) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Service temporarily unavailable",
			})
		}
		return handlerErr
	}
}
