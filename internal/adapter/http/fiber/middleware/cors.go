package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/pkg/config"
)

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ",")
}

// NewCORS builds the CORS middleware for the dashboard. Credentials are
// refused with a wildcard origin since browsers reject that combination.
func NewCORS(cfg config.CORSConfig, log *zap.Logger) fiber.Handler {
	origins := joinOr(cfg.AllowedOrigins, "*")
	credentials := cfg.Credentials
	if credentials && strings.Contains(origins, "*") {
		log.Warn("CORS credentials disabled for wildcard origin")
		credentials = false
	}

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 86400
	}

	return fibercors.New(fibercors.Config{
		AllowOrigins:     origins,
		AllowMethods:     joinOr(cfg.AllowedMethods, "GET,POST,PUT,DELETE,OPTIONS"),
		AllowHeaders:     joinOr(cfg.AllowedHeaders, "Origin,Content-Type,Accept"),
		ExposeHeaders:    joinOr(cfg.ExposeHeaders, "Content-Length"),
		AllowCredentials: credentials,
		MaxAge:           maxAge,
	})
}
