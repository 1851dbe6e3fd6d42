package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/citelink/citelink/internal/corpus"
	"github.com/citelink/citelink/internal/observability"
)

// HealthCheck handles GET /health: a cheap liveness probe that never
// touches backends.
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "citelink-api",
			"version": "1.0.0",
		})
	}
}

// ReadinessCheck handles GET /ready: confirms the corpus backend is
// reachable before reporting the service ready for traffic.
func ReadinessCheck(store corpus.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
				"error":  "corpus store unavailable",
			})
		}

		return c.JSON(fiber.Map{
			"status":  "ready",
			"service": "citelink-api",
			"version": "1.0.0",
		})
	}
}

// MetricsHandler handles GET /metrics.
func MetricsHandler(metrics *observability.Metrics) fiber.Handler {
	return adaptor.HTTPHandler(metrics.Handler())
}
