package server

import (
	"storage-init/core/bootstrap"
	"storage-init/core/logger"
	"storage-init/core/middleware/auth"
	"storage-init/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// New builds the status server. /healthz answers 503 until the bootstrap
// reaches Done and 200 after, which is the health-check flavor of the
// completion signal: a launcher polling it observes Done before routing
// traffic to the application. /status exposes the full run result and is
// protected by the API key.
func New(cfg Config, apiKey string, orch *bootstrap.Orchestrator, logg *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We log our own startup message
	})

	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		result, finished := orch.Result()
		switch {
		case !finished:
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "initializing",
				"state":  orch.State(),
			})
		case result.Outcome != bootstrap.OutcomeSuccess:
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "failed",
				"reason": result.Reason,
			})
		default:
			return c.JSON(fiber.Map{"status": "ok"})
		}
	})

	status := app.Group("/status", auth.New(auth.Config{ApiKey: apiKey}))
	status.Get("/", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"state":        orch.State(),
			"bucket_state": orch.BucketState(),
		}
		if result, finished := orch.Result(); finished {
			body["outcome"] = result.Outcome
			body["backend"] = result.Backend
			body["bucket"] = result.Bucket
			body["attempts"] = result.Attempts
			body["duration_ms"] = result.Duration.Milliseconds()
			if result.Reason != "" {
				body["reason"] = result.Reason
			}
		}
		return c.JSON(body)
	})

	return app
}
