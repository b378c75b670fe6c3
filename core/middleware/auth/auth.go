package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Header is where clients present the API key.
const Header = "X-API-Key"

// Config holds configuration for the API key middleware.
type Config struct {
	ApiKey string
}

// New returns a middleware that rejects requests lacking the configured
// API key. An empty configured key rejects everything rather than turning
// the check off silently.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		presented := c.Get(Header)
		if cfg.ApiKey == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing api key",
			})
		}
		return c.Next()
	}
}
