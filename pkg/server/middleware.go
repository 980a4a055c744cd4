package server

import (
	"crypto/subtle"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/truthscan/truthscan/pkg/config"
)

// APIKeyHeader is the header carrying the optional client credential.
const APIKeyHeader = "X-API-Key"

// versionMiddleware stamps every response with the API version.
func versionMiddleware(c fiber.Ctx) error {
	err := c.Next()
	c.Set("X-API-Version", config.APIVersion)
	return err
}

// latencyMiddleware logs per-request latency and exposes it as a
// response header for external monitoring.
func latencyMiddleware(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	elapsed := time.Since(start)
	c.Set("X-Process-Time", elapsed.String())
	log.Printf("%s %s -> %d (%s)", c.Method(), c.Path(), c.Response().StatusCode(), elapsed)
	return err
}

// apiKeyMiddleware rejects requests whose X-API-Key header does not
// match the configured key. Only installed when a key is configured.
func apiKeyMiddleware(key string) fiber.Handler {
	expected := []byte(key)
	return func(c fiber.Ctx) error {
		provided := []byte(c.Get(APIKeyHeader))
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": "Could not validate credentials",
			})
		}
		return c.Next()
	}
}
