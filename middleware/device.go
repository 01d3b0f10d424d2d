// middleware/device_auth.go
package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DeviceAuthMiddleware validates the shared token the scoreboard device
// sends on mutating requests. When DEVICE_TOKEN is unset the check is
// disabled and every request passes through (open deployments on a LAN).
func DeviceAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("DEVICE_TOKEN")
	if expectedToken == "" {
		log.Println("[device_auth] DEVICE_TOKEN not set — ingestion endpoints are open")
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		token := c.Get("X-Device-Token")
		if token == "" {
			authHeader := c.Get("Authorization")
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if token != expectedToken {
			log.Printf("[device_auth] rejected request to %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid device token",
			})
		}
		return c.Next()
	}
}
