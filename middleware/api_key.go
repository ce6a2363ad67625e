package middleware

import (
	"time"

	"Crane/Models"

	"github.com/gofiber/fiber/v2"
)

// VerifyAPIKey authenticates machine clients via the X-API-Key header and
// requires the given scope on the key.
func VerifyAPIKey(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-API-Key")
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Missing API key",
			})
		}

		var key Models.APIKey
		result := Models.DB.Where("key_hash = ? AND revoked = ?", Models.HashAPIKey(raw), false).First(&key)
		if result.Error != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid API key",
			})
		}

		if !key.HasScope(scope) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "API key lacks required scope",
			})
		}

		now := time.Now()
		Models.DB.Model(&key).Update("last_used_at", &now)

		c.Locals("api_key", key)
		return c.Next()
	}
}
