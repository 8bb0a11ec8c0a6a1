package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/env"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/router"
)

// APIKey guards every REST endpoint. Leaving it unset disables auth, which
// is only acceptable on a loopback deployment.
var APIKey string

func init() {
	APIKey, _ = env.GetEnvString("API_KEY")
}

// APIKeyAuth validates the X-Api-Key header against the configured key.
func APIKeyAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if APIKey == "" {
			return c.Next()
		}

		apiKey := c.Get("X-Api-Key")
		if apiKey == "" {
			return router.ResponseUnauthorized(c, "Missing X-Api-Key header")
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(APIKey)) != 1 {
			return router.ResponseUnauthorized(c, "Invalid API key")
		}

		return c.Next()
	}
}
