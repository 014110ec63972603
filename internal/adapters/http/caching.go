package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers unless the handler already did.
// Optimizations and sign-in responses are never stored; per-user reads are private.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		if c.Method() != fiber.MethodGet {
			c.Set(fiber.HeaderCacheControl, "no-store")
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache"

		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=3600"

		case path == "/v1/auth/user" || strings.HasPrefix(path, "/v1/users/me"):
			ttl = "private, no-cache" // Revalidate with ETag; quota changes per request
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
