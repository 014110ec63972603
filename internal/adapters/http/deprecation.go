package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DeprecatedRoute marks an endpoint as deprecated with sunset date.
type DeprecatedRoute struct {
	Path        string    // Route pattern, ":name" segments match anything
	SunsetDate  time.Time // Date when endpoint will be removed
	Alternative string    // Recommended alternative endpoint (optional)
}

// DeprecationMiddleware adds Deprecation, Sunset, and Link headers to deprecated endpoints.
func DeprecationMiddleware(deprecated []DeprecatedRoute) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, d := range deprecated {
			if !matchPattern(c.Path(), d.Path) {
				continue
			}

			// RFC 8594
			c.Set("Deprecation", "true")
			c.Set("Sunset", d.SunsetDate.UTC().Format(time.RFC1123))

			if d.Alternative != "" {
				c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, d.Alternative))
			}

			days := time.Until(d.SunsetDate).Hours() / 24
			c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))
			break
		}

		return c.Next()
	}
}

// matchPattern reports whether path matches pattern segment by segment.
// "/v1/stops/:id" matches "/v1/stops/abc-123".
func matchPattern(path, pattern string) bool {
	if path == pattern {
		return true
	}

	ps := strings.Split(strings.Trim(path, "/"), "/")
	pp := strings.Split(strings.Trim(pattern, "/"), "/")
	if len(ps) != len(pp) {
		return false
	}
	for i := range pp {
		if strings.HasPrefix(pp[i], ":") && ps[i] != "" {
			continue
		}
		if pp[i] != ps[i] {
			return false
		}
	}
	return true
}
