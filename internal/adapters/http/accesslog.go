package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AccessLogMiddleware writes one structured record per request. The message is
// the matched route pattern so optimizations for different users aggregate.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
			slog.Int("bytes_in", len(c.Body())),
			slog.Int("bytes_out", len(c.Response().Body())),
			slog.String("request_id", requestID(c)),
		}
		if u := currentUser(c); u != nil {
			attrs = append(attrs, slog.String("user_id", u.ID))
		}
		if dep := c.GetRespHeader("Deprecation"); dep != "" {
			attrs = append(attrs, slog.Bool("deprecated", true))
		}

		level := accessLevel(status)
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
			level = slog.LevelError
		}

		slog.LogAttrs(c.UserContext(), level, c.Method()+" "+c.Route().Path, attrs...)
		return err
	}
}

func accessLevel(status int) slog.Level {
	switch {
	case status >= fiber.StatusInternalServerError:
		return slog.LevelError
	case status >= fiber.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func requestID(c *fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		return rid
	}
	return c.Get(fiber.HeaderXRequestID, "unknown")
}
