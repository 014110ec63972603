package http

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// RequestIDLogMiddleware puts a logger tagged with the request ID into the
// user context and stamps the ID on the active span.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		if rid == "" {
			return c.Next()
		}

		ctx := c.UserContext()
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("http.request_id", rid))
		c.SetUserContext(context.WithValue(ctx, loggerKey, slog.Default().With("request_id", rid)))

		return c.Next()
	}
}

// LoggerFromCtx extracts the per-request slog.Logger from a context.
// Falls back to the default logger if none is set.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
