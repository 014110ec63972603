package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Version is reported by the health endpoint; set at build time with -ldflags.
var Version = "dev"

const readyTimeout = 3 * time.Second

var errDisconnected = errors.New("disconnected")

// dependencyCheck probes one backing service. A nil probe means the service
// is not configured. Only required checks can fail readiness.
type dependencyCheck struct {
	name     string
	required bool
	probe    func(ctx context.Context) error
}

func readinessChecks(deps *Dependencies) []dependencyCheck {
	checks := []dependencyCheck{
		{name: "database", required: true},
		{name: "nats"},
		{name: "cache"},
	}
	if deps.DB != nil {
		checks[0].probe = deps.DB.Pool.Ping
	}
	if deps.NATS != nil {
		checks[1].probe = func(context.Context) error {
			if !deps.NATS.IsConnected() {
				return errDisconnected
			}
			return nil
		}
	}
	if deps.Cache != nil {
		checks[2].probe = deps.Cache.Ping
	}
	return checks
}

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": Version,
		})
	}
}

// ReadyHandler reports the state of every backing service. The broker and
// cache have in-process fallbacks, so only the database gates readiness.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	checks := readinessChecks(deps)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
		defer cancel()

		results := make(map[string]string, len(checks))
		ready := true
		for _, chk := range checks {
			status := "ok"
			if chk.probe == nil {
				status = "not configured"
			} else if err := chk.probe(ctx); err != nil {
				status = "error: " + err.Error()
			}
			results[chk.name] = status
			if status != "ok" && chk.required {
				ready = false
			}
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
				"checks": results,
			})
		}
		return c.JSON(fiber.Map{"status": "ready", "checks": results})
	}
}
