package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/samirrijal/routekit/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// LegacyWaypointsSunset is when the unversioned /waypoints alias goes away.
var LegacyWaypointsSunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// SetupRoutes registers all REST and GraphQL routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	auth := AuthMiddleware(deps)

	v1 := app.Group("/v1")
	v1.Post("/auth/sign-in", timeout.NewWithContext(SignInHandler(deps), requestTimeout))
	v1.Get("/auth/user", auth, CurrentUserHandler(deps))
	v1.Get("/users/me/usage", auth, timeout.NewWithContext(UsageHandler(deps), requestTimeout))
	v1.Post("/waypoints", auth, timeout.NewWithContext(OptimizeWaypointsHandler(deps), requestTimeout))

	// Unversioned alias kept for existing clients
	app.Post("/waypoints",
		DeprecationMiddleware([]DeprecatedRoute{{
			Path:        "/waypoints",
			SunsetDate:  LegacyWaypointsSunset,
			Alternative: "/v1/waypoints",
		}}),
		auth,
		timeout.NewWithContext(OptimizeWaypointsHandler(deps), requestTimeout),
	)

	app.Post("/graphql", auth, timeout.NewWithContext(GraphQLHandler(deps), requestTimeout))

	// API documentation (Swagger UI)
	SetupDocs(app)
}
