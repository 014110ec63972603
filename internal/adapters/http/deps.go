package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/routekit/internal/adapters/postgres"
	"github.com/samirrijal/routekit/internal/adapters/valkey"
	"github.com/samirrijal/routekit/internal/core/usecases"
	"github.com/samirrijal/routekit/internal/pkg/config"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Auth      *usecases.AuthService
	Usage     *usecases.UsageService
	Waypoints *usecases.WaypointService
	// Limits bounds optimization requests; zero fields mean unbounded.
	Limits config.WaypointsConfig
	NATS   *nats.Conn
	DB     *postgres.DB
	Cache  *valkey.Cache
}
