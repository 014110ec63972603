package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/routekit/internal/adapters/http"
	natsadapter "github.com/samirrijal/routekit/internal/adapters/nats"
	"github.com/samirrijal/routekit/internal/adapters/postgres"
	"github.com/samirrijal/routekit/internal/adapters/valkey"
	"github.com/samirrijal/routekit/internal/core/ports"
	"github.com/samirrijal/routekit/internal/core/usecases"
	"github.com/samirrijal/routekit/internal/pkg/auth"
	"github.com/samirrijal/routekit/internal/pkg/config"
	"github.com/samirrijal/routekit/internal/pkg/logging"
	"github.com/samirrijal/routekit/internal/pkg/metrics"
	"github.com/samirrijal/routekit/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("routekit-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(logging.FromEnv(cfg.Telemetry.ServiceName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache. pathCache stays a nil interface while valkey is down.
	var pathCache ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, path cache disabled", "error", err)
	} else {
		defer cache.Close()
		pathCache = cache
	}

	usageRepo := postgres.NewFeatureUsageRepo(db)
	usageSvc := usecases.NewUsageService(usageRepo)

	// Usage ledger: JetStream when available, in-process retries otherwise.
	var (
		ledger   ports.UsageLedger
		local    *usecases.RetryingLedger
		natsConn *nats.Conn
	)
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, debiting in process", "error", err)
		} else {
			defer pub.Close()
			ledger = pub
			natsConn = pub.Conn()
		}
	}
	if ledger == nil {
		local = usecases.NewRetryingLedger(usageSvc)
		ledger = local
	}

	tokens, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TTL())
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	deps := &http.Dependencies{
		Auth:      usecases.NewAuthService(postgres.NewUserRepo(db), tokens),
		Usage:     usageSvc,
		Waypoints: usecases.NewWaypointService(usageRepo, pathCache, ledger, cfg.Waypoints.CacheTTL),
		Limits:    cfg.Waypoints,
		NATS:      natsConn,
		DB:        db,
		Cache:     cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "routekit API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "ETag, Deprecation, Sunset, Link, X-Request-ID",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	if local != nil {
		slog.Info("waiting for pending usage debits")
		local.Wait()
	}

	slog.Info("server stopped")
}

// reportPoolStats refreshes the pool gauges until ctx is done.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
