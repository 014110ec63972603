package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	natsadapter "github.com/samirrijal/routekit/internal/adapters/nats"
	"github.com/samirrijal/routekit/internal/adapters/postgres"
	"github.com/samirrijal/routekit/internal/adapters/temporal"
	"github.com/samirrijal/routekit/internal/core/usecases"
	"github.com/samirrijal/routekit/internal/pkg/config"
	"github.com/samirrijal/routekit/internal/pkg/logging"
	"github.com/samirrijal/routekit/internal/workflows"
)

func main() {
	cfg, err := config.Load("routekit-usageworker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(logging.FromEnv(cfg.Telemetry.ServiceName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflowWithOptions(workflows.UsageDebitWorkflow, workflow.RegisterOptions{
		Name: workflows.UsageDebitWorkflowName,
	})
	w.RegisterActivity(&workflows.UsageActivities{
		Usage: usecases.NewUsageService(postgres.NewFeatureUsageRepo(db)),
	})

	// Bridge JetStream calculations into debit workflows.
	if cfg.NATS.Enabled {
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("nats: %v", err)
		}
		defer sub.Close()

		ledger := temporal.NewLedger(c, cfg.Temporal.TaskQueue)
		if err := sub.SubscribeRouteCalculations(ctx, ledger.RecordRouteCalculation); err != nil {
			log.Fatalf("subscribe: %v", err)
		}
		slog.Info("consuming route calculations", "stream", natsadapter.StreamRouteCalculations)
	}

	slog.Info("usage worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
