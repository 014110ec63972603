// Package temporal starts usage debit workflows.
package temporal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/workflows"
)

// Starter is the part of client.Client used by Ledger.
type Starter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// Ledger implements ports.UsageLedger by starting one UsageDebitWorkflow per calculation.
type Ledger struct {
	client    Starter
	taskQueue string
}

func NewLedger(c Starter, taskQueue string) *Ledger {
	return &Ledger{client: c, taskQueue: taskQueue}
}

// RecordRouteCalculation starts the debit workflow. A workflow already started
// for the same calculation counts as recorded.
func (l *Ledger) RecordRouteCalculation(ctx context.Context, calc *domain.RouteCalculation) error {
	input := workflows.UsageDebitInput{
		CalculationID: calc.ID,
		UserID:        calc.UserID,
		Amount:        1,
	}
	opts := client.StartWorkflowOptions{
		ID:                                       input.WorkflowID(),
		TaskQueue:                                l.taskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}

	run, err := l.client.ExecuteWorkflow(ctx, opts, workflows.UsageDebitWorkflowName, input)
	var already *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &already) {
		slog.DebugContext(ctx, "usage debit already started", "workflow_id", opts.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("start usage debit: %w", err)
	}

	slog.DebugContext(ctx, "usage debit started", "workflow_id", run.GetID(), "run_id", run.GetRunID())
	return nil
}
