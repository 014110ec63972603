package workflows_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/workflows"
)

type debiterFunc func(ctx context.Context, userID string, n int) error

func (f debiterFunc) Debit(ctx context.Context, userID string, n int) error { return f(ctx, userID, n) }

func runDebit(t *testing.T, d debiterFunc, input workflows.UsageDebitInput) error {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(workflows.UsageDebitWorkflow)
	env.RegisterActivity(&workflows.UsageActivities{Usage: d})

	env.ExecuteWorkflow(workflows.UsageDebitWorkflow, input)
	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	return env.GetWorkflowError()
}

func TestUsageDebitWorkflow_Success(t *testing.T) {
	var gotUser string
	var gotN int
	err := runDebit(t, func(ctx context.Context, userID string, n int) error {
		gotUser, gotN = userID, n
		return nil
	}, workflows.UsageDebitInput{CalculationID: "c1", UserID: "user-1"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUser != "user-1" || gotN != 1 {
		t.Errorf("debited %s by %d, want user-1 by 1", gotUser, gotN)
	}
}

func TestUsageDebitWorkflow_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	err := runDebit(t, func(ctx context.Context, userID string, n int) error {
		if calls.Add(1) < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, workflows.UsageDebitInput{CalculationID: "c1", UserID: "user-1"})

	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestUsageDebitWorkflow_UnknownUserNotRetried(t *testing.T) {
	var calls atomic.Int32
	err := runDebit(t, func(ctx context.Context, userID string, n int) error {
		calls.Add(1)
		return domain.ErrNotFound
	}, workflows.UsageDebitInput{CalculationID: "c1", UserID: "ghost"})

	if err == nil {
		t.Fatal("expected workflow error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestUsageDebitInput_WorkflowID(t *testing.T) {
	in := workflows.UsageDebitInput{CalculationID: "abc"}
	if in.WorkflowID() != "usage-debit-abc" {
		t.Errorf("unexpected workflow id %q", in.WorkflowID())
	}
}
