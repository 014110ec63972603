package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// UsageDebitWorkflowName is the registered workflow type.
const UsageDebitWorkflowName = "UsageDebitWorkflow"

// UsageDebitInput is the input for the usage debit workflow.
type UsageDebitInput struct {
	CalculationID string
	UserID        string
	Amount        int
}

// WorkflowID derives the workflow ID from the calculation so a redelivered
// event maps onto the same execution.
func (in UsageDebitInput) WorkflowID() string {
	return "usage-debit-" + in.CalculationID
}

// UsageDebitWorkflow debits one served route calculation from the user's allowance.
func UsageDebitWorkflow(ctx workflow.Context, input UsageDebitInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting usage debit", "calculationID", input.CalculationID, "userID", input.UserID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    10 * time.Millisecond,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	err := workflow.ExecuteActivity(ctx, "DebitRouteCalculation", input).Get(ctx, nil)
	if err != nil {
		logger.Error("usage debit failed", "calculationID", input.CalculationID, "error", err)
		return err
	}

	logger.Info("Usage debited", "calculationID", input.CalculationID)
	return nil
}
