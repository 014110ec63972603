package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/core/usecases"
	"github.com/samirrijal/routekit/internal/pkg/metrics"
)

// UsageActivities holds the activity implementations for the usage debit workflow.
type UsageActivities struct {
	Usage usecases.UsageDebiter
}

// DebitRouteCalculation removes input.Amount calculations (default 1) from the user.
// An unknown user fails without retry.
func (a *UsageActivities) DebitRouteCalculation(ctx context.Context, input UsageDebitInput) error {
	amount := input.Amount
	if amount <= 0 {
		amount = 1
	}

	err := a.Usage.Debit(ctx, input.UserID, amount)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.UsageDebits.WithLabelValues("failed").Inc()
		return temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("no usage row for user %s", input.UserID), "UsageNotFound", err)
	}
	if err != nil {
		return fmt.Errorf("debit %s: %w", input.CalculationID, err)
	}

	metrics.UsageDebits.WithLabelValues("ok").Inc()
	activity.GetLogger(ctx).Info("Debited route calculation", "calculationID", input.CalculationID, "amount", amount)
	return nil
}
