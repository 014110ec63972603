package usecases

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/pkg/metrics"
)

// UsageDebiter removes calculations from a user's allowance.
type UsageDebiter interface {
	Debit(ctx context.Context, userID string, n int) error
}

// RetryingLedger debits each recorded calculation in the background,
// retrying with jittered exponential backoff.
type RetryingLedger struct {
	debiter     UsageDebiter
	initial     time.Duration
	maxAttempts int
	wg          sync.WaitGroup
}

// NewRetryingLedger debits through d with up to 3 attempts starting at 10ms.
func NewRetryingLedger(d UsageDebiter) *RetryingLedger {
	return &RetryingLedger{debiter: d, initial: 10 * time.Millisecond, maxAttempts: 3}
}

// RecordRouteCalculation returns immediately. The debit outlives the request context.
func (l *RetryingLedger) RecordRouteCalculation(ctx context.Context, calc *domain.RouteCalculation) error {
	ctx = context.WithoutCancel(ctx)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.debit(ctx, calc)
	}()
	return nil
}

func (l *RetryingLedger) debit(ctx context.Context, calc *domain.RouteCalculation) {
	attempts := 0
	op := func() error {
		attempts++
		err := l.debiter.Debit(ctx, calc.UserID, 1)
		if errors.Is(err, domain.ErrNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := backoff.Retry(op, backoff.WithContext(l.policy(), ctx)); err != nil {
		metrics.UsageDebits.WithLabelValues("failed").Inc()
		slog.ErrorContext(ctx, "usage debit failed",
			"calculation_id", calc.ID, "user_id", calc.UserID, "attempts", attempts, "error", err)
		return
	}
	metrics.UsageDebits.WithLabelValues("ok").Inc()
}

func (l *RetryingLedger) policy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.initial
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, uint64(l.maxAttempts-1))
}

// Wait blocks until every in-flight debit has finished.
func (l *RetryingLedger) Wait() {
	l.wg.Wait()
}
