package ports

import (
	"context"

	"github.com/samirrijal/routekit/internal/core/domain"
)

// UsageLedger records served route calculations so they can be debited
// from the caller's allowance. Implementations may debit asynchronously.
type UsageLedger interface {
	RecordRouteCalculation(ctx context.Context, calc *domain.RouteCalculation) error
}

// EventSubscriber consumes domain events from a message broker.
type EventSubscriber interface {
	SubscribeRouteCalculations(ctx context.Context, handler func(ctx context.Context, calc *domain.RouteCalculation) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// TokenManager issues and verifies access tokens.
type TokenManager interface {
	Generate(user *domain.User) (string, error)
	// Verify returns the e-mail claim of a valid token.
	Verify(token string) (string, error)
}
