package ports

import (
	"context"

	"github.com/samirrijal/routekit/internal/core/domain"
)

// UserRepository persists API accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// FeatureUsageRepository persists metered allowances.
type FeatureUsageRepository interface {
	GetByUser(ctx context.Context, userID string) (*domain.FeatureUsage, error)
	// AdjustRouteCalculations adds delta to the remaining count and returns the updated row.
	AdjustRouteCalculations(ctx context.Context, userID string, delta int) (*domain.FeatureUsage, error)
	Create(ctx context.Context, usage *domain.FeatureUsage) error
}
