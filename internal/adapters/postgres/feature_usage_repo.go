package postgres

import (
	"context"

	"github.com/samirrijal/routekit/internal/core/domain"
)

// FeatureUsageRepo implements ports.FeatureUsageRepository.
type FeatureUsageRepo struct {
	db *DB
}

func NewFeatureUsageRepo(db *DB) *FeatureUsageRepo {
	return &FeatureUsageRepo{db: db}
}

func (r *FeatureUsageRepo) GetByUser(ctx context.Context, userID string) (*domain.FeatureUsage, error) {
	if !validID(userID) {
		return nil, domain.ErrNotFound
	}

	u := &domain.FeatureUsage{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, user_id, route_calculation_count, created_at
		FROM feature_usages WHERE user_id = $1
	`, userID).Scan(&u.ID, &u.UserID, &u.RouteCalculationCount, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// AdjustRouteCalculations applies delta in a single statement so concurrent
// debits never lose updates.
func (r *FeatureUsageRepo) AdjustRouteCalculations(ctx context.Context, userID string, delta int) (*domain.FeatureUsage, error) {
	if !validID(userID) {
		return nil, domain.ErrNotFound
	}

	u := &domain.FeatureUsage{}
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE feature_usages
		SET route_calculation_count = route_calculation_count + $2
		WHERE user_id = $1
		RETURNING id, user_id, route_calculation_count, created_at
	`, userID, delta).Scan(&u.ID, &u.UserID, &u.RouteCalculationCount, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *FeatureUsageRepo) Create(ctx context.Context, usage *domain.FeatureUsage) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO feature_usages (user_id, route_calculation_count)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, usage.UserID, usage.RouteCalculationCount).Scan(&usage.ID, &usage.CreatedAt)
}
