package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/core/ports"
)

// UsageService reads and debits metered allowances.
type UsageService struct {
	usage ports.FeatureUsageRepository
}

// NewUsageService creates a new UsageService.
func NewUsageService(usage ports.FeatureUsageRepository) *UsageService {
	return &UsageService{usage: usage}
}

// Get returns the current allowance of userID.
func (s *UsageService) Get(ctx context.Context, userID string) (*domain.FeatureUsage, error) {
	return s.usage.GetByUser(ctx, userID)
}

// Debit removes n route calculations from userID's allowance.
func (s *UsageService) Debit(ctx context.Context, userID string, n int) error {
	if n <= 0 {
		return fmt.Errorf("debit amount must be positive, got %d", n)
	}
	if _, err := s.usage.AdjustRouteCalculations(ctx, userID, -n); err != nil {
		return fmt.Errorf("debit route calculations: %w", err)
	}
	return nil
}
