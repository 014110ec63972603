package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/core/usecases"
)

func TestUsageService_Get(t *testing.T) {
	svc := usecases.NewUsageService(withCount(7))

	usage, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.RouteCalculationCount != 7 {
		t.Errorf("expected 7, got %d", usage.RouteCalculationCount)
	}
}

func TestUsageService_Debit(t *testing.T) {
	var gotDelta int
	repo := &mockUsageRepo{
		adjustFn: func(ctx context.Context, userID string, delta int) (*domain.FeatureUsage, error) {
			gotDelta = delta
			return &domain.FeatureUsage{UserID: userID, RouteCalculationCount: 4}, nil
		},
	}
	svc := usecases.NewUsageService(repo)

	if err := svc.Debit(context.Background(), "user-1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDelta != -1 {
		t.Errorf("expected delta -1, got %d", gotDelta)
	}
}

func TestUsageService_Debit_InvalidAmount(t *testing.T) {
	svc := usecases.NewUsageService(&mockUsageRepo{})
	if err := svc.Debit(context.Background(), "user-1", 0); err == nil {
		t.Fatal("expected error for zero debit")
	}
}

func TestUsageService_Debit_NotFound(t *testing.T) {
	repo := &mockUsageRepo{
		adjustFn: func(ctx context.Context, userID string, delta int) (*domain.FeatureUsage, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := usecases.NewUsageService(repo)

	err := svc.Debit(context.Background(), "ghost", 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
