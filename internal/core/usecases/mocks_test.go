package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/routekit/internal/core/domain"
)

// --- Mock FeatureUsageRepository ---

type mockUsageRepo struct {
	getByUserFn func(ctx context.Context, userID string) (*domain.FeatureUsage, error)
	adjustFn    func(ctx context.Context, userID string, delta int) (*domain.FeatureUsage, error)
}

func (m *mockUsageRepo) GetByUser(ctx context.Context, userID string) (*domain.FeatureUsage, error) {
	if m.getByUserFn != nil {
		return m.getByUserFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUsageRepo) AdjustRouteCalculations(ctx context.Context, userID string, delta int) (*domain.FeatureUsage, error) {
	if m.adjustFn != nil {
		return m.adjustFn(ctx, userID, delta)
	}
	return &domain.FeatureUsage{UserID: userID}, nil
}

func (m *mockUsageRepo) Create(ctx context.Context, usage *domain.FeatureUsage) error { return nil }

func withCount(n int) *mockUsageRepo {
	return &mockUsageRepo{
		getByUserFn: func(ctx context.Context, userID string) (*domain.FeatureUsage, error) {
			return &domain.FeatureUsage{UserID: userID, RouteCalculationCount: n}, nil
		},
	}
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock UsageLedger ---

type mockLedger struct {
	mu    sync.Mutex
	calcs []*domain.RouteCalculation
	err   error
}

func (m *mockLedger) RecordRouteCalculation(ctx context.Context, calc *domain.RouteCalculation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calcs = append(m.calcs, calc)
	return m.err
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }

// --- Mock TokenManager ---

type mockTokens struct {
	generateFn func(user *domain.User) (string, error)
	verifyFn   func(token string) (string, error)
}

func (m *mockTokens) Generate(user *domain.User) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(user)
	}
	return "token-" + user.ID, nil
}

func (m *mockTokens) Verify(token string) (string, error) {
	if m.verifyFn != nil {
		return m.verifyFn(token)
	}
	return "", errors.New("invalid token")
}
