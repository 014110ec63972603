//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/routekit/internal/adapters/postgres"
	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/pkg/config"
)

func setupDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("routekit-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func seed(t *testing.T, db *postgres.DB, count int) *domain.User {
	ctx := context.Background()
	u := &domain.User{Email: fmt.Sprintf("Repo_%d@Example.com", time.Now().UnixNano()), PasswordHash: "x"}
	if err := postgres.NewUserRepo(db).Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := postgres.NewFeatureUsageRepo(db).Create(ctx, &domain.FeatureUsage{UserID: u.ID, RouteCalculationCount: count}); err != nil {
		t.Fatalf("create usage: %v", err)
	}
	t.Cleanup(func() {
		db.Pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, u.ID)
	})
	return u
}

func TestUserRepo_Integration(t *testing.T) {
	db := setupDB(t)
	repo := postgres.NewUserRepo(db)
	u := seed(t, db, 1)

	got, err := repo.GetByEmail(context.Background(), u.Email)
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("expected %s, got %s", u.ID, got.ID)
	}

	if _, err := repo.GetByID(context.Background(), u.ID); err != nil {
		t.Errorf("get by id: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "not-a-uuid"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for malformed id, got %v", err)
	}
	if _, err := repo.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFeatureUsageRepo_ConcurrentDebits_Integration(t *testing.T) {
	db := setupDB(t)
	repo := postgres.NewFeatureUsageRepo(db)
	u := seed(t, db, 10)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AdjustRouteCalculations(context.Background(), u.ID, -1); err != nil {
				t.Errorf("adjust: %v", err)
			}
		}()
	}
	wg.Wait()

	usage, err := repo.GetByUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if usage.RouteCalculationCount != 0 {
		t.Errorf("expected 0 after 10 debits, got %d", usage.RouteCalculationCount)
	}

	if _, err := repo.AdjustRouteCalculations(context.Background(), "8d1f6f57-0c1e-4a4e-9d55-0c7f3b1d9a01", -1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}
