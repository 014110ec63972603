//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	handler "github.com/samirrijal/routekit/internal/adapters/http"
	"github.com/samirrijal/routekit/internal/adapters/postgres"
	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/core/usecases"
	"github.com/samirrijal/routekit/internal/pkg/auth"
	"github.com/samirrijal/routekit/internal/pkg/config"
)

// setupTestDB connects to the test database described by ROUTEKIT_DATABASE_*.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("routekit-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}

	t.Cleanup(pool.Close)
	return &postgres.DB{Pool: pool}
}

// seedUser inserts a user with the given allowance and returns it.
func seedUser(t *testing.T, db *postgres.DB, password string, calculations int) *domain.User {
	ctx := context.Background()
	hash, err := usecases.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &domain.User{
		Email:        fmt.Sprintf("integ_%d@example.com", time.Now().UnixNano()),
		Name:         "Integration",
		PasswordHash: hash,
	}
	if err := postgres.NewUserRepo(db).Create(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	usage := &domain.FeatureUsage{UserID: user.ID, RouteCalculationCount: calculations}
	if err := postgres.NewFeatureUsageRepo(db).Create(ctx, usage); err != nil {
		t.Fatalf("seed usage: %v", err)
	}
	t.Cleanup(func() {
		db.Pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, user.ID)
	})
	return user
}

func setupTestDeps(t *testing.T, db *postgres.DB) (*handler.Dependencies, *usecases.RetryingLedger) {
	tokens, err := auth.NewJWTManager(testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	usageRepo := postgres.NewFeatureUsageRepo(db)
	usage := usecases.NewUsageService(usageRepo)
	ledger := usecases.NewRetryingLedger(usage)

	return &handler.Dependencies{
		Auth:      usecases.NewAuthService(postgres.NewUserRepo(db), tokens),
		Usage:     usage,
		Waypoints: usecases.NewWaypointService(usageRepo, nil, ledger, 0),
		Limits:    config.WaypointsConfig{MaxGroups: 25, MaxPoints: 500},
		DB:        db,
	}, ledger
}

// TestSignInAndOptimize_Integration signs in, optimizes once and checks the debit landed.
func TestSignInAndOptimize_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)

	user := seedUser(t, db, "integration-pass", 2)
	deps, ledger := setupTestDeps(t, db)
	app := setupApp(deps)

	status, body, _ := postJSON(t, app, "/v1/auth/sign-in",
		fmt.Sprintf(`{"email":%q,"password":"integration-pass"}`, user.Email), "")
	if status != 200 {
		t.Fatalf("sign-in: expected 200, got %d: %s", status, body)
	}
	var signedIn struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &signedIn); err != nil {
		t.Fatalf("decode sign-in: %v", err)
	}
	token := signedIn.AccessToken

	status, body, _ = postJSON(t, app, "/v1/waypoints",
		`{"origin":[0,0],"waypoints":[[[1,1],[2,2],[0,1]]]}`, "Bearer "+token)
	if status != 200 {
		t.Fatalf("optimize: expected 200, got %d: %s", status, body)
	}
	if string(body) != `{"path":[[0,1],[1,1],[2,2]]}` {
		t.Errorf("unexpected path %s", body)
	}

	ledger.Wait()

	usage, err := postgres.NewFeatureUsageRepo(db).GetByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("read usage: %v", err)
	}
	if usage.RouteCalculationCount != 1 {
		t.Errorf("expected allowance 1 after debit, got %d", usage.RouteCalculationCount)
	}
}

// TestQuotaExhausted_Integration checks that a zero allowance is refused without a debit.
func TestQuotaExhausted_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)

	user := seedUser(t, db, "integration-pass", 0)
	deps, ledger := setupTestDeps(t, db)
	app := setupApp(deps)

	tokens, _ := auth.NewJWTManager(testSecret, time.Hour)
	token, err := tokens.Generate(user)
	if err != nil {
		t.Fatal(err)
	}

	status, _, _ := postJSON(t, app, "/v1/waypoints", `{"origin":[0,0],"waypoints":[[[1,1]]]}`, "Bearer "+token)
	if status != 403 {
		t.Fatalf("expected 403, got %d", status)
	}

	ledger.Wait()
	usage, err := postgres.NewFeatureUsageRepo(db).GetByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("read usage: %v", err)
	}
	if usage.RouteCalculationCount != 0 {
		t.Errorf("allowance changed to %d", usage.RouteCalculationCount)
	}
}
