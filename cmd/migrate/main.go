package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/routekit/internal/adapters/postgres"
	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/core/usecases"
	"github.com/samirrijal/routekit/internal/pkg/config"
)

const usage = `usage:
  migrate up
  migrate down
  migrate create-user <email> <password> <route-calculations>`

var files = []string{
	"migrations/001_users.sql",
	"migrations/002_feature_usages.sql",
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	cfg, err := config.Load("routekit-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, pool)
	case "down":
		dropTables(ctx, pool)
	case "create-user":
		if len(os.Args) != 5 {
			log.Fatal(usage)
		}
		createUser(ctx, &postgres.DB{Pool: pool}, os.Args[2], os.Args[3], os.Args[4])
	default:
		log.Fatalf("unknown command: %s\n%s", os.Args[1], usage)
	}
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) {
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		_, err = pool.Exec(ctx, string(data))
		if err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}

func dropTables(ctx context.Context, pool *pgxpool.Pool) {
	for _, table := range []string{"feature_usages", "users"} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			log.Fatalf("drop %s: %v", table, err)
		}
		fmt.Printf("DROP  %s\n", table)
	}
}

// createUser seeds an account together with its allowance.
func createUser(ctx context.Context, db *postgres.DB, email, password, count string) {
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		log.Fatalf("route-calculations must be a non-negative integer, got %q", count)
	}

	hash, err := usecases.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := &domain.User{Email: email, PasswordHash: hash}
	if err := postgres.NewUserRepo(db).Create(ctx, user); err != nil {
		log.Fatalf("create user: %v", err)
	}
	if err := postgres.NewFeatureUsageRepo(db).Create(ctx, &domain.FeatureUsage{UserID: user.ID, RouteCalculationCount: n}); err != nil {
		log.Fatalf("create usage: %v", err)
	}

	fmt.Printf("OK  user %s (%s) with %d route calculations\n", user.Email, user.ID, n)
}
