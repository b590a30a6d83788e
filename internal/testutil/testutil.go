// README: Helpers for tests that need a real Postgres or Redis.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"concierge/internal/infra"
)

// DB connects to CONCIERGE_TEST_DSN, applies migrations and truncates the given tables.
// It skips the test when the variable is not set.
func DB(t *testing.T, truncate ...string) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("CONCIERGE_TEST_DSN")
	if dsn == "" {
		t.Skip("CONCIERGE_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := infra.NewDB(ctx, dsn, 5)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	root, err := RepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	if err := infra.Migrate(ctx, db, filepath.Join(root, "migrations")); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	for _, table := range truncate {
		if _, err := db.Exec(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	return db
}

// Redis connects to CONCIERGE_TEST_REDIS_ADDR or skips the test.
func Redis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("CONCIERGE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CONCIERGE_TEST_REDIS_ADDR not set; skipping Redis-backed tests")
	}
	client := infra.NewRedis(addr, os.Getenv("CONCIERGE_TEST_REDIS_PASSWORD"))
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// RepoRoot walks up from the working directory to the directory holding go.mod.
func RepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
