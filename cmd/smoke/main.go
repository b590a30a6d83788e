// README: Smoke runner against a running concierge API; prints PASS/FAIL/PENDING/SKIP per case.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	runner := NewRunner(cfg)
	results := runner.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, pending, skipped := 0, 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			pass++
		case StatusFail:
			fail++
		case StatusPending:
			pending++
		case StatusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d PENDING=%d SKIP=%d\n", pass, fail, pending, skipped)

	if fail > 0 || (cfg.Strict && pending > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL        string
	DSN            string
	RedisAddr      string
	MigrationDir   string
	ApplyMigration bool
	Strict         bool
	Timeout        time.Duration
	Concurrency    int
	Duration       time.Duration
	Origin         string
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("CONCIERGE_SMOKE_BASE_URL", "http://localhost:8000"), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", os.Getenv("CONCIERGE_DB_DSN"), "Postgres DSN (empty skips DB cases)")
	flag.StringVar(&cfg.RedisAddr, "redis", os.Getenv("CONCIERGE_REDIS_ADDR"), "Redis address (empty skips Redis cases)")
	flag.StringVar(&cfg.MigrationDir, "migrations", envOrDefault("CONCIERGE_SMOKE_MIGRATIONS", "migrations"), "Migration directory")
	flag.BoolVar(&cfg.ApplyMigration, "apply-migration", envOrDefaultBool("CONCIERGE_SMOKE_APPLY_MIGRATION", false), "Apply migrations before tests")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("CONCIERGE_SMOKE_STRICT", false), "Fail on pending cases")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("CONCIERGE_SMOKE_TIMEOUT", 3*time.Minute), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("CONCIERGE_SMOKE_CONCURRENCY", 5), "Concurrency for load cases")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("CONCIERGE_SMOKE_DURATION", 10*time.Second), "Duration for load cases")
	flag.StringVar(&cfg.Origin, "origin", envOrDefault("CONCIERGE_SMOKE_ORIGIN", "http://localhost:5173"), "Origin used for the CORS preflight case")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
