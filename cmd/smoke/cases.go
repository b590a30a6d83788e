// README: Smoke cases: environment, schema, API contract and load checks.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"concierge/internal/infra"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPending = "PENDING"
	StatusSkip    = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 90 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := infra.NewDB(ctx, r.cfg.DSN, 2); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = infra.NewRedis(r.cfg.RedisAddr, "")
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func samplePlan() map[string]any {
	return map[string]any{
		"booking_context": map[string]any{
			"booking_id":       0,
			"location":         "San Francisco, CA",
			"start_date":       "2025-10-10",
			"end_date":         "2025-10-13",
			"party_type":       "couple",
			"number_of_guests": 2,
		},
		"preferences": map[string]any{
			"budget":          "moderate",
			"interests":       []string{"hiking", "food"},
			"dietary_filters": []string{"vegetarian"},
		},
	}
}

func sampleQuery(q string) map[string]any {
	body := samplePlan()
	body["custom_query"] = q
	body["user_type"] = "traveler"
	body["user_name"] = "Smoke"
	return body
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	badDates := samplePlan()
	badDates["booking_context"].(map[string]any)["end_date"] = "2025-10-01"

	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.DSN == "" {
					return Result{Status: StatusSkip, Note: "no dsn"}
				}
				if r.db == nil {
					return Result{Status: StatusFail, Note: "invalid dsn"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "no redis address"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: StatusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: StatusFail, Note: "db not configured"}
				}
				if err := infra.Migrate(ctx, r.db, r.cfg.MigrationDir); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				for _, t := range []string{"bookings", "properties", "ai_conversations"} {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: StatusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: StatusPass}
			},
		},

		jsonCase("API: liveness", http.MethodGet, base+"/health", nil, http.StatusOK, nil),
		jsonCase("API: health flags", http.MethodGet, base+"/api/agent/health", nil, http.StatusOK, func(body map[string]any) string {
			if body["status"] != "OK" {
				return "status != OK"
			}
			for _, k := range []string{"search_configured", "llm_configured", "database_configured"} {
				if _, ok := body[k].(bool); !ok {
					return "missing flag " + k
				}
			}
			if body["llm_configured"] != true {
				return pendingNote("llm not configured")
			}
			return ""
		}),

		jsonCase("Plan: response shape", http.MethodPost, base+"/api/agent/plan", samplePlan(), http.StatusOK, func(body map[string]any) string {
			for _, k := range []string{"day_plans", "restaurant_recommendations", "packing_checklist"} {
				if _, ok := body[k].([]any); !ok {
					return k + " is not a list"
				}
			}
			if s, _ := body["summary"].(string); s == "" {
				return "empty summary"
			}
			if days := body["day_plans"].([]any); len(days) > 3 {
				return fmt.Sprintf("got %d days for a 3-day trip", len(days))
			}
			return ""
		}),
		jsonCase("Plan: end before start -> 400", http.MethodPost, base+"/api/agent/plan", badDates, http.StatusBadRequest, nil),
		jsonCase("Plan: malformed body -> 400", http.MethodPost, base+"/api/agent/plan", map[string]any{"preferences": 1}, http.StatusBadRequest, nil),

		jsonCase("Query: empty text -> 400", http.MethodPost, base+"/api/agent/query", sampleQuery("   "), http.StatusBadRequest, nil),
		jsonCase("Query: reply shape", http.MethodPost, base+"/api/agent/query", sampleQuery("What should I pack?"), http.StatusOK, func(body map[string]any) string {
			if s, _ := body["response"].(string); s == "" {
				return "empty response"
			}
			if _, ok := body["results"].([]any); !ok {
				return "results is not a list"
			}
			return ""
		}),

		{
			Name: "CORS: preflight from allowed origin",
			Run: func(ctx context.Context, r *Runner) Result {
				req, _ := http.NewRequestWithContext(ctx, http.MethodOptions, base+"/api/agent/plan", nil)
				req.Header.Set("Origin", r.cfg.Origin)
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
				resp, err := r.httpc.Do(req)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				resp.Body.Close()
				if got := resp.Header.Get("Access-Control-Allow-Origin"); got != r.cfg.Origin {
					return Result{Status: StatusFail, Note: fmt.Sprintf("allow-origin=%q status=%d", got, resp.StatusCode)}
				}
				return Result{Status: StatusPass}
			},
		},

		manualCase("Quota: 429 after monthly allowance", "set CONCIERGE_QUOTA_MONTHLY=1 and send two queries with a user_id"),
		manualCase("Conversation: history recalled", "send two queries with the same user_id and check the second answer uses the first"),

		{
			Name: "Perf: concurrent plan latency",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/agent/plan", samplePlan())
			},
		},
	}
}

// pendingNote marks a check result as pending rather than failed.
func pendingNote(msg string) string { return "pending:" + msg }

func jsonCase(name, method, url string, body any, want int, check func(map[string]any) string) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = bytes.NewReader(b)
			}
			req, _ := http.NewRequestWithContext(ctx, method, url, reader)
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			raw, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			latency := time.Since(start)

			if resp.StatusCode != want {
				return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", resp.StatusCode, want)}
			}
			if check == nil {
				return Result{Status: StatusPass, Latency: latency}
			}
			var parsed map[string]any
			if err := json.Unmarshal(raw, &parsed); err != nil {
				return Result{Status: StatusFail, Latency: latency, Note: "body is not a JSON object"}
			}
			switch note := check(parsed); {
			case note == "":
				return Result{Status: StatusPass, Latency: latency}
			case len(note) > 8 && note[:8] == "pending:":
				return Result{Status: StatusPending, Latency: latency, Note: note[8:]}
			default:
				return Result{Status: StatusFail, Latency: latency, Note: note}
			}
		},
	}
}

func manualCase(name, note string) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			return Result{Status: StatusSkip, Note: note}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var (
		mu       sync.Mutex
		count    int
		errCount int
		total    time.Duration
		worst    time.Duration
	)
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				start := time.Now()
				resp, err := r.httpc.Do(req)
				elapsed := time.Since(start)
				mu.Lock()
				if err != nil || resp.StatusCode != http.StatusOK {
					errCount++
				} else {
					count++
					total += elapsed
					if elapsed > worst {
						worst = elapsed
					}
				}
				mu.Unlock()
				if err == nil {
					_, _ = io.Copy(io.Discard, resp.Body)
					resp.Body.Close()
				}
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: fmt.Sprintf("no successful requests (errors=%d)", errCount)}
	}
	avg := total / time.Duration(count)
	return Result{Status: StatusPass, Latency: avg, Note: fmt.Sprintf("ok=%d errors=%d max=%s", count, errCount, worst.Round(time.Millisecond))}
}
