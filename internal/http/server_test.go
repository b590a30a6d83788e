package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"concierge/internal/config"
	"concierge/internal/service"
)

func newTestServer(cfg config.HTTPConfig) http.Handler {
	gin.SetMode(gin.TestMode)
	concierge := service.NewConcierge(service.Deps{}, service.Options{})
	return NewServer(ServerDeps{Agent: concierge, Config: cfg}).Routes()
}

func TestLiveness(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(config.HTTPConfig{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("status = %d body = %q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("request id header missing")
	}
}

func TestPlanWithoutIntegrations(t *testing.T) {
	body, _ := json.Marshal(map[string]any{
		"booking_context": map[string]any{"location": "Oslo", "start_date": "2025-12-20", "end_date": "2025-12-27"},
		"preferences":     map[string]any{},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/agent/plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newTestServer(config.HTTPConfig{}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var got service.Itinerary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Summary != "Your 7-day trip to Oslo" || len(got.PackingChecklist) < 4 {
		t.Fatalf("itinerary = %+v", got)
	}
}

func TestEmptyQueryRejected(t *testing.T) {
	body := []byte(`{"booking_context":{"location":"Oslo","start_date":"2025-12-20","end_date":"2025-12-27"},"custom_query":"  "}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/agent/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newTestServer(config.HTTPConfig{}).ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(config.HTTPConfig{CORSOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/agent/plan", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin = %q (status %d)", got, w.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/agent/plan", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unlisted origin must not be allowed")
	}
}

func TestHealthFlags(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(config.HTTPConfig{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/agent/health", nil))
	var h service.Health
	if err := json.Unmarshal(w.Body.Bytes(), &h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Status != "OK" || h.LLMConfigured || h.SearchConfigured || h.DatabaseConfigured {
		t.Fatalf("health = %+v", h)
	}
}
