package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAIModelInvoke(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Visit the harbour."}}]}`))
	}))
	defer srv.Close()

	m, err := NewOpenAIModel("sk-test", "gpt-4", srv.URL, 0.7, srv.Client())
	if err != nil {
		t.Fatalf("NewOpenAIModel: %v", err)
	}
	reply, err := m.Invoke(context.Background(), []Message{System("be brief"), User("what to do?")})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if reply != "Visit the harbour." {
		t.Fatalf("reply = %q", reply)
	}
	if got.Model != "gpt-4" || got.Temperature != 0.7 {
		t.Fatalf("request = %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "what to do?" {
		t.Fatalf("messages = %+v", got.Messages)
	}
}

func TestOpenAIModelErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`},
		{"empty choices", http.StatusOK, `{"choices":[]}`},
		{"not json", http.StatusBadGateway, `<html>gateway</html>`},
		{"bad status", http.StatusInternalServerError, `{"choices":[{"message":{"content":"x"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			m, _ := NewOpenAIModel("sk-test", "gpt-4", srv.URL, 0, srv.Client())
			if _, err := m.Invoke(context.Background(), []Message{User("hi")}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestOpenAIModelHonoursContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	m, _ := NewOpenAIModel("sk-test", "gpt-4", srv.URL, 0, srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := m.Invoke(ctx, []Message{User("hi")})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestNewOpenAIModelRequiresKey(t *testing.T) {
	if _, err := NewOpenAIModel("  ", "gpt-4", "http://localhost", 0, nil); err == nil {
		t.Fatal("expected error for blank key")
	}
}
