package ai

import (
	"context"
	"errors"
	"testing"
)

func TestNewSelectsProvider(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		opts      Options
		available bool
		wantName  string
	}{
		{"auto without keys", Options{Provider: "auto"}, false, "unavailable"},
		{"auto prefers openai", Options{OpenAIKey: "sk", OpenAIModel: "gpt-4", GeminiKey: "g"}, true, "openai:gpt-4"},
		{"explicit openai without key", Options{Provider: "openai"}, false, "unavailable"},
		{"explicit gemini without key", Options{Provider: "gemini"}, false, "unavailable"},
		{"disabled", Options{Provider: "none", OpenAIKey: "sk"}, false, "unavailable"},
		{"unknown", Options{Provider: "llama"}, false, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(ctx, tt.opts)
			if m == nil {
				t.Fatal("New returned nil")
			}
			if m.Available() != tt.available {
				t.Fatalf("Available = %v, want %v", m.Available(), tt.available)
			}
			if m.Name() != tt.wantName {
				t.Fatalf("Name = %q, want %q", m.Name(), tt.wantName)
			}
		})
	}
}

func TestUnavailableInvoke(t *testing.T) {
	_, err := Unavailable{}.Invoke(context.Background(), nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v", err)
	}
	_, err = Unavailable{Reason: "no key"}.Invoke(context.Background(), nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestSplitForGemini(t *testing.T) {
	system, history, last, err := splitForGemini([]Message{
		System("role"),
		User("first"),
		Assistant("reply"),
		System("facts"),
		User("second"),
	})
	if err != nil {
		t.Fatalf("splitForGemini: %v", err)
	}
	if system != "role\n\nfacts" {
		t.Fatalf("system = %q", system)
	}
	if len(history) != 2 || history[0].Role != "user" || history[1].Role != "model" {
		t.Fatalf("history roles wrong: %+v", history)
	}
	if last != "second" {
		t.Fatalf("last = %q", last)
	}

	if _, _, _, err := splitForGemini([]Message{System("only")}); err == nil {
		t.Fatal("expected error without a user message")
	}
}
