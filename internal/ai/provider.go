package ai

import (
	"context"
	"fmt"
	"net/http"
)

// Options selects and configures the Model built at startup.
type Options struct {
	Provider      string // auto, openai, gemini, none
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiKey     string
	GeminiModel   string
	Temperature   float64
	HTTPClient    *http.Client
}

// New returns the configured Model, or Unavailable with the reason when no
// backend can be used. It never returns a nil Model.
func New(ctx context.Context, opts Options) Model {
	provider := opts.Provider
	if provider == "" || provider == "auto" {
		switch {
		case opts.OpenAIKey != "":
			provider = "openai"
		case opts.GeminiKey != "":
			provider = "gemini"
		default:
			return Unavailable{Reason: "no OPENAI_API_KEY or GEMINI_API_KEY configured"}
		}
	}

	switch provider {
	case "openai":
		m, err := NewOpenAIModel(opts.OpenAIKey, opts.OpenAIModel, opts.OpenAIBaseURL, opts.Temperature, opts.HTTPClient)
		if err != nil {
			return Unavailable{Reason: err.Error()}
		}
		return m
	case "gemini":
		m, err := NewGeminiModel(ctx, opts.GeminiKey, opts.GeminiModel, opts.Temperature)
		if err != nil {
			return Unavailable{Reason: err.Error()}
		}
		return m
	case "none":
		return Unavailable{Reason: "language model disabled by configuration"}
	default:
		return Unavailable{Reason: fmt.Sprintf("unknown provider %q", provider)}
	}
}
