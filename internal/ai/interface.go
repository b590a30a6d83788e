package ai

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by a Model that was not configured or failed to initialise.
var ErrUnavailable = errors.New("language model unavailable")

// Model defines the contract for sending a conversation to a text-generation backend.
// The variant is chosen once at startup; callers check Available instead of nil handles.
type Model interface {
	// Name identifies the backend in logs and health output (e.g. "openai:gpt-4").
	Name() string

	// Available reports whether Invoke can reach a backend at all.
	Available() bool

	// Invoke sends messages in order and returns the raw reply text.
	Invoke(ctx context.Context, messages []Message) (string, error)
}

// Unavailable is the Model used when no backend is configured.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Name() string    { return "unavailable" }
func (u Unavailable) Available() bool { return false }

func (u Unavailable) Invoke(ctx context.Context, messages []Message) (string, error) {
	if u.Reason == "" {
		return "", ErrUnavailable
	}
	return "", errors.Join(ErrUnavailable, errors.New(u.Reason))
}
