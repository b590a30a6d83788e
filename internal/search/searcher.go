// README: Search capability shared by web search (Tavily) and Google Places.
package search

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by a Searcher that has no backend configured.
var ErrUnavailable = errors.New("search unavailable")

// Snippet is one search hit handed to the prompt composer.
type Snippet struct {
	Title   string
	Content string
	URL     string
}

// Searcher looks up short factual snippets for a free-text query.
type Searcher interface {
	Available() bool
	Search(ctx context.Context, query string) ([]Snippet, error)
}

// Unavailable is the Searcher used when no API key is configured.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Search(context.Context, string) ([]Snippet, error) {
	return nil, ErrUnavailable
}
