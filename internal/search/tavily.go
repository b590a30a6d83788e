package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// TavilySearcher queries the Tavily web search API.
type TavilySearcher struct {
	apiKey     string
	endpoint   string
	maxResults int
	httpClient *http.Client
}

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		URL     string `json:"url"`
	} `json:"results"`
	Detail any `json:"detail,omitempty"`
}

func NewTavilySearcher(apiKey, endpoint string, maxResults int, httpClient *http.Client) (*TavilySearcher, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("tavily: missing api key")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if maxResults <= 0 || maxResults > MaxResults {
		maxResults = MaxResults
	}
	return &TavilySearcher{apiKey: apiKey, endpoint: endpoint, maxResults: maxResults, httpClient: httpClient}, nil
}

func (t *TavilySearcher) Available() bool { return true }

// Search posts the query and maps results[].{title,content,url} to snippets.
func (t *TavilySearcher) Search(ctx context.Context, query string) ([]Snippet, error) {
	reqBody, err := json.Marshal(tavilyRequest{APIKey: t.apiKey, Query: query, MaxResults: t.maxResults})
	if err != nil {
		return nil, fmt.Errorf("tavily: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("tavily: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tavily: read response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("tavily: unexpected status %d", resp.StatusCode)
	}

	var tr tavilyResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("tavily: unmarshal response: %w", err)
	}

	out := make([]Snippet, 0, len(tr.Results))
	for _, r := range tr.Results {
		out = append(out, Snippet{Title: r.Title, Content: r.Content, URL: r.URL})
		if len(out) >= t.maxResults {
			break
		}
	}
	return out, nil
}
