package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"concierge/internal/search"
)

// minRating drops low quality venues from the results.
const minRating = 3.5

// Place represents a simplified location result.
type Place struct {
	Name             string
	Address          string
	Rating           float32
	PlaceID          string
	UserRatingsTotal int
}

// PlacesService handles interactions with Google Places API.
// It satisfies search.Searcher so the gateway can use it for venue lookups.
type PlacesService struct {
	client     *maps.Client
	maxResults int
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string, maxResults int) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	if maxResults <= 0 || maxResults > search.MaxResults {
		maxResults = search.MaxResults
	}
	return &PlacesService{client: client, maxResults: maxResults}, nil
}

func (s *PlacesService) Available() bool { return true }

// Search runs a Places text search, e.g. "vegan restaurants in Lisbon".
func (s *PlacesService) Search(ctx context.Context, query string) ([]search.Snippet, error) {
	places, err := s.TextSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]search.Snippet, 0, len(places))
	for _, p := range places {
		out = append(out, p.Snippet())
	}
	return out, nil
}

// TextSearch returns the best rated places matching query.
func (s *PlacesService) TextSearch(ctx context.Context, query string) ([]Place, error) {
	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}
	return filterPlaces(resp.Results, s.maxResults), nil
}

func filterPlaces(results []maps.PlacesSearchResult, limit int) []Place {
	seen := make(map[string]bool)
	var out []Place
	for _, r := range results {
		if r.Rating < minRating { // Filter for quality
			continue
		}
		if r.PlaceID != "" && seen[r.PlaceID] {
			continue
		}
		seen[r.PlaceID] = true

		out = append(out, Place{
			Name:             r.Name,
			Address:          r.FormattedAddress,
			Rating:           r.Rating,
			PlaceID:          r.PlaceID,
			UserRatingsTotal: r.UserRatingsTotal,
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Snippet renders the place for the prompt's research block.
func (p Place) Snippet() search.Snippet {
	var content strings.Builder
	content.WriteString(p.Address)
	if p.Rating > 0 {
		fmt.Fprintf(&content, " (rated %.1f", p.Rating)
		if p.UserRatingsTotal > 0 {
			fmt.Fprintf(&content, " from %d reviews", p.UserRatingsTotal)
		}
		content.WriteString(")")
	}
	url := ""
	if p.PlaceID != "" {
		url = "https://www.google.com/maps/place/?q=place_id:" + p.PlaceID
	}
	return search.Snippet{Title: p.Name, Content: strings.TrimSpace(content.String()), URL: url}
}
