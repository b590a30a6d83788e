package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MaxResults caps every result list returned by the gateway.
const MaxResults = 5

// WeatherUnavailable is returned by Gateway.Weather when no forecast could be fetched.
const WeatherUnavailable = "Weather information unavailable"

// Gateway builds the concierge's research queries and absorbs every search failure.
// Places, when configured, answers points-of-interest and restaurant lookups;
// everything else goes to the web searcher.
type Gateway struct {
	web     Searcher
	places  Searcher
	timeout time.Duration
	logger  *zap.Logger
}

func NewGateway(web, places Searcher, timeout time.Duration, logger *zap.Logger) *Gateway {
	if web == nil {
		web = Unavailable{}
	}
	if places == nil {
		places = Unavailable{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{web: web, places: places, timeout: timeout, logger: logger}
}

// Available reports whether any backend can answer queries.
func (g *Gateway) Available() bool {
	return g.web.Available() || g.places.Available()
}

// WebAvailable reports whether free-text web search is configured.
func (g *Gateway) WebAvailable() bool {
	return g.web.Available()
}

// Search runs a free-text query, e.g. "{customQuery} in {location}".
func (g *Gateway) Search(ctx context.Context, query string) []Snippet {
	return g.run(ctx, "search", g.web, query)
}

func (g *Gateway) PointsOfInterest(ctx context.Context, location string, interests []string) []Snippet {
	q := "top tourist attractions and activities in " + location
	if len(interests) > 0 {
		q += " for " + strings.Join(interests, ", ")
	}
	return g.run(ctx, "points_of_interest", g.preferPlaces(), q)
}

func (g *Gateway) Restaurants(ctx context.Context, location string, dietary []string) []Snippet {
	kind := "best"
	if len(dietary) > 0 {
		kind = strings.Join(dietary, " ")
	}
	return g.run(ctx, "restaurants", g.preferPlaces(), fmt.Sprintf("%s restaurants in %s", kind, location))
}

func (g *Gateway) Events(ctx context.Context, location, dates string) []Snippet {
	return g.run(ctx, "events", g.web, fmt.Sprintf("events and festivals in %s during %s", location, dates))
}

// Weather returns the first forecast snippet's content, or WeatherUnavailable.
func (g *Gateway) Weather(ctx context.Context, location, dates string) string {
	hits := g.run(ctx, "weather", g.web, fmt.Sprintf("weather forecast %s %s", location, dates))
	for _, h := range hits {
		if c := strings.TrimSpace(h.Content); c != "" {
			return c
		}
	}
	return WeatherUnavailable
}

func (g *Gateway) preferPlaces() Searcher {
	if g.places.Available() {
		return g.places
	}
	return g.web
}

func (g *Gateway) run(ctx context.Context, op string, s Searcher, query string) []Snippet {
	if !s.Available() {
		return []Snippet{}
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	hits, err := s.Search(ctx, query)
	if err != nil {
		g.logger.Warn("search failed", zap.String("op", op), zap.String("query", query), zap.Error(err))
		return []Snippet{}
	}
	g.logger.Info("search completed", zap.String("op", op), zap.Int("results", len(hits)), zap.Duration("duration", time.Since(start)))

	if len(hits) > MaxResults {
		hits = hits[:MaxResults]
	}
	if hits == nil {
		hits = []Snippet{}
	}
	return hits
}
