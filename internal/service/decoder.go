package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"concierge/internal/types"
)

const (
	maxRestaurants = 5
	fenceMarker    = "```"
)

var errNotObject = errors.New("model output is not a JSON object")

// PlanInput carries the request facts the decoder needs to fill defaults.
type PlanInput struct {
	Location  string
	Start     time.Time
	Duration  int
	Budget    string
	Interests []string
	Dietary   []string
}

// Shape the itinerary prompt asks the model to return.
type modelPlan struct {
	Days        []modelDay        `json:"days"`
	Restaurants []modelRestaurant `json:"restaurants"`
	Packing     []string          `json:"packing"`
	Summary     string            `json:"summary"`
}

type modelDay struct {
	Day       int        `json:"day"`
	Morning   *modelSlot `json:"morning"`
	Afternoon *modelSlot `json:"afternoon"`
	Evening   *modelSlot `json:"evening"`
}

type modelSlot struct {
	Title    string `json:"title"`
	Address  string `json:"address"`
	Duration string `json:"duration"`
}

type modelRestaurant struct {
	Name    string   `json:"name"`
	Cuisine string   `json:"cuisine"`
	Address string   `json:"address"`
	Dietary []string `json:"dietary"`
}

// DecodeItinerary turns raw model text into an Itinerary in three stages:
// unwrap a code fence, parse JSON, map onto the response schema.
// It never fails; on a parse error it returns the fallback plan and the cause.
func DecodeItinerary(raw string, in PlanInput) (*Itinerary, error) {
	plan, err := parsePlan(unwrapFence(raw))
	if err != nil {
		return FallbackItinerary(in, fmt.Sprintf("Basic %d-day itinerary for %s", in.Duration, in.Location)), err
	}
	return mapPlan(plan, in), nil
}

// unwrapFence returns the text between the first fence marker and the next one,
// dropping a "json" language tag. Without a marker the text is returned as is.
// This is a heuristic: multiple or malformed fences are not handled specially.
func unwrapFence(raw string) string {
	start := strings.Index(raw, fenceMarker)
	if start < 0 {
		return strings.TrimSpace(raw)
	}
	body := raw[start+len(fenceMarker):]
	if strings.HasPrefix(strings.ToLower(body), "json") {
		body = body[len("json"):]
	}
	if end := strings.Index(body, fenceMarker); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func parsePlan(text string) (*modelPlan, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}
	var plan modelPlan
	if err := json.Unmarshal(trimmed, &plan); err != nil {
		return nil, fmt.Errorf("parse model plan: %w", err)
	}
	return &plan, nil
}

func mapPlan(plan *modelPlan, in PlanInput) *Itinerary {
	out := &Itinerary{
		DayPlans:                  []DayPlan{},
		RestaurantRecommendations: []RestaurantRec{},
	}

	for i, d := range plan.Days {
		if i >= in.Duration {
			break
		}
		n := d.Day
		if n < 1 {
			n = i + 1
		}
		out.DayPlans = append(out.DayPlans, DayPlan{
			Day:  n,
			Date: types.AddDays(in.Start, n-1),
			Morning: []ActivityCard{in.card(d.Morning,
				fmt.Sprintf("Morning Activity %d", n), "2-3 hours", firstN(in.Interests, 2, "sightseeing"))},
			Afternoon: []ActivityCard{in.card(d.Afternoon,
				fmt.Sprintf("Afternoon Activity %d", n), "3-4 hours", firstN(in.Interests, len(in.Interests), "culture"))},
			Evening: []ActivityCard{in.card(d.Evening,
				fmt.Sprintf("Evening Activity %d", n), "2-3 hours", []string{"dining", "entertainment"})},
		})
	}

	for i, r := range plan.Restaurants {
		if i >= maxRestaurants {
			break
		}
		dietary := r.Dietary
		if dietary == nil {
			dietary = append([]string{}, in.Dietary...)
		}
		out.RestaurantRecommendations = append(out.RestaurantRecommendations, RestaurantRec{
			Name:        orDefault(r.Name, "Local Restaurant"),
			Cuisine:     orDefault(r.Cuisine, "Local Cuisine"),
			Address:     orDefault(r.Address, in.Location),
			PriceTier:   in.Budget,
			DietaryTags: dietary,
		})
	}

	out.PackingChecklist = plan.Packing
	if len(out.PackingChecklist) == 0 {
		out.PackingChecklist = GeneratePackingList("", in.Interests, in.Duration)
	}

	out.Summary = strings.TrimSpace(plan.Summary)
	if out.Summary == "" {
		out.Summary = fmt.Sprintf("Your %d-day trip to %s is planned!", in.Duration, in.Location)
	}
	return out
}

// FallbackItinerary is the plan returned when the model is unavailable or its
// output cannot be parsed.
func FallbackItinerary(in PlanInput, summary string) *Itinerary {
	return &Itinerary{
		DayPlans:                  []DayPlan{},
		RestaurantRecommendations: []RestaurantRec{},
		PackingChecklist:          GeneratePackingList("", in.Interests, in.Duration),
		Summary:                   strings.TrimSpace(summary),
	}
}

func (in PlanInput) card(slot *modelSlot, title, duration string, tags []string) ActivityCard {
	var s modelSlot
	if slot != nil {
		s = *slot
	}
	return ActivityCard{
		Title:              orDefault(s.Title, title),
		Address:            orDefault(s.Address, in.Location),
		PriceTier:          in.Budget,
		Duration:           orDefault(s.Duration, duration),
		Tags:               tags,
		WheelchairFriendly: true,
		ChildFriendly:      true,
	}
}

func firstN(items []string, n int, fallback string) []string {
	if len(items) == 0 {
		return []string{fallback}
	}
	if n > len(items) {
		n = len(items)
	}
	return append([]string{}, items[:n]...)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
