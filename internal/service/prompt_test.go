package service

import (
	"strings"
	"testing"

	"concierge/internal/ai"
	"concierge/internal/modules/conversation"
	"concierge/internal/modules/property"
	"concierge/internal/search"
)

func TestOwnerPromptWithoutProperties(t *testing.T) {
	got := QuerySystemPrompt(QueryPromptInput{UserName: "Dana", UserType: UserTypeOwner})
	if !strings.Contains(got, "You currently have NO properties listed on the platform.") {
		t.Fatalf("missing no-properties statement:\n%s", got)
	}
	if !strings.Contains(got, "The user is Dana, a property OWNER") {
		t.Fatal("owner name not injected")
	}
	if !strings.HasSuffix(got, historyReminder) {
		t.Fatal("history reminder should end the system prompt")
	}
}

func TestOwnerPromptListsProperty(t *testing.T) {
	got := QuerySystemPrompt(QueryPromptInput{
		UserType: UserTypeOwner,
		Properties: []property.Listing{{
			Name: "Seaside Cottage", Type: "cottage", Location: "Cape Cod", City: "Chatham", State: "MA",
			Description: "Steps from the beach", PricePerNight: 185.5, Bedrooms: 2, Bathrooms: 1, MaxGuests: 4,
			IsActive: true,
		}},
	})
	for _, want := range []string{
		"- Seaside Cottage (cottage)",
		"Location: Cape Cod, Chatham, MA",
		"Price: $185.50/night",
		"Bedrooms: 2, Bathrooms: 1, Max Guests: 4",
		"Amenities: N/A",
		"Status: Active",
		"The user is there,",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(got, "NO properties") {
		t.Error("should not claim there are no properties")
	}
}

func TestTravelerPrompt(t *testing.T) {
	got := QuerySystemPrompt(QueryPromptInput{
		UserName: "Sam", UserType: UserTypeTraveler,
		Location: "Reykjavik", StartDate: "2025-01-10", EndDate: "2025-01-14", Guests: 2,
	})
	for _, want := range []string{
		"for Sam, who is a TRAVELER",
		"- Location: Reykjavik",
		"- Dates: 2025-01-10 to 2025-01-14",
		"- Number of guests: 2",
		"Confirm YES",
		"generate plausible temperatures",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestGenericPromptAndSearchBlock(t *testing.T) {
	got := QuerySystemPrompt(QueryPromptInput{
		Search: []search.Snippet{
			{Title: "Blue Lagoon", Content: "Geothermal spa", URL: "https://a"},
			{Content: "untitled", URL: "https://b"},
		},
	})
	if !strings.HasPrefix(got, genericTemplate) {
		t.Fatal("anonymous caller should get the generic template")
	}
	if !strings.Contains(got, "REAL-TIME WEB SEARCH RESULTS:\n\n1. Blue Lagoon\n   Geothermal spa\n   Source: https://a\n") {
		t.Fatalf("search block malformed:\n%s", got)
	}
	if !strings.Contains(got, "2. Result\n") {
		t.Fatal("untitled result should be labelled Result")
	}
}

func TestItineraryPrompt(t *testing.T) {
	got := ItineraryPrompt(ItineraryPromptInput{
		Location: "Lisbon", DateRange: "2025-06-01 to 2025-06-04", Duration: 3, Guests: 2, Budget: "moderate",
	})
	for _, want := range []string{
		"Create a detailed 3-day itinerary for Lisbon.",
		"- Duration: 3 days",
		"- Interests: general sightseeing",
		"- Dietary preferences: no restrictions",
		`"restaurants": [`,
		"3-5 specific restaurant recommendations",
		"Use real places",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(got, "Local research") {
		t.Error("no research block expected")
	}

	withResearch := ItineraryPrompt(ItineraryPromptInput{
		Location: "Lisbon", Duration: 3,
		Research: &Research{
			Weather:          "Sunny, 27C",
			PointsOfInterest: []search.Snippet{{Title: "Jeronimos Monastery", Content: "Belem"}},
		},
	})
	if !strings.Contains(withResearch, "Weather: Sunny, 27C") || !strings.Contains(withResearch, "- Jeronimos Monastery: Belem") {
		t.Fatalf("research block missing:\n%s", withResearch)
	}

	empty := ItineraryPrompt(ItineraryPromptInput{Location: "Lisbon", Research: &Research{Weather: search.WeatherUnavailable}})
	if strings.Contains(empty, "Local research") {
		t.Error("empty research should add nothing")
	}
}

func TestQueryMessagesOrderAndBudget(t *testing.T) {
	history := []conversation.Turn{
		{Message: strings.Repeat("a", 50), Role: conversation.RoleUser},
		{Message: strings.Repeat("b", 50), Role: conversation.RoleAssistant},
		{Message: "recent", Role: conversation.RoleUser},
	}

	msgs := QueryMessages("sys", history, "now?", 0)
	if len(msgs) != 5 {
		t.Fatalf("len = %d", len(msgs))
	}
	if msgs[0].Role != ai.RoleSystem || msgs[2].Role != ai.RoleAssistant || msgs[4].Content != "now?" {
		t.Fatalf("messages = %+v", msgs)
	}

	trimmed := QueryMessages("sys", history, "now?", 70)
	if len(trimmed) != 4 || trimmed[1].Content != strings.Repeat("b", 50) {
		t.Fatalf("trimmed = %+v", trimmed)
	}

	tiny := QueryMessages("sys", history, "now?", 1)
	if len(tiny) != 2 || tiny[0].Role != ai.RoleSystem || tiny[1].Content != "now?" {
		t.Fatalf("tiny budget = %+v", tiny)
	}
}
