package service

import (
	"fmt"
	"strings"

	"concierge/internal/ai"
	"concierge/internal/modules/conversation"
	"concierge/internal/modules/property"
	"concierge/internal/search"
)

const historyReminder = "\n\nRemember previous context from the conversation history."

// Research is the optional live context gathered before planning.
type Research struct {
	PointsOfInterest []search.Snippet
	Restaurants      []search.Snippet
	Events           []search.Snippet
	Weather          string
}

type ItineraryPromptInput struct {
	Location  string
	DateRange string
	Duration  int
	Guests    int
	Budget    string
	Interests []string
	Dietary   []string
	Research  *Research
	// BudgetChars bounds the research block; 0 means unbounded.
	BudgetChars int
}

// ItineraryPrompt builds the single instruction sent to the model for a plan.
func ItineraryPrompt(in ItineraryPromptInput) string {
	interests := "general sightseeing"
	if len(in.Interests) > 0 {
		interests = strings.Join(in.Interests, ", ")
	}
	dietary := "no restrictions"
	if len(in.Dietary) > 0 {
		dietary = strings.Join(in.Dietary, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a travel planning expert. Create a detailed %d-day itinerary for %s.\n\n", in.Duration, in.Location)
	b.WriteString("Trip Details:\n")
	fmt.Fprintf(&b, "- Location: %s\n", in.Location)
	fmt.Fprintf(&b, "- Dates: %s\n", in.DateRange)
	fmt.Fprintf(&b, "- Duration: %d days\n", in.Duration)
	fmt.Fprintf(&b, "- Number of guests: %d\n", in.Guests)
	fmt.Fprintf(&b, "- Budget: %s\n", in.Budget)
	fmt.Fprintf(&b, "- Interests: %s\n", interests)
	fmt.Fprintf(&b, "- Dietary preferences: %s\n", dietary)
	b.WriteString(`
For each day, provide:
1. Morning activity (specific place name, not generic)
2. Afternoon activity (specific place name, not generic)
3. Evening activity (specific place name, not generic)

Also provide:
- 3-5 specific restaurant recommendations with cuisine type
- A packing list based on weather and activities

Format your response as JSON with this structure:
{
  "days": [
    {
      "day": 1,
      "morning": {"title": "Specific Place Name", "address": "Area/District", "duration": "2-3 hours"},
      "afternoon": {"title": "Specific Place Name", "address": "Area/District", "duration": "3-4 hours"},
      "evening": {"title": "Specific Place Name", "address": "Area/District", "duration": "2-3 hours"}
    }
  ],
  "restaurants": [
    {"name": "Restaurant Name", "cuisine": "Type", "address": "Location", "dietary": ["tags"]}
  ],
  "packing": ["item1", "item2", ...],
  "summary": "Brief summary of the trip plan"
}

Be specific! Use real places, cafes, hiking trails, museums, etc. based on the interests.`)

	if in.Research != nil {
		b.WriteString(researchBlock(in.Research, in.BudgetChars))
	}
	return b.String()
}

func researchBlock(r *Research, budget int) string {
	var b strings.Builder
	b.WriteString("\n\nLocal research (use these real places and conditions where relevant):\n")
	header := b.Len()

	if w := strings.TrimSpace(r.Weather); w != "" && w != search.WeatherUnavailable {
		fmt.Fprintf(&b, "\nWeather: %s\n", w)
	}
	writeSnippets(&b, "Attractions", r.PointsOfInterest)
	writeSnippets(&b, "Restaurants", r.Restaurants)
	writeSnippets(&b, "Events", r.Events)

	if b.Len() == header {
		return ""
	}
	return truncate(b.String(), budget)
}

func writeSnippets(b *strings.Builder, label string, hits []search.Snippet) {
	if len(hits) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", label)
	for _, h := range hits {
		fmt.Fprintf(b, "- %s: %s\n", h.Title, h.Content)
	}
}

type QueryPromptInput struct {
	UserName   string
	UserType   string
	Location   string
	StartDate  string
	EndDate    string
	Guests     int
	Properties []property.Listing
	Search     []search.Snippet
}

// QuerySystemPrompt selects the role template for the caller and appends search results.
func QuerySystemPrompt(in QueryPromptInput) string {
	name := in.UserName
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	userType := in.UserType
	if strings.TrimSpace(userType) == "" {
		userType = "guest"
	}

	var role string
	switch userType {
	case UserTypeOwner:
		role = ownerTemplate(name, in.Properties)
	case UserTypeTraveler:
		role = travelerTemplate(name, in)
	default:
		role = genericTemplate
	}
	return role + searchBlock(in.Search) + historyReminder
}

func ownerTemplate(name string, listings []property.Listing) string {
	return fmt.Sprintf(`You are an AI assistant integrated into an Airbnb-like platform.
The user is %s, a property OWNER (not a traveler).
%s

IMPORTANT - Answer Questions Directly:
- When they ask about their properties, use the property data above to answer specifically
- When they ask if they have a property matching a description, search through the properties listed above
- When they ask about specific properties, refer to the actual property details provided
- Be specific with property names, locations, prices, and details

You can provide guidance on:
- Information about their specific properties (using the data above)
- How to create and manage property listings
- Best practices for responding to booking requests
- Pricing strategies and tips based on their current listings
- Guest communication advice
- Property management tips

Be direct, friendly, and helpful. Use the actual property data to give specific answers.`, name, propertiesBlock(listings))
}

func propertiesBlock(listings []property.Listing) string {
	if len(listings) == 0 {
		return "\n\nYou currently have NO properties listed on the platform."
	}
	var b strings.Builder
	b.WriteString("\n\nYour Current Properties:\n")
	for _, p := range listings {
		location := p.Location
		if p.City != "" {
			location += ", " + p.City
		}
		if p.State != "" {
			location += ", " + p.State
		}
		amenities := p.Amenities
		if strings.TrimSpace(amenities) == "" {
			amenities = "N/A"
		}
		status := "Inactive"
		if p.IsActive {
			status = "Active"
		}
		fmt.Fprintf(&b, "\n- %s (%s)\n", p.Name, p.Type)
		fmt.Fprintf(&b, "  Location: %s\n", location)
		fmt.Fprintf(&b, "  Description: %s\n", p.Description)
		fmt.Fprintf(&b, "  Price: $%.2f/night\n", p.PricePerNight)
		fmt.Fprintf(&b, "  Bedrooms: %d, Bathrooms: %d, Max Guests: %d\n", p.Bedrooms, p.Bathrooms, p.MaxGuests)
		fmt.Fprintf(&b, "  Amenities: %s\n", amenities)
		fmt.Fprintf(&b, "  Status: %s\n", status)
	}
	return b.String()
}

// The traveler template asks the model to invent plausible weather figures.
// Product keeps this behaviour on purpose.
func travelerTemplate(name string, in QueryPromptInput) string {
	return fmt.Sprintf(`You are a helpful AI assistant for %[1]s, who is a TRAVELER on an Airbnb-like platform.

Current Trip Context:
- Location: %[2]s
- Dates: %[3]s to %[4]s
- Number of guests: %[5]d

IMPORTANT - Context Awareness:
- When they ask "am I in traveler page?" or similar - Confirm YES, they are logged in as a traveler and viewing the traveler interface
- When they ask about the current page - Explain they're on the traveler view where they can manage bookings, view properties, and plan trips
- When they ask navigation questions - Guide them to specific sections like "My Bookings", "Browse Properties", "My Profile", etc.

WEATHER INFORMATION:
- When asked about weather, provide realistic temperature forecasts based on the location and season
- For %[2]s, generate plausible temperatures and weather conditions (e.g., "Expected temperatures: highs around 65-70°F, lows around 45-50°F. Expect partly cloudy skies with a chance of afternoon showers.")
- Always provide helpful packing suggestions based on the weather you describe
- BE SPECIFIC with numbers - don't say "I can't provide real-time data"

You can help them with:
- Trip planning and itinerary suggestions for %[2]s
- Local recommendations for restaurants, activities, and attractions
- Weather forecasts (generate realistic estimates based on location and season)
- Travel tips and advice
- Booking and accommodation questions
- Transportation and logistics
- Navigating the platform features

Be direct, friendly, and helpful. Provide specific information rather than apologizing for limitations.`,
		name, in.Location, in.StartDate, in.EndDate, in.Guests)
}

const genericTemplate = `You are a helpful AI assistant for the Airbnb platform.
Help users with their questions about travel, bookings, or property management.
Provide helpful and friendly responses.`

func searchBlock(hits []search.Snippet) string {
	if len(hits) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nREAL-TIME WEB SEARCH RESULTS:\n")
	for i, h := range hits {
		if i >= search.MaxResults {
			break
		}
		title := h.Title
		if title == "" {
			title = "Result"
		}
		fmt.Fprintf(&b, "\n%d. %s\n   %s\n   Source: %s\n", i+1, title, h.Content, h.URL)
	}
	return b.String()
}

// QueryMessages orders the conversation as system, history (oldest first), query.
// History is dropped from the oldest end until everything fits in budgetChars;
// the system prompt and the query are always kept. budgetChars <= 0 disables trimming.
func QueryMessages(system string, history []conversation.Turn, query string, budgetChars int) []ai.Message {
	if budgetChars > 0 {
		used := len(system) + len(query)
		for _, t := range history {
			used += len(t.Message)
		}
		for len(history) > 0 && used > budgetChars {
			used -= len(history[0].Message)
			history = history[1:]
		}
	}

	msgs := make([]ai.Message, 0, len(history)+2)
	msgs = append(msgs, ai.System(system))
	for _, t := range history {
		if t.Role == conversation.RoleUser {
			msgs = append(msgs, ai.User(t.Message))
		} else {
			msgs = append(msgs, ai.Assistant(t.Message))
		}
	}
	return append(msgs, ai.User(query))
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := s[:limit]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i+1]
	}
	return cut
}
