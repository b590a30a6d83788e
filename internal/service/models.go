// README: Request envelope and response shapes of the concierge operations.
package service

import "errors"

var (
	// ErrBadRequest marks client input errors (missing query, invalid dates).
	ErrBadRequest = errors.New("bad request")
)

const (
	DefaultBudget    = "moderate"
	DefaultPartyType = "solo"

	UserTypeOwner    = "owner"
	UserTypeTraveler = "traveler"
)

type BookingContext struct {
	BookingID      int64  `json:"booking_id"`
	Location       string `json:"location" binding:"required"`
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
	PartyType      string `json:"party_type"`
	NumberOfGuests int    `json:"number_of_guests"`
}

type Preferences struct {
	Budget         string   `json:"budget"`
	Interests      []string `json:"interests"`
	MobilityNeeds  string   `json:"mobility_needs,omitempty"`
	DietaryFilters []string `json:"dietary_filters"`
}

// AgentRequest is the envelope shared by the plan and query operations.
type AgentRequest struct {
	BookingContext BookingContext `json:"booking_context"`
	Preferences    Preferences    `json:"preferences"`
	CustomQuery    string         `json:"custom_query"`
	UserID         int64          `json:"user_id"`
	UserType       string         `json:"user_type"`
	UserName       string         `json:"user_name"`
}

// Normalize fills the documented defaults.
func (r *AgentRequest) Normalize() {
	if r.Preferences.Budget == "" {
		r.Preferences.Budget = DefaultBudget
	}
	if r.Preferences.Interests == nil {
		r.Preferences.Interests = []string{}
	}
	if r.Preferences.DietaryFilters == nil {
		r.Preferences.DietaryFilters = []string{}
	}
	if r.BookingContext.PartyType == "" {
		r.BookingContext.PartyType = DefaultPartyType
	}
}

type ActivityCard struct {
	Title              string   `json:"title"`
	Address            string   `json:"address"`
	PriceTier          string   `json:"price_tier"`
	Duration           string   `json:"duration"`
	Tags               []string `json:"tags"`
	WheelchairFriendly bool     `json:"wheelchair_friendly"`
	ChildFriendly      bool     `json:"child_friendly"`
}

type DayPlan struct {
	Day       int            `json:"day"`
	Date      string         `json:"date"`
	Morning   []ActivityCard `json:"morning"`
	Afternoon []ActivityCard `json:"afternoon"`
	Evening   []ActivityCard `json:"evening"`
}

type RestaurantRec struct {
	Name        string   `json:"name"`
	Cuisine     string   `json:"cuisine"`
	Address     string   `json:"address"`
	PriceTier   string   `json:"price_tier"`
	DietaryTags []string `json:"dietary_tags"`
}

// Itinerary is the plan response. Every list is non-nil.
type Itinerary struct {
	DayPlans                  []DayPlan       `json:"day_plans"`
	RestaurantRecommendations []RestaurantRec `json:"restaurant_recommendations"`
	PackingChecklist          []string        `json:"packing_checklist"`
	Summary                   string          `json:"summary"`
}

type QueryResponse struct {
	Response    string   `json:"response"`
	Results     []string `json:"results"`
	Suggestions string   `json:"suggestions"`
}

type Health struct {
	Status             string `json:"status"`
	Message            string `json:"message"`
	Model              string `json:"model"`
	SearchConfigured   bool   `json:"search_configured"`
	LLMConfigured      bool   `json:"llm_configured"`
	DatabaseConfigured bool   `json:"database_configured"`
	QuotaEnabled       bool   `json:"quota_enabled"`
}
