package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"concierge/internal/ai"
	"concierge/internal/modules/booking"
	"concierge/internal/modules/conversation"
	"concierge/internal/modules/property"
	"concierge/internal/search"
	"concierge/internal/types"
)

const (
	unavailableReply      = "I can help you with your query, but AI functionality is currently unavailable."
	unavailableSuggestion = "Please ensure a language model API key is configured."
	apologyReply          = "I'm sorry, I couldn't reach the AI service just now. Please try again in a moment."
	followUpSuggestion    = "Feel free to ask me anything else about your trip!"
	healthMessage         = "AI Concierge Agent is running"
	defaultHistoryLimit   = 10
	defaultModelTimeout   = 60 * time.Second
)

type BookingLookup interface {
	Lookup(ctx context.Context, id int64) *booking.Record
}

type PropertyLister interface {
	ListForOwner(ctx context.Context, ownerID int64) []property.Listing
}

type ConversationStore interface {
	History(ctx context.Context, userID int64, limit int) []conversation.Turn
	Append(ctx context.Context, userID int64, message string, role conversation.Role) bool
}

type QuotaGuard interface {
	Enabled() bool
	UseToken(ctx context.Context, userID int64) error
}

// Researcher is the search surface the concierge uses; *search.Gateway implements it.
type Researcher interface {
	Available() bool
	WebAvailable() bool
	Search(ctx context.Context, query string) []search.Snippet
	PointsOfInterest(ctx context.Context, location string, interests []string) []search.Snippet
	Restaurants(ctx context.Context, location string, dietary []string) []search.Snippet
	Events(ctx context.Context, location, dates string) []search.Snippet
	Weather(ctx context.Context, location, dates string) string
}

type Deps struct {
	Model         ai.Model
	Search        Researcher
	Bookings      BookingLookup
	Properties    PropertyLister
	Conversations ConversationStore
	Quota         QuotaGuard
	Logger        *zap.Logger
}

type Options struct {
	ModelTimeout       time.Duration
	HistoryLimit       int
	ContextBudget      int
	DatabaseConfigured bool
}

// Concierge orchestrates itinerary planning and freeform questions.
type Concierge struct {
	deps Deps
	opts Options
	log  *zap.Logger
}

func NewConcierge(deps Deps, opts Options) *Concierge {
	if deps.Model == nil {
		deps.Model = ai.Unavailable{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Search == nil {
		deps.Search = search.NewGateway(nil, nil, 0, deps.Logger)
	}
	if opts.ModelTimeout <= 0 {
		opts.ModelTimeout = defaultModelTimeout
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	return &Concierge{deps: deps, opts: opts, log: deps.Logger}
}

// Plan generates a day-by-day itinerary. Upstream failures degrade to the
// fallback plan; only invalid input and an exhausted quota return errors.
func (c *Concierge) Plan(ctx context.Context, req AgentRequest) (*Itinerary, error) {
	req.Normalize()
	bc := req.BookingContext

	start, err := types.ParseDate(bc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date: %v", ErrBadRequest, err)
	}
	end, err := types.ParseDate(bc.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date: %v", ErrBadRequest, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrBadRequest)
	}

	location := bc.Location
	if c.deps.Bookings != nil {
		if rec := c.deps.Bookings.Lookup(ctx, bc.BookingID); rec != nil && rec.Location != "" {
			location = rec.Location
		}
	}

	in := PlanInput{
		Location:  location,
		Start:     start,
		Duration:  types.DaysBetween(start, end),
		Budget:    req.Preferences.Budget,
		Interests: req.Preferences.Interests,
		Dietary:   req.Preferences.DietaryFilters,
	}
	dateRange := fmt.Sprintf("%s to %s", bc.StartDate, bc.EndDate)

	if !c.deps.Model.Available() {
		return FallbackItinerary(in, fmt.Sprintf("Your %d-day trip to %s", in.Duration, location)), nil
	}
	if err := c.useQuota(ctx, req.UserID); err != nil {
		return nil, err
	}

	var research *Research
	if c.deps.Search.Available() {
		research = c.research(ctx, in, dateRange)
	}

	prompt := ItineraryPrompt(ItineraryPromptInput{
		Location:    location,
		DateRange:   dateRange,
		Duration:    in.Duration,
		Guests:      bc.NumberOfGuests,
		Budget:      in.Budget,
		Interests:   in.Interests,
		Dietary:     in.Dietary,
		Research:    research,
		BudgetChars: c.opts.ContextBudget,
	})

	raw, err := c.invoke(ctx, "plan", []ai.Message{ai.User(prompt)})
	if err != nil {
		return FallbackItinerary(in, fmt.Sprintf("Your %d-day trip to %s", in.Duration, location)), nil
	}

	plan, err := DecodeItinerary(raw, in)
	if err != nil {
		c.log.Warn("model plan could not be decoded; using fallback", zap.Error(err))
	}
	return plan, nil
}

// research fans out the four lookups; each absorbs its own failure.
func (c *Concierge) research(ctx context.Context, in PlanInput, dateRange string) *Research {
	r := &Research{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.PointsOfInterest = c.deps.Search.PointsOfInterest(gctx, in.Location, in.Interests)
		return nil
	})
	g.Go(func() error {
		r.Restaurants = c.deps.Search.Restaurants(gctx, in.Location, in.Dietary)
		return nil
	})
	g.Go(func() error {
		r.Events = c.deps.Search.Events(gctx, in.Location, dateRange)
		return nil
	})
	g.Go(func() error {
		r.Weather = c.deps.Search.Weather(gctx, in.Location, dateRange)
		return nil
	})
	_ = g.Wait()
	return r
}

// Query answers a freeform question with the caller's role context and history.
func (c *Concierge) Query(ctx context.Context, req AgentRequest) (*QueryResponse, error) {
	query := strings.TrimSpace(req.CustomQuery)
	if query == "" {
		return nil, fmt.Errorf("%w: custom_query is required", ErrBadRequest)
	}
	req.Normalize()
	bc := req.BookingContext

	if !c.deps.Model.Available() {
		return &QueryResponse{Response: unavailableReply, Results: []string{}, Suggestions: unavailableSuggestion}, nil
	}
	if err := c.useQuota(ctx, req.UserID); err != nil {
		return nil, err
	}

	var history []conversation.Turn
	if req.UserID != 0 && c.deps.Conversations != nil {
		history = c.deps.Conversations.History(ctx, req.UserID, c.opts.HistoryLimit)
	}

	var listings []property.Listing
	if req.UserType == UserTypeOwner && req.UserID != 0 && c.deps.Properties != nil {
		listings = c.deps.Properties.ListForOwner(ctx, req.UserID)
	}

	var hits []search.Snippet
	if c.deps.Search.WebAvailable() {
		hits = c.deps.Search.Search(ctx, fmt.Sprintf("%s in %s", query, bc.Location))
	}

	system := QuerySystemPrompt(QueryPromptInput{
		UserName:   req.UserName,
		UserType:   req.UserType,
		Location:   bc.Location,
		StartDate:  bc.StartDate,
		EndDate:    bc.EndDate,
		Guests:     bc.NumberOfGuests,
		Properties: listings,
		Search:     hits,
	})
	c.log.Debug("query context composed",
		zap.String("user_type", req.UserType),
		zap.Int("history", len(history)),
		zap.Int("search_results", len(hits)),
		zap.Int("system_chars", len(system)),
	)

	reply, err := c.invoke(ctx, "query", QueryMessages(system, history, query, c.opts.ContextBudget))
	if err != nil {
		return &QueryResponse{Response: apologyReply, Results: []string{}, Suggestions: followUpSuggestion}, nil
	}

	if req.UserID != 0 && c.deps.Conversations != nil {
		c.deps.Conversations.Append(ctx, req.UserID, query, conversation.RoleUser)
		c.deps.Conversations.Append(ctx, req.UserID, reply, conversation.RoleAssistant)
	}
	return &QueryResponse{Response: reply, Results: []string{}, Suggestions: followUpSuggestion}, nil
}

// Health reports which integrations were configured at startup.
func (c *Concierge) Health(ctx context.Context) Health {
	return Health{
		Status:             "OK",
		Message:            healthMessage,
		Model:              c.deps.Model.Name(),
		SearchConfigured:   c.deps.Search.Available(),
		LLMConfigured:      c.deps.Model.Available(),
		DatabaseConfigured: c.opts.DatabaseConfigured,
		QuotaEnabled:       c.deps.Quota != nil && c.deps.Quota.Enabled(),
	}
}

func (c *Concierge) useQuota(ctx context.Context, userID int64) error {
	if c.deps.Quota == nil {
		return nil
	}
	return c.deps.Quota.UseToken(ctx, userID)
}

// invoke applies the model timeout and logs latency. Any error, including
// deadline expiry, is treated by callers as the model being unavailable.
func (c *Concierge) invoke(ctx context.Context, op string, msgs []ai.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ModelTimeout)
	defer cancel()

	start := time.Now()
	reply, err := c.deps.Model.Invoke(ctx, msgs)
	elapsed := time.Since(start)
	if err != nil {
		level := c.log.Warn
		if errors.Is(err, context.DeadlineExceeded) {
			level = c.log.Error
		}
		level("model invocation failed", zap.String("op", op), zap.String("model", c.deps.Model.Name()),
			zap.Duration("duration", elapsed), zap.Error(err))
		return "", err
	}
	c.log.Info("model invocation completed", zap.String("op", op), zap.String("model", c.deps.Model.Name()),
		zap.Duration("duration", elapsed))
	return reply, nil
}
