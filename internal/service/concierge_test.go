package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"concierge/internal/ai"
	"concierge/internal/modules/booking"
	"concierge/internal/modules/conversation"
	"concierge/internal/modules/property"
	"concierge/internal/modules/quota"
	"concierge/internal/search"
)

type stubModel struct {
	reply string
	err   error
	wait  bool
	calls [][]ai.Message
}

func (m *stubModel) Name() string    { return "stub" }
func (m *stubModel) Available() bool { return true }

func (m *stubModel) Invoke(ctx context.Context, msgs []ai.Message) (string, error) {
	m.calls = append(m.calls, msgs)
	if m.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.reply, m.err
}

type stubResearcher struct {
	mu      sync.Mutex
	web     bool
	queries []string
}

func (s *stubResearcher) record(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
}

func (s *stubResearcher) Available() bool    { return s.web }
func (s *stubResearcher) WebAvailable() bool { return s.web }
func (s *stubResearcher) Search(ctx context.Context, q string) []search.Snippet {
	s.record(q)
	return []search.Snippet{{Title: "Tip", Content: "Take the tram", URL: "https://t"}}
}
func (s *stubResearcher) PointsOfInterest(ctx context.Context, loc string, in []string) []search.Snippet {
	s.record("poi")
	return []search.Snippet{{Title: "Castle", Content: "Hilltop"}}
}
func (s *stubResearcher) Restaurants(ctx context.Context, loc string, d []string) []search.Snippet {
	s.record("restaurants")
	return nil
}
func (s *stubResearcher) Events(ctx context.Context, loc, dates string) []search.Snippet {
	s.record("events")
	return nil
}
func (s *stubResearcher) Weather(ctx context.Context, loc, dates string) string {
	s.record("weather")
	return "Sunny"
}

type stubBookings struct{ rec *booking.Record }

func (s stubBookings) Lookup(ctx context.Context, id int64) *booking.Record { return s.rec }

type stubProperties struct {
	listings []property.Listing
	calls    int
}

func (s *stubProperties) ListForOwner(ctx context.Context, id int64) []property.Listing {
	s.calls++
	return s.listings
}

type stubConversations struct {
	history  []conversation.Turn
	appended []conversation.Turn
	reads    int
}

func (s *stubConversations) History(ctx context.Context, uid int64, limit int) []conversation.Turn {
	s.reads++
	return s.history
}

func (s *stubConversations) Append(ctx context.Context, uid int64, msg string, role conversation.Role) bool {
	s.appended = append(s.appended, conversation.Turn{Message: msg, Role: role})
	return true
}

type stubQuota struct{ err error }

func (q stubQuota) Enabled() bool                                 { return true }
func (q stubQuota) UseToken(ctx context.Context, uid int64) error { return q.err }

func planRequest() AgentRequest {
	return AgentRequest{
		BookingContext: BookingContext{
			BookingID: 12, Location: "Edinburgh", StartDate: "2025-08-01T14:00:00Z", EndDate: "2025-08-05", NumberOfGuests: 2,
		},
		Preferences: Preferences{Interests: []string{"hike", "history"}},
	}
}

func TestPlanWithoutModel(t *testing.T) {
	c := NewConcierge(Deps{}, Options{})
	got, err := c.Plan(context.Background(), planRequest())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(got.DayPlans) != 0 || len(got.RestaurantRecommendations) != 0 {
		t.Fatalf("expected empty plan, got %+v", got)
	}
	for _, item := range baselinePacking {
		if !contains(got.PackingChecklist, item) {
			t.Errorf("missing baseline %q", item)
		}
	}
	if !contains(got.PackingChecklist, "Backpack") || !contains(got.PackingChecklist, laundryItem) {
		t.Errorf("interest and duration items missing: %v", got.PackingChecklist)
	}
	if got.Summary != "Your 4-day trip to Edinburgh" {
		t.Fatalf("summary = %q", got.Summary)
	}
}

func TestPlanRejectsBadDates(t *testing.T) {
	c := NewConcierge(Deps{}, Options{})
	for _, dates := range [][2]string{{"soon", "2025-08-05"}, {"2025-08-01", ""}, {"2025-08-05", "2025-08-01"}} {
		req := planRequest()
		req.BookingContext.StartDate, req.BookingContext.EndDate = dates[0], dates[1]
		if _, err := c.Plan(context.Background(), req); !errors.Is(err, ErrBadRequest) {
			t.Errorf("%v: err = %v, want ErrBadRequest", dates, err)
		}
	}
}

func TestPlanUsesBookingLocationAndResearch(t *testing.T) {
	model := &stubModel{reply: "```json\n" + `{"days":[{"day":1},{"day":2},{"day":3},{"day":4},{"day":5},{"day":6}],"summary":"Highlands"}` + "\n```"}
	researcher := &stubResearcher{web: true}
	c := NewConcierge(Deps{
		Model:    model,
		Search:   researcher,
		Bookings: stubBookings{rec: &booking.Record{Location: "Glasgow, Scotland"}},
	}, Options{})

	got, err := c.Plan(context.Background(), planRequest())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(got.DayPlans) != 4 {
		t.Fatalf("days = %d, want 4", len(got.DayPlans))
	}
	if got.DayPlans[0].Date != "2025-08-01" || got.DayPlans[3].Date != "2025-08-04" {
		t.Fatalf("dates = %s..%s", got.DayPlans[0].Date, got.DayPlans[3].Date)
	}
	if got.DayPlans[0].Morning[0].Address != "Glasgow, Scotland" {
		t.Fatalf("booking location not applied: %+v", got.DayPlans[0].Morning[0])
	}
	if len(researcher.queries) != 4 {
		t.Fatalf("research calls = %v", researcher.queries)
	}
	prompt := model.calls[0][0].Content
	if !strings.Contains(prompt, "4-day itinerary for Glasgow, Scotland") || !strings.Contains(prompt, "Castle: Hilltop") {
		t.Fatalf("prompt missing context:\n%s", prompt)
	}
}

func TestPlanModelFailureFallsBack(t *testing.T) {
	for name, model := range map[string]*stubModel{
		"error":   {err: errors.New("503")},
		"timeout": {wait: true},
		"garbage": {reply: "I would love to help!"},
	} {
		t.Run(name, func(t *testing.T) {
			c := NewConcierge(Deps{Model: model}, Options{ModelTimeout: 20 * time.Millisecond})
			got, err := c.Plan(context.Background(), planRequest())
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			if len(got.DayPlans) != 0 || !strings.Contains(got.Summary, "4-day") || !strings.Contains(got.Summary, "Edinburgh") {
				t.Fatalf("plan = %+v", got)
			}
		})
	}
}

func TestPlanQuotaExhausted(t *testing.T) {
	req := planRequest()
	req.UserID = 4
	c := NewConcierge(Deps{Model: &stubModel{reply: "{}"}, Quota: stubQuota{err: quota.ErrExhausted}}, Options{})
	if _, err := c.Plan(context.Background(), req); !errors.Is(err, quota.ErrExhausted) {
		t.Fatalf("err = %v", err)
	}
}

func TestQueryRejectsEmptyBeforeCalls(t *testing.T) {
	model := &stubModel{reply: "hi"}
	researcher := &stubResearcher{web: true}
	convs := &stubConversations{}
	props := &stubProperties{}
	c := NewConcierge(Deps{Model: model, Search: researcher, Conversations: convs, Properties: props}, Options{})

	for _, q := range []string{"", "   \n"} {
		req := planRequest()
		req.CustomQuery, req.UserID, req.UserType = q, 3, UserTypeOwner
		if _, err := c.Query(context.Background(), req); !errors.Is(err, ErrBadRequest) {
			t.Fatalf("err = %v, want ErrBadRequest", err)
		}
	}
	if len(model.calls) != 0 || len(researcher.queries) != 0 || convs.reads != 0 || props.calls != 0 {
		t.Fatal("no external call may happen for an empty query")
	}
}

func TestQueryWithoutModel(t *testing.T) {
	req := planRequest()
	req.CustomQuery = "what to pack?"
	got, err := NewConcierge(Deps{}, Options{}).Query(context.Background(), req)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got.Response != unavailableReply || got.Suggestions != unavailableSuggestion || got.Results == nil {
		t.Fatalf("response = %+v", got)
	}
}

func TestQueryOwnerFlowPersistsTurns(t *testing.T) {
	model := &stubModel{reply: "You have one cottage."}
	convs := &stubConversations{history: []conversation.Turn{
		{Message: "hello", Role: conversation.RoleUser},
		{Message: "hi Dana", Role: conversation.RoleAssistant},
	}}
	props := &stubProperties{listings: []property.Listing{{Name: "Seaside Cottage", PricePerNight: 185}}}
	researcher := &stubResearcher{web: true}
	c := NewConcierge(Deps{Model: model, Search: researcher, Conversations: convs, Properties: props}, Options{})

	req := planRequest()
	req.CustomQuery, req.UserID, req.UserType, req.UserName = "Which listings do I have?", 9, UserTypeOwner, "Dana"
	got, err := c.Query(context.Background(), req)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got.Response != "You have one cottage." || got.Suggestions != followUpSuggestion {
		t.Fatalf("response = %+v", got)
	}

	msgs := model.calls[0]
	if len(msgs) != 4 || msgs[1].Content != "hello" || msgs[3].Content != "Which listings do I have?" {
		t.Fatalf("messages = %+v", msgs)
	}
	if !strings.Contains(msgs[0].Content, "Seaside Cottage") || !strings.Contains(msgs[0].Content, "Take the tram") {
		t.Fatal("system prompt should carry properties and search results")
	}
	if researcher.queries[0] != "Which listings do I have? in Edinburgh" {
		t.Fatalf("search query = %q", researcher.queries[0])
	}
	if len(convs.appended) != 2 || convs.appended[0].Role != conversation.RoleUser || convs.appended[1].Message != "You have one cottage." {
		t.Fatalf("appended = %+v", convs.appended)
	}
}

func TestQueryAnonymousSkipsPersistence(t *testing.T) {
	convs := &stubConversations{}
	props := &stubProperties{}
	c := NewConcierge(Deps{Model: &stubModel{reply: "ok"}, Conversations: convs, Properties: props}, Options{})

	req := planRequest()
	req.CustomQuery, req.UserType = "any tips?", UserTypeOwner
	if _, err := c.Query(context.Background(), req); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if convs.reads != 0 || len(convs.appended) != 0 || props.calls != 0 {
		t.Fatal("anonymous query must not touch persistence")
	}
}

func TestQueryModelFailureApologises(t *testing.T) {
	convs := &stubConversations{}
	c := NewConcierge(Deps{Model: &stubModel{err: errors.New("boom")}, Conversations: convs}, Options{})

	req := planRequest()
	req.CustomQuery, req.UserID = "hello?", 5
	got, err := c.Query(context.Background(), req)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got.Response != apologyReply {
		t.Fatalf("response = %q", got.Response)
	}
	if len(convs.appended) != 0 {
		t.Fatal("failed exchange must not be persisted")
	}
}

func TestHealth(t *testing.T) {
	h := NewConcierge(Deps{Model: &stubModel{}, Quota: stubQuota{}}, Options{DatabaseConfigured: true}).Health(context.Background())
	if h.Status != "OK" || !h.LLMConfigured || h.SearchConfigured || !h.DatabaseConfigured || !h.QuotaEnabled {
		t.Fatalf("health = %+v", h)
	}
}
