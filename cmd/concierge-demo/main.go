package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"concierge/internal/app"
	"concierge/internal/config"
	"concierge/internal/infra"
	"concierge/internal/service"
)

func main() {
	location := flag.String("location", "Lisbon, Portugal", "trip destination")
	start := flag.String("start", time.Now().AddDate(0, 0, 14).Format("2006-01-02"), "start date (YYYY-MM-DD)")
	end := flag.String("end", time.Now().AddDate(0, 0, 17).Format("2006-01-02"), "end date (YYYY-MM-DD)")
	interests := flag.String("interests", "food,history", "comma separated interests")
	dietary := flag.String("dietary", "", "comma separated dietary filters")
	query := flag.String("query", "", "ask a free-form question instead of planning")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := infra.NewLogger(false, "warn")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	a := app.New(ctx, cfg, logger)
	defer a.Close()

	req := service.AgentRequest{
		BookingContext: service.BookingContext{
			Location:  *location,
			StartDate: *start,
			EndDate:   *end,
		},
		Preferences: service.Preferences{
			Interests:      splitFlag(*interests),
			DietaryFilters: splitFlag(*dietary),
		},
		CustomQuery: *query,
		UserType:    "traveler",
	}
	req.Normalize()

	fmt.Printf("Model: %s\n", a.Model.Name())

	var out any
	if *query != "" {
		out, err = a.Concierge.Query(ctx, req)
	} else {
		out, err = a.Concierge.Plan(ctx, req)
	}
	if err != nil {
		log.Fatalf("concierge: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal(err)
	}
}

func splitFlag(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
