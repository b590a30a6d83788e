package service

import "strings"

var baselinePacking = []string{
	"Identification and travel documents",
	"Phone and chargers",
	"Wallet and payment methods",
	"Medications and prescriptions",
}

type packingRule struct {
	keywords []string
	items    []string
}

var weatherRules = []packingRule{
	{[]string{"rain", "shower"}, []string{"Umbrella", "Rain jacket", "Waterproof shoes"}},
	{[]string{"cold", "winter"}, []string{"Warm jacket", "Gloves", "Hat", "Layers"}},
	{[]string{"hot", "sunny"}, []string{"Sunscreen", "Sunglasses", "Hat", "Light clothing"}},
}

var activityRules = []packingRule{
	{[]string{"hike", "outdoor", "nature"}, []string{"Comfortable walking shoes", "Backpack", "Water bottle"}},
	{[]string{"beach", "swim", "pool"}, []string{"Swimwear", "Beach towel", "Flip flops"}},
}

const laundryItem = "Laundry detergent or laundry bag"

// GeneratePackingList builds a checklist from forecast text, activity tags and trip length.
// Matching is case-insensitive substring search. Items are unique; callers must not
// depend on their order.
func GeneratePackingList(weather string, activities []string, durationDays int) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 16)
	add := func(items ...string) {
		for _, it := range items {
			if !seen[it] {
				seen[it] = true
				out = append(out, it)
			}
		}
	}

	add(baselinePacking...)

	w := strings.ToLower(weather)
	for _, r := range weatherRules {
		if containsAny(w, r.keywords) {
			add(r.items...)
		}
	}

	a := strings.ToLower(strings.Join(activities, " "))
	for _, r := range activityRules {
		if containsAny(a, r.keywords) {
			add(r.items...)
		}
	}

	if durationDays > 3 {
		add(laundryItem)
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
