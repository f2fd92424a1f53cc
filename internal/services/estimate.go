package services

import "strings"

// ParseProductInterest splits the lead's free-text product interest into
// distinct product names: comma-separated, trimmed, deduplicated by exact
// name. The field is user-typed, so this sits outside the state machine's
// trust boundary — a name the catalog does not know simply contributes
// nothing to the estimate.
func ParseProductInterest(raw string) []string {
	seen := map[string]bool{}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// EstimateTotal sums catalog prices for the given product names. Best-effort
// pricing, not authoritative: unmatched names contribute zero.
func EstimateTotal(names []string, prices map[string]float64) float64 {
	var total float64
	for _, name := range names {
		total += prices[name]
	}
	return total
}
