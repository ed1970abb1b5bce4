package intent

import (
	"regexp"
	"strings"

	"menurag/internal/domain"
)

// Heuristic keyword rules, tested in a fixed priority order. This is a
// best-effort classifier, not a statistical model; restaurant names are
// matched by substring containment against the known names, which is
// fragile for names made of common words.
var (
	comparisonRe = regexp.MustCompile(`compare|comparison|versus|vs\.?|difference`)
	betweenRe    = regexp.MustCompile(`between\s+([a-zA-Z\s]+)\s+and\s+([a-zA-Z\s]+)`)
	menuItemRe   = regexp.MustCompile(`menu|item|dish|food|appetizer|entree|dessert`)
	restaurantRe = regexp.MustCompile(`restaurant|location|address|hour|contact`)

	dietaryTerms = []string{"vegetarian", "vegan", "gluten-free", "gluten free", "nut-free", "dairy-free"}
)

// Classify maps a raw query to an intent. knownRestaurants are the
// restaurant names present in the store; they anchor the comparison and
// restaurant-info rules. First matching rule wins.
func Classify(query string, knownRestaurants []string) domain.Intent {
	lower := strings.ToLower(query)

	if comparisonRe.MatchString(lower) {
		if names := extractRestaurants(lower, knownRestaurants); len(names) >= 2 {
			return domain.ComparisonIntent(names)
		}
		// A comparison keyword alone is not enough; fall through.
	}

	for _, term := range dietaryTerms {
		if strings.Contains(lower, term) {
			return domain.DietaryIntent(term)
		}
	}

	if menuItemRe.MatchString(lower) {
		return domain.MenuItemIntent(query)
	}

	if restaurantRe.MatchString(lower) {
		for _, name := range knownRestaurants {
			if name != "" && strings.Contains(lower, strings.ToLower(name)) {
				return domain.RestaurantInfoIntent(name)
			}
		}
	}

	return domain.GenericIntent(query)
}

// extractRestaurants pulls restaurant names out of a lowercased comparison
// query: first by the "between X and Y" pattern, otherwise by scanning the
// known names for substring presence.
func extractRestaurants(lower string, knownRestaurants []string) []string {
	if m := betweenRe.FindStringSubmatch(lower); m != nil {
		return []string{strings.TrimSpace(m[1]), strings.TrimSpace(m[2])}
	}
	var names []string
	for _, name := range knownRestaurants {
		if name != "" && strings.Contains(lower, strings.ToLower(name)) {
			names = append(names, name)
		}
	}
	return names
}
