package domain

// IntentType enumerates the classified purposes of a user query.
type IntentType string

const (
	IntentComparison     IntentType = "comparison"
	IntentDietary        IntentType = "dietary"
	IntentMenuItem       IntentType = "menu_item"
	IntentRestaurantInfo IntentType = "restaurant_info"
	IntentGeneric        IntentType = "generic"
)

// Intent is the tagged result of query classification. Exactly the payload
// fields for the matching Type are set.
type Intent struct {
	Type IntentType

	// Restaurants holds the ordered restaurant names of a comparison
	// intent (always >= 2 entries).
	Restaurants []string

	// Preference is the matched dietary term of a dietary intent.
	Preference string

	// Restaurant is the known restaurant name of a restaurant-info intent.
	Restaurant string

	// Query is the raw query carried by menu-item and generic intents.
	Query string
}

func ComparisonIntent(restaurants []string) Intent {
	return Intent{Type: IntentComparison, Restaurants: restaurants}
}

func DietaryIntent(preference string) Intent {
	return Intent{Type: IntentDietary, Preference: preference}
}

func MenuItemIntent(query string) Intent {
	return Intent{Type: IntentMenuItem, Query: query}
}

func RestaurantInfoIntent(restaurant string) Intent {
	return Intent{Type: IntentRestaurantInfo, Restaurant: restaurant}
}

func GenericIntent(query string) Intent {
	return Intent{Type: IntentGeneric, Query: query}
}
