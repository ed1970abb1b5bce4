package domain

import "strings"

// DocType distinguishes the two kinds of indexed documents.
type DocType string

const (
	DocTypeRestaurant DocType = "restaurant"
	DocTypeMenuItem   DocType = "menu_item"
)

// Document is a single indexed unit of knowledge: either a restaurant fact
// sheet or one menu item. Content is the flattened text that was embedded;
// Metadata carries the structured fields used for filtering and rendering.
type Document struct {
	ID       string            `json:"id"`
	Type     DocType           `json:"type"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Name returns the document's own name from metadata ("" if absent).
func (d Document) Name() string {
	return d.Metadata["name"]
}

// RestaurantName returns the restaurant identity of the document: its own
// name for restaurant documents, the owning restaurant for menu items.
func (d Document) RestaurantName() string {
	if d.Type == DocTypeRestaurant {
		return d.Metadata["name"]
	}
	return d.Metadata["restaurant"]
}

// BelongsToRestaurant reports whether the document is about the named
// restaurant, matching case-insensitively.
func (d Document) BelongsToRestaurant(name string) bool {
	return strings.EqualFold(d.RestaurantName(), name)
}

// ScoredDocument is a retrieved document with its similarity score.
// Score is derived from L2 distance as 1/(1+distance), so it lies in (0, 1]
// and decreases monotonically with distance.
type ScoredDocument struct {
	Document
	Score float64
}
