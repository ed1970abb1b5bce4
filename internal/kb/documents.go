package kb

import (
	"fmt"

	"menurag/internal/domain"
)

// RestaurantRow is one row of the restaurants table produced by the
// external cleaning stage.
type RestaurantRow struct {
	Name            string
	URL             string
	Address         string
	City            string
	State           string
	Phone           string
	Email           string
	Hours           string
	SpecialFeatures string
}

// MenuItemRow is one row of the menu_items table.
type MenuItemRow struct {
	Restaurant  string
	Name        string
	Price       string
	Description string
	Section     string
	DietaryInfo string
}

// BuildDocuments flattens the two tables into indexable documents.
// Restaurant documents come first, then menu items; IDs are positional
// within each type and unique across the whole set.
func BuildDocuments(restaurants []RestaurantRow, items []MenuItemRow) []domain.Document {
	docs := make([]domain.Document, 0, len(restaurants)+len(items))
	for i, r := range restaurants {
		docs = append(docs, domain.Document{
			ID:   fmt.Sprintf("restaurant_%d", i),
			Type: domain.DocTypeRestaurant,
			Content: fmt.Sprintf(
				"Restaurant: %s\nAddress: %s, %s, %s\nPhone: %s\nEmail: %s\nHours: %s\nSpecial Features: %s",
				r.Name, r.Address, r.City, r.State, r.Phone, r.Email, r.Hours, r.SpecialFeatures),
			Metadata: trimEmpty(map[string]string{
				"name":             r.Name,
				"address":          r.Address,
				"city":             r.City,
				"state":            r.State,
				"phone":            r.Phone,
				"email":            r.Email,
				"hours":            r.Hours,
				"special_features": r.SpecialFeatures,
				"url":              r.URL,
			}),
		})
	}
	for i, m := range items {
		docs = append(docs, domain.Document{
			ID:   fmt.Sprintf("menu_item_%d", i),
			Type: domain.DocTypeMenuItem,
			Content: fmt.Sprintf(
				"Restaurant: %s\nMenu Item: %s\nPrice: %s\nDescription: %s\nSection: %s\nDietary Info: %s",
				m.Restaurant, m.Name, m.Price, m.Description, m.Section, m.DietaryInfo),
			Metadata: trimEmpty(map[string]string{
				"restaurant":   m.Restaurant,
				"name":         m.Name,
				"price":        m.Price,
				"description":  m.Description,
				"section":      m.Section,
				"dietary_info": m.DietaryInfo,
			}),
		})
	}
	return docs
}

// trimEmpty drops empty metadata fields so renderers can treat presence as
// the only signal.
func trimEmpty(m map[string]string) map[string]string {
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}
