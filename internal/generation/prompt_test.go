package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menurag/internal/domain"
)

func restaurantDoc(name string, score float64, md map[string]string) domain.ScoredDocument {
	if md == nil {
		md = map[string]string{}
	}
	md["name"] = name
	return domain.ScoredDocument{
		Document: domain.Document{ID: "restaurant_" + name, Type: domain.DocTypeRestaurant, Metadata: md},
		Score:    score,
	}
}

func menuItemDoc(restaurant, name string, score float64, md map[string]string) domain.ScoredDocument {
	if md == nil {
		md = map[string]string{}
	}
	md["restaurant"] = restaurant
	md["name"] = name
	return domain.ScoredDocument{
		Document: domain.Document{ID: "menu_item_" + name, Type: domain.DocTypeMenuItem, Metadata: md},
		Score:    score,
	}
}

func TestFormatContext(t *testing.T) {
	t.Run("empty documents", func(t *testing.T) {
		assert.Equal(t, "No relevant information found.", FormatContext(nil))
	})

	t.Run("sorts by descending score", func(t *testing.T) {
		ctx := FormatContext([]domain.ScoredDocument{
			menuItemDoc("Burger Joint", "Fries", 0.4, nil),
			restaurantDoc("Taco Haven", 0.9, nil),
		})
		haven := strings.Index(ctx, "Restaurant Information - Taco Haven:")
		fries := strings.Index(ctx, "Menu Item - Burger Joint - Fries:")
		require.NotEqual(t, -1, haven)
		require.NotEqual(t, -1, fries)
		assert.Less(t, haven, fries)
	})

	t.Run("restaurants precede menu items at equal score", func(t *testing.T) {
		ctx := FormatContext([]domain.ScoredDocument{
			menuItemDoc("Burger Joint", "Fries", 0.5, nil),
			restaurantDoc("Burger Joint", 0.5, nil),
		})
		r := strings.Index(ctx, "Restaurant Information")
		m := strings.Index(ctx, "Menu Item")
		assert.Less(t, r, m)
	})

	t.Run("omits absent fields", func(t *testing.T) {
		ctx := FormatContext([]domain.ScoredDocument{
			restaurantDoc("Burger Joint", 0.8, map[string]string{
				"address": "1 Main St", "city": "Springfield", "state": "IL",
			}),
			menuItemDoc("Burger Joint", "Classic Burger", 0.7, map[string]string{"price": "$9.50"}),
		})
		assert.Contains(t, ctx, "Address: 1 Main St, Springfield, IL")
		assert.NotContains(t, ctx, "Hours:")
		assert.NotContains(t, ctx, "Contact:")
		assert.Contains(t, ctx, "Price: $9.50")
		assert.NotContains(t, ctx, "Description:")
		assert.NotContains(t, ctx, "Dietary Info:")
	})
}

func TestAnswerPrompt(t *testing.T) {
	docs := []domain.ScoredDocument{restaurantDoc("Burger Joint", 0.8, map[string]string{"hours": "11-22"})}

	t.Run("carries context and query", func(t *testing.T) {
		p := AnswerPrompt("When is Burger Joint open?", docs, nil)
		assert.Contains(t, p, "Restaurant Information - Burger Joint:")
		assert.Contains(t, p, "Query: When is Burger Joint open?")
		assert.True(t, strings.HasSuffix(p, "Answer:"))
		assert.NotContains(t, p, "Previous Conversation:")
	})

	t.Run("windows history to the last three turns", func(t *testing.T) {
		history := []domain.Message{
			{Role: domain.RoleUser, Content: "first question"},
			{Role: domain.RoleAssistant, Content: "first answer"},
			{Role: domain.RoleUser, Content: "second question"},
			{Role: domain.RoleAssistant, Content: "second answer"},
		}
		p := AnswerPrompt("and now?", docs, history)
		assert.Contains(t, p, "Previous Conversation:")
		assert.NotContains(t, p, "first question")
		assert.Contains(t, p, "Assistant: first answer")
		assert.Contains(t, p, "User: second question")
		assert.Contains(t, p, "Assistant: second answer")
	})
}

func TestComparisonPrompt(t *testing.T) {
	burger := []domain.ScoredDocument{
		restaurantDoc("Burger Joint", 0.9, map[string]string{"special_features": "Outdoor seating"}),
		menuItemDoc("Burger Joint", "Classic Burger", 0.8, map[string]string{"price": "$9.50", "dietary_info": "contains gluten"}),
		menuItemDoc("Burger Joint", "Fries", 0.7, nil),
	}
	taco := []domain.ScoredDocument{
		menuItemDoc("Taco Haven", "Garden Taco", 0.8, map[string]string{"price": "$4.00"}),
	}

	p := ComparisonPrompt("Which is cheaper?", []RestaurantDocs{
		{Name: "Burger Joint", Docs: burger},
		{Name: "Taco Haven", Docs: taco},
	})

	assert.Contains(t, p, "--- Burger Joint ---")
	assert.Contains(t, p, "--- Taco Haven ---")
	assert.Contains(t, p, "Special Features: Outdoor seating")
	assert.Contains(t, p, "- Classic Burger ($9.50) - contains gluten")
	assert.Contains(t, p, "- Fries")
	assert.Contains(t, p, "- Garden Taco ($4.00)")
	assert.Contains(t, p, "Query for comparison: Which is cheaper?")
	assert.True(t, strings.HasSuffix(p, "Detailed comparison:"))
}

func TestComparisonPromptLimitsMenuItems(t *testing.T) {
	var docs []domain.ScoredDocument
	names := []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven"}
	for _, n := range names {
		docs = append(docs, menuItemDoc("Burger Joint", n, 0.5, nil))
	}
	p := ComparisonPrompt("compare", []RestaurantDocs{{Name: "Burger Joint", Docs: docs}})
	assert.Contains(t, p, "- Five")
	assert.NotContains(t, p, "- Six")
	assert.NotContains(t, p, "- Seven")
}

func TestCleanResponse(t *testing.T) {
	assert.Equal(t, "The burger costs $9.50.", CleanResponse("Answer:   The burger\n costs  $9.50."))
	assert.Equal(t, "plain", CleanResponse("plain"))
	assert.Equal(t, "", CleanResponse("Answer:  "))
}

func TestNoResultsPrompt(t *testing.T) {
	p := NoResultsPrompt("Any sushi nearby?")
	assert.Contains(t, p, "Query: Any sushi nearby?")
	assert.True(t, strings.HasSuffix(p, "Answer:"))
}
