package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"menurag/internal/domain"
	"menurag/internal/embedding/tfidf"
	"menurag/internal/kb"
	"menurag/internal/vectorstore/flat"
)

func fixtureDocuments() []domain.Document {
	restaurants := []kb.RestaurantRow{
		{Name: "Burger Joint", Address: "1 Main St", City: "Springfield", State: "IL", Hours: "Mon-Sun 11-22", SpecialFeatures: "Outdoor seating"},
		{Name: "Taco Haven", Address: "2 Side St", City: "Springfield", State: "IL", Hours: "Tue-Sun 12-21"},
		{Name: "Sushi Express", Address: "3 River Rd", City: "Springfield", State: "IL", SpecialFeatures: "Conveyor belt"},
	}
	items := []kb.MenuItemRow{
		{Restaurant: "Burger Joint", Name: "Classic Burger", Price: "$9.50", Description: "Beef patty with cheddar and pickles", Section: "Mains"},
		{Restaurant: "Burger Joint", Name: "Garden Salad", Price: "$6.00", Description: "Crisp greens with tomato", Section: "Sides", DietaryInfo: "vegetarian, vegan"},
		{Restaurant: "Taco Haven", Name: "Carnitas Taco", Price: "$4.50", Description: "Slow-cooked pork with salsa", Section: "Tacos"},
		{Restaurant: "Taco Haven", Name: "Garden Taco", Price: "$4.00", Description: "Grilled vegetables with guacamole", Section: "Tacos", DietaryInfo: "vegan, gluten-free"},
		{Restaurant: "Sushi Express", Name: "Salmon Nigiri", Price: "$5.00", Description: "Fresh salmon over rice", Section: "Nigiri", DietaryInfo: "gluten-free"},
		// Soft reference to a restaurant missing from the store.
		{Restaurant: "Ghost Kitchen", Name: "Mystery Bowl", Price: "$7.00", Description: "Chef's choice bowl", Section: "Bowls"},
	}
	return kb.BuildDocuments(restaurants, items)
}

func newTestRetriever(t *testing.T) (*Retriever, []domain.Document) {
	t.Helper()
	docs := fixtureDocuments()
	contents := make([]string, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
	}
	emb := tfidf.New()
	require.NoError(t, emb.Prepare(contents))

	vectors := make([][]float64, len(contents))
	for i, text := range contents {
		v, err := emb.Embed(context.Background(), text)
		require.NoError(t, err)
		vectors[i] = v
	}
	store, err := flat.New(vectors)
	require.NoError(t, err)
	r, err := New(store, emb, docs, zap.NewNop())
	require.NoError(t, err)
	return r, docs
}

func TestNewRejectsSizeMismatch(t *testing.T) {
	docs := fixtureDocuments()
	store, err := flat.New([][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	emb := tfidf.New()
	_, err = New(store, emb, docs, nil)
	require.ErrorIs(t, err, ErrIndexUnavailable)
}

func TestKnownRestaurantNames(t *testing.T) {
	r, _ := newTestRetriever(t)
	assert.Equal(t, []string{"Burger Joint", "Taco Haven", "Sushi Express"}, r.KnownRestaurantNames())
}

func TestRetrieve(t *testing.T) {
	r, docs := newTestRetriever(t)
	ctx := context.Background()

	t.Run("returns at most topK with non-increasing scores", func(t *testing.T) {
		results, err := r.Retrieve(ctx, "burger with cheddar", 3)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.LessOrEqual(t, len(results), 3)
		for i := 1; i < len(results); i++ {
			assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
		}
		for _, d := range results {
			assert.Greater(t, d.Score, 0.0)
			assert.LessOrEqual(t, d.Score, 1.0)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		first, err := r.Retrieve(ctx, "vegan taco", 4)
		require.NoError(t, err)
		second, err := r.Retrieve(ctx, "vegan taco", 4)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("covers the whole store when topK exceeds it", func(t *testing.T) {
		results, err := r.Retrieve(ctx, "food", len(docs)*2)
		require.NoError(t, err)
		assert.Len(t, results, len(docs))
	})
}

func TestRetrieveWithFallback(t *testing.T) {
	r, docs := newTestRetriever(t)
	ctx := context.Background()

	t.Run("never exceeds topK or duplicates ids", func(t *testing.T) {
		results, err := r.RetrieveWithFallback(ctx, "the menu of the restaurant with salmon", 4)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), 4)
		seen := map[string]struct{}{}
		for _, d := range results {
			_, dup := seen[d.ID]
			assert.False(t, dup, "duplicate id %s", d.ID)
			seen[d.ID] = struct{}{}
		}
	})

	t.Run("returns at least as much as plain retrieve", func(t *testing.T) {
		k := len(docs) + 3
		plain, err := r.Retrieve(ctx, "carnitas salsa", k)
		require.NoError(t, err)
		withFallback, err := r.RetrieveWithFallback(ctx, "carnitas salsa", k)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(withFallback), len(plain))
	})

	t.Run("stopword-only query skips the second pass", func(t *testing.T) {
		results, err := r.RetrieveWithFallback(ctx, "the restaurant menu", len(docs)+5)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), len(docs))
	})
}

func TestSearchByRestaurant(t *testing.T) {
	r, _ := newTestRetriever(t)
	ctx := context.Background()

	t.Run("returns only the named restaurant's documents", func(t *testing.T) {
		results, err := r.SearchByRestaurant(ctx, "Burger Joint", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		for _, d := range results {
			assert.True(t, d.BelongsToRestaurant("Burger Joint"), "unexpected doc %s", d.ID)
		}
	})

	t.Run("matches case-insensitively", func(t *testing.T) {
		results, err := r.SearchByRestaurant(ctx, "burger joint", 10)
		require.NoError(t, err)
		assert.NotEmpty(t, results)
	})

	t.Run("unknown restaurant yields empty list, not an error", func(t *testing.T) {
		results, err := r.SearchByRestaurant(ctx, "Nonexistent Place", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("dangling menu item reference does not crash", func(t *testing.T) {
		results, err := r.SearchByRestaurant(ctx, "Ghost Kitchen", 10)
		require.NoError(t, err)
		for _, d := range results {
			assert.Equal(t, domain.DocTypeMenuItem, d.Type)
		}
	})
}

func TestSearchMenuItems(t *testing.T) {
	r, _ := newTestRetriever(t)
	results, err := r.SearchMenuItems(context.Background(), "taco", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, d := range results {
		assert.Equal(t, domain.DocTypeMenuItem, d.Type)
	}
}

func TestSearchDietaryOptions(t *testing.T) {
	r, _ := newTestRetriever(t)
	ctx := context.Background()

	t.Run("returns only matching menu items", func(t *testing.T) {
		results, err := r.SearchDietaryOptions(ctx, "vegan", 10)
		require.NoError(t, err)
		require.Len(t, results, 2)
		ids := []string{results[0].ID, results[1].ID}
		assert.ElementsMatch(t, []string{"menu_item_1", "menu_item_3"}, ids)
	})

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		results, err := r.SearchDietaryOptions(ctx, "GLUTEN-FREE", 10)
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, d := range results {
			assert.Equal(t, domain.DocTypeMenuItem, d.Type)
		}
	})

	t.Run("no matches yields empty list", func(t *testing.T) {
		results, err := r.SearchDietaryOptions(ctx, "nut-free", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
