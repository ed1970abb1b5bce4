package extractive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menurag/internal/domain"
	"menurag/internal/generation"
)

func TestGenerate(t *testing.T) {
	docs := []domain.ScoredDocument{
		{
			Document: domain.Document{
				ID:   "menu_item_0",
				Type: domain.DocTypeMenuItem,
				Metadata: map[string]string{
					"restaurant":   "Taco Haven",
					"name":         "Garden Taco",
					"price":        "$4.00",
					"dietary_info": "vegan, gluten-free",
				},
			},
			Score: 0.8,
		},
		{
			Document: domain.Document{
				ID:   "menu_item_1",
				Type: domain.DocTypeMenuItem,
				Metadata: map[string]string{
					"restaurant": "Burger Joint",
					"name":       "Classic Burger",
					"price":      "$9.50",
				},
			},
			Score: 0.6,
		},
	}
	prompt := generation.AnswerPrompt("Which taco is vegan?", docs, nil)

	g := New(3)
	answer, err := g.Generate(context.Background(), prompt, 512)
	require.NoError(t, err)
	assert.Contains(t, answer, "Garden Taco")
	assert.Contains(t, answer, "vegan")
	assert.NotContains(t, answer, "Classic Burger")
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := New(2)
	prompt := generation.NoResultsPrompt("anything here")
	first, err := g.Generate(context.Background(), prompt, 256)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), prompt, 256)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateEmptyContext(t *testing.T) {
	g := New(3)
	answer, err := g.Generate(context.Background(), "Query: hello\n\nAnswer:", 256)
	require.NoError(t, err)
	assert.NotEmpty(t, answer)
}
