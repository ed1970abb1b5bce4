package domain

import "context"

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
// The same embedder (model and dimension) must be used at index-build
// time and at query time.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Generator produces answer text from a fully rendered prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)
}
