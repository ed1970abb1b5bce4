package flat

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"menurag/internal/vectorstore"
)

// Index is a brute-force exact nearest-neighbour index under Euclidean (L2)
// distance. Vectors are fixed at construction; the index is never mutated
// afterwards, so concurrent searches need no locking.
type Index struct {
	dimension int
	vectors   [][]float64
}

// New builds an index over the given vectors. All vectors must share the
// same non-zero dimension.
func New(vectors [][]float64) (*Index, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no vectors to index")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("zero-dimension vectors")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	return &Index{dimension: dim, vectors: vectors}, nil
}

// Len returns the number of indexed vectors.
func (ix *Index) Len() int { return len(ix.vectors) }

// Dimension returns the dimensionality of the indexed vectors.
func (ix *Index) Dimension() int { return ix.dimension }

// Search returns up to topK matches ordered by ascending distance.
// Equal distances keep index row order, so results are deterministic for
// an unchanged index.
func (ix *Index) Search(vector []float64, topK int) ([]vectorstore.Match, error) {
	if len(vector) != ix.dimension {
		return nil, fmt.Errorf("query dimension %d, index dimension %d", len(vector), ix.dimension)
	}
	if topK <= 0 {
		topK = 5
	}
	matches := make([]vectorstore.Match, len(ix.vectors))
	for i, v := range ix.vectors {
		matches[i] = vectorstore.Match{Row: i, Distance: euclidean(v, vector)}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Row < matches[j].Row
	})
	if topK > len(matches) {
		topK = len(matches)
	}
	return matches[:topK], nil
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

var _ vectorstore.Storage = (*Index)(nil)
