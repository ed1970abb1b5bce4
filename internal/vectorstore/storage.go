package vectorstore

// Match is one nearest-neighbour hit: the row of the matched vector in the
// index and its Euclidean distance from the query vector.
type Match struct {
	Row      int
	Distance float64
}

// Storage supports exact nearest-neighbour search over a fixed set of
// vectors. Implementations are immutable after construction and safe for
// concurrent readers.
type Storage interface {
	Search(vector []float64, topK int) ([]Match, error)
	Len() int
	Dimension() int
}
