package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"menurag/internal/domain"
	"menurag/internal/vectorstore"
)

// ErrIndexUnavailable means the vector index and the document set disagree
// in size, so row-to-document joins cannot be trusted.
var ErrIndexUnavailable = errors.New("vector index unavailable")

// DefaultTopK is the result count used by the specialized searches.
const DefaultTopK = 10

// fallbackStopwords are stripped from a query before the broadened second
// retrieval pass.
var fallbackStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "in": {}, "on": {}, "at": {}, "of": {},
	"for": {}, "with": {}, "about": {}, "restaurant": {}, "food": {}, "menu": {},
}

// Retriever runs strategy-specific searches over the document index. Each
// specialized search over-retrieves through the generic semantic index and
// then applies an exact structural filter; the embedding model cannot
// guarantee exact restaurant identity or dietary tag membership on its own.
type Retriever struct {
	store    vectorstore.Storage
	embedder domain.Embedder
	docs     []domain.Document
	byID     map[string]domain.Document
	log      *zap.Logger
}

// New builds a retriever over an index whose rows align with docs.
func New(store vectorstore.Storage, embedder domain.Embedder, docs []domain.Document, log *zap.Logger) (*Retriever, error) {
	if store.Len() != len(docs) {
		return nil, fmt.Errorf("%w: index holds %d vectors, document set holds %d",
			ErrIndexUnavailable, store.Len(), len(docs))
	}
	if log == nil {
		log = zap.NewNop()
	}
	byID := make(map[string]domain.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	return &Retriever{store: store, embedder: embedder, docs: docs, byID: byID, log: log}, nil
}

// KnownRestaurantNames returns the names of all restaurant documents in
// index order, for the intent classifier.
func (r *Retriever) KnownRestaurantNames() []string {
	var names []string
	for _, d := range r.docs {
		if d.Type == domain.DocTypeRestaurant {
			if name := d.Name(); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// Retrieve embeds the query and returns the topK closest documents with
// scores in non-increasing order. Index rows without a matching document
// record are skipped.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]domain.ScoredDocument, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	matches, err := r.store.Search(vec, topK)
	if err != nil {
		return nil, err
	}
	results := make([]domain.ScoredDocument, 0, len(matches))
	for _, m := range matches {
		if m.Row < 0 || m.Row >= len(r.docs) {
			continue
		}
		doc := r.docs[m.Row]
		if _, ok := r.byID[doc.ID]; !ok {
			continue
		}
		results = append(results, domain.ScoredDocument{
			Document: doc,
			Score:    1.0 / (1.0 + m.Distance),
		})
	}
	r.log.Debug("retrieve", zap.String("query", query), zap.Int("top_k", topK), zap.Int("results", len(results)))
	return results, nil
}

// RetrieveWithFallback retrieves, and if the first pass under-returns,
// broadens the query by stripping stopwords and appends the new documents
// from a second pass. Original results keep their order; supplemental ones
// follow in their own relevance order. Never returns duplicates or more
// than topK documents.
func (r *Retriever) RetrieveWithFallback(ctx context.Context, query string, topK int) ([]domain.ScoredDocument, error) {
	results, err := r.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	if len(results) >= topK {
		return results[:topK], nil
	}
	var keyTerms []string
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if _, stop := fallbackStopwords[term]; !stop {
			keyTerms = append(keyTerms, term)
		}
	}
	if len(keyTerms) == 0 {
		return results, nil
	}
	supplemental, err := r.Retrieve(ctx, strings.Join(keyTerms, " "), topK-len(results))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(results))
	for _, d := range results {
		seen[d.ID] = struct{}{}
	}
	for _, d := range supplemental {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		results = append(results, d)
		seen[d.ID] = struct{}{}
	}
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// SearchByRestaurant returns documents about the named restaurant: its own
// fact sheet and menu items that belong to it, matched case-insensitively.
// Unknown names produce an empty list, not an error.
func (r *Retriever) SearchByRestaurant(ctx context.Context, name string, topK int) ([]domain.ScoredDocument, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	results, err := r.Retrieve(ctx, "Information about restaurant "+name, topK)
	if err != nil {
		return nil, err
	}
	filtered := results[:0]
	for _, d := range results {
		if d.BelongsToRestaurant(name) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// SearchMenuItems retrieves menu-item documents for a query, over-fetching
// 2x through the index before filtering by type.
func (r *Retriever) SearchMenuItems(ctx context.Context, query string, topK int) ([]domain.ScoredDocument, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	results, err := r.Retrieve(ctx, "Menu item "+query, topK*2)
	if err != nil {
		return nil, err
	}
	items := results[:0]
	for _, d := range results {
		if d.Type == domain.DocTypeMenuItem {
			items = append(items, d)
		}
	}
	if len(items) > topK {
		items = items[:topK]
	}
	return items, nil
}

// SearchDietaryOptions retrieves menu items whose dietary_info contains the
// preference as a case-insensitive substring, over-fetching 3x first.
func (r *Retriever) SearchDietaryOptions(ctx context.Context, preference string, topK int) ([]domain.ScoredDocument, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	results, err := r.Retrieve(ctx, "Menu items with "+preference+" dietary preference", topK*3)
	if err != nil {
		return nil, err
	}
	pref := strings.ToLower(preference)
	filtered := results[:0]
	for _, d := range results {
		if d.Type != domain.DocTypeMenuItem {
			continue
		}
		if strings.Contains(strings.ToLower(d.Metadata["dietary_info"]), pref) {
			filtered = append(filtered, d)
		}
	}
	if len(filtered) > topK {
		filtered = filtered[:topK]
	}
	return filtered, nil
}
