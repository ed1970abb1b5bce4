package qdrant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"menurag/internal/vectorstore"
)

// Storage is a minimal REST client to a Qdrant collection holding the
// knowledge-base vectors. Point ids are the index rows, the collection is
// created with Euclid distance, and searches force exact (non-approximate)
// scoring so distances match the flat index. Qdrant does not document its
// ordering for equal distances, so tie order may differ from the flat
// backend across server versions.
type Storage struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Init creates the collection if missing and pins the vector dimension.
// Qdrant answers 200 when the collection already exists with the same
// schema, so Init doubles as a schema check on an existing collection.
func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Euclid",
		},
	}
	return s.putJSON(fmt.Sprintf("%s/collections/%s", s.url, s.collection), body)
}

// Upsert writes the full vector set, point ids matching index rows.
func (s *Storage) Upsert(vectors [][]float64) error {
	points := make([]map[string]any, len(vectors))
	for i, v := range vectors {
		if len(v) != s.dimension {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), s.dimension)
		}
		points[i] = map[string]any{
			"id":     i,
			"vector": v,
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Search returns up to topK matches by ascending Euclidean distance.
func (s *Storage) Search(vector []float64, topK int) ([]vectorstore.Match, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query dimension %d, index dimension %d", len(vector), s.dimension)
	}
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector": vector,
		"limit":  topK,
		"params": map[string]any{"exact": true},
	}
	var resp struct {
		Result []struct {
			ID    float64 `json:"id"`
			Score float64 `json:"score"`
		} `json:"result"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	matches := make([]vectorstore.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		matches = append(matches, vectorstore.Match{Row: int(r.ID), Distance: r.Score})
	}
	return matches, nil
}

// Len reports the collection's point count, 0 when the server is
// unreachable. A zero count fails the retriever's size check at startup,
// which is the intended signal for a missing or empty collection.
func (s *Storage) Len() int {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/count", s.url, s.collection),
		map[string]any{"exact": true}, &resp)
	if err != nil {
		return 0
	}
	return resp.Result.Count
}

// Dimension returns the dimension pinned by Init.
func (s *Storage) Dimension() int { return s.dimension }

func (s *Storage) putJSON(url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Storage) postJSON(url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var _ vectorstore.Storage = (*Storage)(nil)
