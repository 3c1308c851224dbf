// Package qdrant implements the vector index contract against a Qdrant
// server over its REST API. Persistence is server-side, so Save and Load
// are no-ops.
package qdrant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
)

// Store is a minimal REST client to Qdrant. The collection is created on
// demand with cosine distance; reported scores are converted to
// 1 - similarity so lower-is-better holds like the file backend.
type Store struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

// Config contains connection details for a Qdrant vector store.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewStore creates the client and ensures the collection exists with the
// given vector dimension.
func NewStore(cfg Config, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, errors.New("invalid dimension")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	s := &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  dimension,
		client:     &http.Client{Timeout: timeout},
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	// Qdrant returns 200 OK if the collection already exists with the same
	// schema; a conflicting schema surfaces as an error here.
	if err := s.putJSON(fmt.Sprintf("%s/collections/%s", s.url, s.collection), body); err != nil {
		return nil, err
	}
	return s, nil
}

// Insert upserts records as points carrying the chunk as payload.
func (s *Store) Insert(records []domain.Record) error {
	points := make([]map[string]any, len(records))
	for i, r := range records {
		if len(r.Vector) != s.dimension {
			return fmt.Errorf("%w: got %d, index has %d", domain.ErrDimension, len(r.Vector), s.dimension)
		}
		points[i] = map[string]any{
			"id":     r.Chunk.ID,
			"vector": r.Vector,
			"payload": map[string]any{
				"seq":      r.Chunk.Seq,
				"content":  r.Chunk.Content,
				"metadata": r.Chunk.Meta,
			},
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Search queries the collection and maps hits back to results.
func (s *Store) Search(vector []float64, k int) ([]domain.Result, error) {
	if k <= 0 {
		k = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload struct {
				Seq      int             `json:"seq"`
				Content  string          `json:"content"`
				Metadata domain.Metadata `json:"metadata"`
			} `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Result) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	results := make([]domain.Result, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.Result{
			Document: domain.Document{Content: r.Payload.Content, Metadata: r.Payload.Metadata},
			Score:    1 - r.Score,
		})
	}
	return results, nil
}

// Size reports the stored point count, or zero when the server cannot be
// reached.
func (s *Store) Size() int {
	var resp struct {
		Result struct {
			PointsCount int `json:"points_count"`
		} `json:"result"`
	}
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	httpResp, err := s.client.Do(req)
	if err != nil {
		return 0
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode >= 300 {
		return 0
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return 0
	}
	return resp.Result.PointsCount
}

// Save is a no-op; Qdrant persists server-side.
func (s *Store) Save(path string) error { return nil }

// Load is a no-op; Qdrant persists server-side.
func (s *Store) Load(path string) error { return nil }

func (s *Store) putJSON(url string, body any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
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

func (s *Store) postJSON(url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
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
		dec := json.NewDecoder(resp.Body)
		return dec.Decode(out)
	}
	return nil
}
