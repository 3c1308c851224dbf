// Package file implements a brute-force vector index persisted as a
// directory on disk: a schema file describing dimension, metric and
// embedding model, plus the serialized record set.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/vectorindex"
)

const (
	schemaFile  = "schema.json"
	recordsFile = "records.json"
)

// schema is the persisted index header. An index saved with one embedding
// configuration must not be loaded under another.
type schema struct {
	Dimension int                `json:"dimension"`
	Metric    vectorindex.Metric `json:"metric"`
	Model     string             `json:"model"`
	Count     int                `json:"count"`
}

// Store is an in-memory flat index with directory persistence.
type Store struct {
	mu        sync.RWMutex
	dimension int
	metric    vectorindex.Metric
	model     string
	records   []domain.Record
}

// NewStore creates an empty index bound to the given embedding dimension,
// distance metric and embedder name.
func NewStore(dimension int, metric vectorindex.Metric, model string) (*Store, error) {
	if dimension <= 0 {
		return nil, errors.New("invalid dimension")
	}
	if metric == "" {
		metric = vectorindex.MetricL2
	}
	if metric != vectorindex.MetricL2 && metric != vectorindex.MetricCosine {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
	return &Store{dimension: dimension, metric: metric, model: model}, nil
}

// Open loads the index persisted at path, or returns an empty index when
// the directory does not exist yet.
func Open(path string, dimension int, metric vectorindex.Metric, model string) (*Store, error) {
	s, err := NewStore(dimension, metric, model)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(filepath.Join(path, schemaFile)); errors.Is(statErr, os.ErrNotExist) {
		return s, nil
	}
	if err := s.Load(path); err != nil {
		return nil, err
	}
	return s, nil
}

// Insert appends records to the index.
func (s *Store) Insert(records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if len(r.Vector) != s.dimension {
			return fmt.Errorf("%w: got %d, index has %d", domain.ErrDimension, len(r.Vector), s.dimension)
		}
	}
	s.records = append(s.records, records...)
	return nil
}

// Search scans all records and returns the min(k, Size()) nearest ones
// ordered by ascending distance.
func (s *Store) Search(vector []float64, k int) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.records) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: got %d, index has %d", domain.ErrDimension, len(vector), s.dimension)
	}
	if k <= 0 {
		k = 5
	}

	type scored struct {
		idx  int
		dist float64
	}
	scores := make([]scored, len(s.records))
	for i := range s.records {
		scores[i] = scored{idx: i, dist: s.distance(s.records[i].Vector, vector)}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].dist < scores[j].dist })

	if k > len(scores) {
		k = len(scores)
	}
	results := make([]domain.Result, 0, k)
	for i := 0; i < k; i++ {
		sc := scores[i]
		results = append(results, domain.Result{
			Document: s.records[sc.idx].Chunk.Document(),
			Score:    sc.dist,
		})
	}
	return results, nil
}

// Size reports the number of stored records.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Save writes the schema and record set into the directory at path,
// creating it as needed.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}
	sc := schema{
		Dimension: s.dimension,
		Metric:    s.metric,
		Model:     s.model,
		Count:     len(s.records),
	}
	scData, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}
	recData, err := json.Marshal(s.records)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(path, recordsFile), recData, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(path, schemaFile), scData, 0o644)
}

// Load replaces the record set from the directory at path. The persisted
// schema must match the store's configuration exactly.
func (s *Store) Load(path string) error {
	scData, err := os.ReadFile(filepath.Join(path, schemaFile))
	if err != nil {
		return err
	}
	var sc schema
	if err := json.Unmarshal(scData, &sc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchema, err)
	}
	if sc.Dimension != s.dimension {
		return fmt.Errorf("%w: persisted dimension %d, configured %d", domain.ErrSchema, sc.Dimension, s.dimension)
	}
	if sc.Metric != s.metric {
		return fmt.Errorf("%w: persisted metric %q, configured %q", domain.ErrSchema, sc.Metric, s.metric)
	}
	if sc.Model != s.model {
		return fmt.Errorf("%w: persisted model %q, configured %q", domain.ErrSchema, sc.Model, s.model)
	}
	recData, err := os.ReadFile(filepath.Join(path, recordsFile))
	if err != nil {
		return err
	}
	var records []domain.Record
	if err := json.Unmarshal(recData, &records); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchema, err)
	}
	for _, r := range records {
		if len(r.Vector) != sc.Dimension {
			return fmt.Errorf("%w: record vector dimension %d", domain.ErrSchema, len(r.Vector))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	return nil
}

func (s *Store) distance(a, b []float64) float64 {
	switch s.metric {
	case vectorindex.MetricCosine:
		return 1 - cosine(a, b)
	default:
		return euclidean(a, b)
	}
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func cosine(a, b []float64) float64 {
	dot, na, nb := 0.0, 0.0, 0.0
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
