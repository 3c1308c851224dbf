// Package vectorindex defines the vector index contract shared by the
// file-backed and remote backends.
package vectorindex

import "github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"

// Metric names a distance function. Lower values mean more similar for
// every supported metric.
type Metric string

const (
	// MetricL2 is euclidean distance.
	MetricL2 Metric = "l2"
	// MetricCosine is 1 minus cosine similarity.
	MetricCosine Metric = "cosine"
)

// Index stores (vector, chunk) records and supports k-nearest-neighbor
// search. Implementations serialize Insert against concurrent Search calls;
// multiple simultaneous searches are safe.
type Index interface {
	// Insert appends records. It fails with domain.ErrDimension when an
	// incoming vector does not match the index dimension.
	Insert(records []domain.Record) error

	// Search returns the min(k, Size()) nearest records ordered by
	// ascending distance. It fails with domain.ErrEmptyIndex when the
	// index holds zero records.
	Search(vector []float64, k int) ([]domain.Result, error)

	// Size reports the number of stored records.
	Size() int

	// Save persists the full record set plus schema to the given path.
	Save(path string) error

	// Load replaces the record set from the given path. It fails with
	// domain.ErrSchema when the persisted schema does not match the
	// index configuration.
	Load(path string) error
}
