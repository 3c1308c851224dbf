package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/vectorindex"
)

func record(content string, vec ...float64) domain.Record {
	return domain.Record{
		Vector: vec,
		Chunk:  domain.NewChunk(content, 0, domain.Metadata{Title: content}),
	}
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(2, vectorindex.MetricL2, "hashing-2")
	require.NoError(t, err)
	require.NoError(t, s.Insert([]domain.Record{
		record("far", 10, 10),
		record("near", 1, 0),
		record("nearest", 0.5, 0),
		record("mid", 3, 3),
	}))
	return s
}

func TestNewStoreValidation(t *testing.T) {
	_, err := NewStore(0, vectorindex.MetricL2, "m")
	assert.Error(t, err)

	_, err = NewStore(3, "manhattan", "m")
	assert.Error(t, err)

	s, err := NewStore(3, "", "m")
	require.NoError(t, err)
	assert.Equal(t, vectorindex.MetricL2, s.metric)
}

func TestInsertDimensionMismatch(t *testing.T) {
	s, err := NewStore(3, vectorindex.MetricL2, "m")
	require.NoError(t, err)

	err = s.Insert([]domain.Record{record("bad", 1, 2)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimension)
	assert.Equal(t, 0, s.Size())
}

func TestSearchEmptyIndex(t *testing.T) {
	s, err := NewStore(2, vectorindex.MetricL2, "m")
	require.NoError(t, err)

	results, err := s.Search([]float64{0, 0}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyIndex)
	assert.Nil(t, results)
}

func TestSearchOrderingAndLength(t *testing.T) {
	s := seededStore(t)

	results, err := s.Search([]float64{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Score, results[i].Score)
	}
	assert.Equal(t, "nearest", results[0].Document.Metadata.Title)
	assert.Equal(t, "near", results[1].Document.Metadata.Title)

	// k larger than the corpus returns everything
	results, err = s.Search([]float64{0, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestSearchCosineMetric(t *testing.T) {
	s, err := NewStore(2, vectorindex.MetricCosine, "m")
	require.NoError(t, err)
	require.NoError(t, s.Insert([]domain.Record{
		record("same direction", 2, 0),
		record("orthogonal", 0, 5),
	}))

	results, err := s.Search([]float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "same direction", results[0].Document.Metadata.Title)
	assert.InDelta(t, 0.0, results[0].Score, 1e-9)
	assert.InDelta(t, 1.0, results[1].Score, 1e-9)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := seededStore(t)
	require.NoError(t, s.Save(dir))

	loaded, err := NewStore(2, vectorindex.MetricL2, "hashing-2")
	require.NoError(t, err)
	require.NoError(t, loaded.Load(dir))
	assert.Equal(t, s.Size(), loaded.Size())

	query := []float64{0.4, 0.1}
	want, err := s.Search(query, 4)
	require.NoError(t, err)
	got, err := loaded.Search(query, 4)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpenMissingDirectoryIsEmpty(t *testing.T) {
	s, err := Open(t.TempDir()+"/nope", 2, vectorindex.MetricL2, "m")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Size())
}

func TestLoadSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, seededStore(t).Save(dir))

	tests := []struct {
		name   string
		dim    int
		metric vectorindex.Metric
		model  string
	}{
		{name: "dimension", dim: 3, metric: vectorindex.MetricL2, model: "hashing-2"},
		{name: "metric", dim: 2, metric: vectorindex.MetricCosine, model: "hashing-2"},
		{name: "model", dim: 2, metric: vectorindex.MetricL2, model: "openai:text-embedding-3-small"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(tt.dim, tt.metric, tt.model)
			require.NoError(t, err)
			err = s.Load(dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrSchema)
		})
	}
}

func TestScoreNotPersistedOnRecords(t *testing.T) {
	dir := t.TempDir()
	s := seededStore(t)

	// Searching annotates nothing on the stored side.
	_, err := s.Search([]float64{0, 0}, 2)
	require.NoError(t, err)
	require.NoError(t, s.Save(dir))

	loaded, err := Open(dir, 2, vectorindex.MetricL2, "hashing-2")
	require.NoError(t, err)
	results, err := loaded.Search([]float64{0, 0}, 4)
	require.NoError(t, err)
	for _, r := range results {
		assert.Nil(t, r.Document.Metadata.Score, "persisted metadata must not carry a score")
	}
}
