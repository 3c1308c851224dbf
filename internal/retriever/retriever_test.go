package retriever

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
)

type fakeEmbedder struct {
	vec []float64
	err error
}

func (f *fakeEmbedder) Name() string   { return "fake" }
func (f *fakeEmbedder) Dimension() int { return len(f.vec) }
func (f *fakeEmbedder) Embed(text string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

type fakeIndex struct {
	results []domain.Result
	err     error
	gotVec  []float64
	gotK    int
}

func (f *fakeIndex) Insert(records []domain.Record) error { return nil }
func (f *fakeIndex) Size() int                            { return len(f.results) }
func (f *fakeIndex) Save(path string) error               { return nil }
func (f *fakeIndex) Load(path string) error               { return nil }
func (f *fakeIndex) Search(vec []float64, k int) ([]domain.Result, error) {
	f.gotVec = vec
	f.gotK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func TestRetrieveAnnotatesScores(t *testing.T) {
	idx := &fakeIndex{results: []domain.Result{
		{Document: domain.Document{Content: "a", Metadata: domain.Metadata{Title: "a"}}, Score: 0.1},
		{Document: domain.Document{Content: "b", Metadata: domain.Metadata{Title: "b"}}, Score: 0.7},
	}}
	r := New(&fakeEmbedder{vec: []float64{1, 0}}, idx)

	results, err := r.Retrieve("question", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []float64{1, 0}, idx.gotVec)
	assert.Equal(t, 2, idx.gotK)

	for _, res := range results {
		require.NotNil(t, res.Document.Metadata.Score)
		assert.Equal(t, res.Score, *res.Document.Metadata.Score)
	}
}

func TestRetrieveDefaultTopK(t *testing.T) {
	idx := &fakeIndex{}
	r := New(&fakeEmbedder{vec: []float64{1}}, idx)

	_, err := r.Retrieve("q", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, idx.gotK)
}

func TestRetrieveWrapsEmbedderError(t *testing.T) {
	embErr := fmt.Errorf("%w: model offline", domain.ErrEmbedding)
	r := New(&fakeEmbedder{err: embErr}, &fakeIndex{})

	_, err := r.Retrieve("q", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetrieval)
	assert.ErrorIs(t, err, domain.ErrEmbedding)
}

func TestRetrieveEmptyIndexStaysVisible(t *testing.T) {
	r := New(&fakeEmbedder{vec: []float64{1}}, &fakeIndex{err: domain.ErrEmptyIndex})

	_, err := r.Retrieve("q", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetrieval)
	assert.True(t, errors.Is(err, domain.ErrEmptyIndex),
		"callers need to distinguish the empty knowledge base case")
}
