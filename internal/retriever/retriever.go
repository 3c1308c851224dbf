// Package retriever answers queries with scored documents from the vector
// index.
package retriever

import (
	"fmt"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/vectorindex"
)

// DefaultTopK is the number of documents retrieved per query.
const DefaultTopK = 5

// Retriever embeds queries and searches the index.
type Retriever struct {
	embedder domain.Embedder
	index    vectorindex.Index
}

// New creates a retriever over the given embedder and index.
func New(embedder domain.Embedder, index vectorindex.Index) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

// Retrieve embeds the query, searches the index for the top k matches and
// annotates each returned document's metadata with its score. Failures are
// wrapped in domain.ErrRetrieval; domain.ErrEmptyIndex stays visible
// through the wrap so callers can show a "no knowledge base" message.
func (r *Retriever) Retrieve(query string, k int) ([]domain.Result, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	vec, err := r.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}
	results, err := r.index.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}
	for i := range results {
		score := results[i].Score
		results[i].Document.Metadata.Score = &score
	}
	return results, nil
}
