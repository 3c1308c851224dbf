// Package hashing provides an offline, deterministic feature-hashing
// embedder. Tokens are hashed into a fixed number of buckets with a signed
// second hash, and the resulting vector is L2-normalized. Unlike a TF-IDF
// vectorizer it needs no corpus preparation, so documents can be embedded
// incrementally as they are uploaded.
package hashing

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/textutil"
)

// DefaultDimension is the number of hash buckets.
const DefaultDimension = 256

// Embedder implements domain.Embedder via the hashing trick.
type Embedder struct {
	dimension int
}

// NewEmbedder creates a hashing embedder with the given dimension.
// Non-positive dimensions fall back to DefaultDimension.
func NewEmbedder(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Embedder{dimension: dimension}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return fmt.Sprintf("hashing-%d", e.dimension) }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed returns a deterministic L2-normalized vector for the given text.
func (e *Embedder) Embed(text string) ([]float64, error) {
	tokens := textutil.Tokenize(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens in input", domain.ErrEmbedding)
	}
	vec := make([]float64, e.dimension)
	for _, tok := range tokens {
		bucket, sign := hashToken(tok, e.dimension)
		vec[bucket] += sign
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// hashToken maps a token to a bucket index and a ±1 sign. The sign hash
// keeps bucket collisions from always accumulating in the same direction.
func hashToken(tok string, dim int) (int, float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(tok))
	sum := h.Sum64()
	bucket := int(sum % uint64(dim))
	sign := 1.0
	if (sum>>63)&1 == 1 {
		sign = -1.0
	}
	return bucket, sign
}
