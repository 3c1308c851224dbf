package domain

import "errors"

// Error taxonomy shared across the pipeline. Callers discriminate with
// errors.Is; wrapping preserves the underlying condition.
var (
	// ErrEmbedding reports empty input or an unavailable embedding model.
	ErrEmbedding = errors.New("embedding failed")

	// ErrDimension reports a vector whose dimension does not match the index.
	ErrDimension = errors.New("vector dimension mismatch")

	// ErrEmptyIndex reports a search against an index with zero records.
	// It is an expected condition (empty knowledge base), not a fault.
	ErrEmptyIndex = errors.New("vector index is empty")

	// ErrSchema reports a persisted index incompatible with the configured
	// embedder. Fatal to that index instance; detected at load time.
	ErrSchema = errors.New("incompatible index schema")

	// ErrRetrieval wraps embedder or index failures during a query.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrUnsupportedFile reports an upload that yielded no decodable text.
	ErrUnsupportedFile = errors.New("unsupported file")

	// ErrUnavailable reports a missing or unreachable chat-completion
	// capability. Generation degrades to a warning turn instead of failing.
	ErrUnavailable = errors.New("completion capability unavailable")
)
