package domain

import "github.com/google/uuid"

// Metadata describes the provenance of a retrievable document.
// Score is set only on documents returned from a similarity search and is
// never written back into the index.
type Metadata struct {
	Title    string   `json:"title"`
	Year     string   `json:"year"`
	Journal  string   `json:"journal"`
	DOI      string   `json:"doi"`
	Uploaded bool     `json:"uploaded"`
	Score    *float64 `json:"score,omitempty"`
}

// Document is a single retrievable unit of text.
type Document struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Chunk is a bounded sub-span of a document's content, inheriting the
// parent's metadata. Seq is the chunk's position within its source document.
type Chunk struct {
	ID      string   `json:"id"`
	Seq     int      `json:"seq"`
	Content string   `json:"content"`
	Meta    Metadata `json:"metadata"`
}

// NewChunk creates a chunk for the given source metadata and position.
func NewChunk(content string, seq int, meta Metadata) Chunk {
	return Chunk{
		ID:      uuid.New().String(),
		Seq:     seq,
		Content: content,
		Meta:    meta,
	}
}

// Document converts the chunk back into document form for retrieval results.
func (c Chunk) Document() Document {
	return Document{Content: c.Content, Metadata: c.Meta}
}

// Record is a (vector, chunk) pair stored in the vector index. Records are
// created on ingestion and immutable thereafter.
type Record struct {
	Vector []float64 `json:"vector"`
	Chunk  Chunk     `json:"chunk"`
}

// Result is a retrieved document with its distance score.
// Lower scores mean more similar under the configured metric.
type Result struct {
	Document Document
	Score    float64
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Turns are append-only within a
// session and never reordered.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// RawFile is an uploaded file handed over by the UI shell: a filename, the
// declared MIME type, and the already-materialized byte content.
type RawFile struct {
	Name string
	MIME string
	Data []byte
}

// Embedder converts text into a fixed-dimension vector representation.
// Implementations are immutable after construction and safe for shared use.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(text string) ([]float64, error)
}
