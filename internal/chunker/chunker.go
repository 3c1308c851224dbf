// Package chunker splits document text into bounded, overlapping chunks.
//
// The splitter descends an ordered separator list: content is split on the
// first separator whose pieces fit, oversized pieces recurse into the next
// separator, and the empty separator force-splits on character boundaries.
// Pieces are then merged back up to the chunk budget and the tail of each
// chunk is carried into the head of the next as overlap. Separators stay
// attached to the piece they terminate, so concatenating all chunks with
// their overlap regions stripped reconstructs the original content exactly.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
)

// DefaultChunkSize is the default maximum chunk length in characters.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of characters carried from the tail
// of one chunk into the head of the next.
const DefaultOverlap = 200

// DefaultSeparators is the split priority: paragraph break, line break,
// sentence-final punctuation, space, then raw characters.
func DefaultSeparators() []string {
	return []string{"\n\n", "\n", ".", "!", "?", " ", ""}
}

// Splitter splits documents into chunks suitable for embedding.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter creates a splitter with the given chunk size and overlap.
// Non-positive sizes fall back to defaults; an overlap that is not smaller
// than the chunk size is reduced to a quarter of it.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: DefaultSeparators(),
	}
}

// Split chunks the document's content, each chunk inheriting the document's
// metadata. Content no longer than the chunk size yields exactly one chunk
// with no overlap applied. Every produced chunk is at most chunkSize long,
// overlap included.
func (s *Splitter) Split(doc domain.Document) []domain.Chunk {
	content := doc.Content
	if content == "" {
		return nil
	}
	if len(content) <= s.chunkSize {
		return []domain.Chunk{domain.NewChunk(content, 0, doc.Metadata)}
	}

	// Merged pieces leave room for the overlap prefix so the final chunks
	// never exceed the configured size.
	budget := s.chunkSize - s.overlap
	bases := mergePieces(splitRecursive(content, s.separators, budget), budget)

	chunks := make([]domain.Chunk, 0, len(bases))
	prev := ""
	for i, base := range bases {
		text := base
		if i > 0 && s.overlap > 0 {
			text = tail(prev, s.overlap) + base
		}
		chunks = append(chunks, domain.NewChunk(text, i, doc.Metadata))
		prev = text
	}
	return chunks
}

// OverlapLen reports how many leading characters of chunk seq are shared
// with the previous chunk, given the previous chunk's content.
func (s *Splitter) OverlapLen(seq int, prevContent string) int {
	if seq == 0 || s.overlap == 0 {
		return 0
	}
	return len(tail(prevContent, s.overlap))
}

// splitRecursive cuts text into pieces no longer than budget, preserving
// every byte. Separators are kept attached to the piece they terminate.
func splitRecursive(text string, separators []string, budget int) []string {
	if len(text) <= budget {
		return []string{text}
	}
	if len(separators) == 0 || separators[0] == "" {
		return forceSplit(text, budget)
	}
	parts := strings.SplitAfter(text, separators[0])
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) <= budget {
			out = append(out, part)
			continue
		}
		out = append(out, splitRecursive(part, separators[1:], budget)...)
	}
	return out
}

// forceSplit is the character-level fallback: slices of at most budget
// bytes, cut on rune boundaries.
func forceSplit(text string, budget int) []string {
	var out []string
	for len(text) > budget {
		cut := budget
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = budget
		}
		out = append(out, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

// mergePieces greedily joins adjacent pieces while the joined length stays
// within the budget.
func mergePieces(pieces []string, budget int) []string {
	var merged []string
	var cur strings.Builder
	for _, piece := range pieces {
		if cur.Len() > 0 && cur.Len()+len(piece) > budget {
			merged = append(merged, cur.String())
			cur.Reset()
		}
		cur.WriteString(piece)
	}
	if cur.Len() > 0 {
		merged = append(merged, cur.String())
	}
	return merged
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}
