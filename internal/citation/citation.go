// Package citation formats the reference list for a context-augmented
// answer.
package citation

import (
	"fmt"
	"strings"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
)

// DefaultThreshold is the distance cutoff for including a citation.
const DefaultThreshold = 1.0

// Build returns one line per retrieved document whose score is at or below
// the threshold, numbered by its 1-indexed position in retrieval order so
// the numbers match the inline [n] markers in the answer. Documents above
// the threshold keep their position but are omitted. Returns the empty
// string when nothing qualifies.
func Build(retrieved []domain.Result, threshold float64) string {
	var lines []string
	for i, r := range retrieved {
		if r.Score > threshold {
			continue
		}
		m := r.Document.Metadata
		lines = append(lines, fmt.Sprintf("[%d] %s (%s %s). doi:%s", i+1, m.Title, m.Year, m.Journal, m.DOI))
	}
	return strings.Join(lines, "\n")
}
