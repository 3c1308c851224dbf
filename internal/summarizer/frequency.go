// Package summarizer produces short summaries of ingested text for the
// status bar.
package summarizer

import (
	"sort"
	"strings"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/textutil"
)

// FrequencySummarizer ranks sentences by word frequency (stopwords
// filtered) and returns the top sentences in their original order.
type FrequencySummarizer struct{}

// NewFrequencySummarizer creates a frequency-based sentence ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{}
}

// Summarize returns a short summary by ranking sentences using token
// frequency.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := textutil.SplitSentences(text)
	if len(sentences) == 0 {
		return "", nil
	}
	if len(sentences) <= maxSentences {
		return strings.TrimSpace(strings.Join(sentences, " ")), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range textutil.Tokenize(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF == 0 {
		return strings.TrimSpace(sentences[0]), nil
	}

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(sentences))
	for i, sent := range sentences {
		total := 0.0
		tokens := textutil.Tokenize(sent)
		for _, tok := range tokens {
			total += freq[tok] / maxF
		}
		if len(tokens) > 0 {
			total /= float64(len(tokens))
		}
		scores[i] = ranked{idx: i, score: total}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	picked := scores[:maxSentences]
	sort.Slice(picked, func(i, j int) bool { return picked[i].idx < picked[j].idx })
	out := make([]string, 0, maxSentences)
	for _, p := range picked {
		out = append(out, strings.TrimSpace(sentences[p.idx]))
	}
	return strings.Join(out, " "), nil
}
