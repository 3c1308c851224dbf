package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
)

func sampleDoc(content string) domain.Document {
	return domain.Document{
		Content:  content,
		Metadata: domain.Metadata{Title: "sample", Year: "2026", Uploaded: true},
	}
}

func reconstruct(t *testing.T, s *Splitter, chunks []domain.Chunk) string {
	t.Helper()
	require.NotEmpty(t, chunks)
	got := chunks[0].Content
	for i := 1; i < len(chunks); i++ {
		ol := s.OverlapLen(chunks[i].Seq, chunks[i-1].Content)
		require.LessOrEqual(t, ol, len(chunks[i].Content))
		got += chunks[i].Content[ol:]
	}
	return got
}

func TestSplitShortContentSingleChunk(t *testing.T) {
	s := NewSplitter(1000, 200)
	doc := sampleDoc(strings.Repeat("a", 50))

	chunks := s.Split(doc)

	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Content, chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Seq)
	assert.Equal(t, doc.Metadata, chunks[0].Meta)
	assert.NotEmpty(t, chunks[0].ID)
}

func TestSplitEmptyContent(t *testing.T) {
	s := NewSplitter(100, 20)
	assert.Empty(t, s.Split(sampleDoc("")))
}

func TestSplitReconstruction(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		chunkSize int
		overlap   int
	}{
		{
			name:      "paragraphs and sentences",
			content:   strings.Repeat("The gene was expressed. The protein folded! Was it stable?\n\nNext paragraph follows here.\n", 20),
			chunkSize: 100,
			overlap:   20,
		},
		{
			name:      "no separators at all",
			content:   strings.Repeat("x", 357),
			chunkSize: 100,
			overlap:   20,
		},
		{
			name:      "zero overlap",
			content:   strings.Repeat("alpha beta gamma delta. ", 40),
			chunkSize: 80,
			overlap:   0,
		},
		{
			name:      "newline heavy",
			content:   strings.Repeat("line one\nline two\nline three\n\n", 30),
			chunkSize: 120,
			overlap:   30,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSplitter(tt.chunkSize, tt.overlap)
			chunks := s.Split(sampleDoc(tt.content))
			assert.Equal(t, tt.content, reconstruct(t, s, chunks))
		})
	}
}

func TestSplitSizeBound(t *testing.T) {
	contents := []string{
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50),
		strings.Repeat("z", 1234),
		strings.Repeat("one two three four five six seven eight nine ten ", 30),
	}
	for _, content := range contents {
		s := NewSplitter(100, 20)
		for _, ch := range s.Split(sampleDoc(content)) {
			assert.LessOrEqual(t, len(ch.Content), 100, "chunk %d exceeds size", ch.Seq)
		}
	}
}

func TestSplitOverlapShared(t *testing.T) {
	s := NewSplitter(100, 20)
	content := strings.Repeat("Sentence number one here. Sentence number two here. ", 10)
	chunks := s.Split(sampleDoc(content))
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		ol := s.OverlapLen(chunks[i].Seq, chunks[i-1].Content)
		require.Greater(t, ol, 0)
		assert.True(t, strings.HasSuffix(chunks[i-1].Content, chunks[i].Content[:ol]),
			"chunk %d head must equal chunk %d tail", i, i-1)
	}
}

func TestSplitSequencesAndMetadata(t *testing.T) {
	s := NewSplitter(60, 10)
	meta := domain.Metadata{Title: "paper", Year: "2025", Journal: "Bioinformatics", DOI: "10.1/x"}
	chunks := s.Split(domain.Document{Content: strings.Repeat("Some words here. ", 30), Metadata: meta})
	require.Greater(t, len(chunks), 1)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Seq)
		assert.Equal(t, meta, ch.Meta)
	}
}

func TestNewSplitterClampsOverlap(t *testing.T) {
	s := NewSplitter(100, 150)
	assert.Equal(t, 25, s.overlap)

	s = NewSplitter(0, -1)
	assert.Equal(t, DefaultChunkSize, s.chunkSize)
	assert.Equal(t, 0, s.overlap)
}
