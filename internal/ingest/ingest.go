// Package ingest converts uploaded raw files into chunked documents ready
// for embedding and indexing.
package ingest

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/chunker"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
)

// Pipeline turns raw uploads into chunks. One bad file never aborts the
// rest of the batch.
type Pipeline struct {
	splitter *chunker.Splitter
	logger   *slog.Logger
}

// NewPipeline creates an ingestion pipeline using the given splitter.
func NewPipeline(splitter *chunker.Splitter) *Pipeline {
	return &Pipeline{splitter: splitter, logger: slog.Default()}
}

// Ingest processes each file independently and returns all produced chunks
// together with the per-file errors encountered along the way.
func (p *Pipeline) Ingest(files []domain.RawFile) ([]domain.Chunk, []error) {
	var chunks []domain.Chunk
	var errs []error
	for _, f := range files {
		cs, err := p.ingestOne(f)
		if err != nil {
			p.logger.Warn("skipping file", "name", f.Name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
			continue
		}
		p.logger.Info("ingested file", "name", f.Name, "chunks", len(cs))
		chunks = append(chunks, cs...)
	}
	return chunks, errs
}

func (p *Pipeline) ingestOne(f domain.RawFile) ([]domain.Chunk, error) {
	var text string
	var err error
	if isPDF(f) {
		text, err = extractPDFText(f.Data)
		if err != nil {
			return nil, err
		}
	} else {
		// Unknown binary falls back to text decoding; invalid byte
		// sequences are dropped, not fatal.
		text = strings.ToValidUTF8(string(f.Data), "")
		text = strings.ReplaceAll(text, "\x00", "")
	}
	if len(text) == 0 {
		return nil, domain.ErrUnsupportedFile
	}
	doc := domain.Document{
		Content: text,
		Metadata: domain.Metadata{
			Title:    titleFromFilename(f.Name),
			Year:     strconv.Itoa(time.Now().Year()),
			Uploaded: true,
		},
	}
	return p.splitter.Split(doc), nil
}

func isPDF(f domain.RawFile) bool {
	if strings.EqualFold(f.MIME, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(f.Name), ".pdf")
}

func titleFromFilename(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
