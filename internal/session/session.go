// Package session owns the per-session conversation state and orchestrates
// one question-answer round: retrieve, assemble, stream, append.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/citation"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/ingest"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/prompt"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/vectorindex"
)

// Greeting seeds every new session's transcript.
const Greeting = "Hello 👋 — how can I help you in the lab today?"

// EmptyIndexReply is the assistant turn for questions asked before any
// document has been indexed.
const EmptyIndexReply = "The knowledge base is empty. Upload some reference " +
	"documents and ask again."

// ErrBusy reports a question asked while the previous answer is still
// streaming.
var ErrBusy = errors.New("previous answer still streaming")

// Retriever is the query-side dependency of a session.
type Retriever interface {
	Retrieve(query string, k int) ([]domain.Result, error)
}

// TokenStream is a finite sequence of answer fragments.
type TokenStream interface {
	Recv() (string, error)
	Close() error
	Degraded() bool
}

// GenerateFunc produces a token stream for a message list.
type GenerateFunc func(ctx context.Context, turns []domain.Turn) TokenStream

// Summarizer produces a brief summary of ingested text for the status bar.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// Config carries the shared, process-wide dependencies into a session.
// Sessions never share mutable state with each other; the embedder and
// index are the read-mostly singletons.
type Config struct {
	Retriever  Retriever
	Generate   GenerateFunc
	Pipeline   *ingest.Pipeline
	Embedder   domain.Embedder
	Index      vectorindex.Index
	Summarizer Summarizer
	IndexPath  string
	TopK       int
	Threshold  float64
}

// Session is the append-only conversation state for one user.
type Session struct {
	mu        sync.Mutex
	turns     []domain.Turn
	awaiting  bool
	uploading bool

	cfg    Config
	logger *slog.Logger
}

// New creates a session seeded with the assistant greeting.
func New(cfg Config) *Session {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = citation.DefaultThreshold
	}
	return &Session{
		turns:  []domain.Turn{{Role: domain.RoleAssistant, Content: Greeting}},
		cfg:    cfg,
		logger: slog.Default(),
	}
}

// Turns returns a snapshot of the conversation so far.
func (s *Session) Turns() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Uploading reports whether an upload is in progress.
func (s *Session) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}

// Ask appends the user turn and starts one answer round. The returned
// Answer yields tokens via Recv; once it is exhausted, exactly one
// assistant turn has been appended, whatever happened along the way.
func (s *Session) Ask(ctx context.Context, question string) (*Answer, error) {
	s.mu.Lock()
	if s.awaiting {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.awaiting = true
	s.turns = append(s.turns, domain.Turn{Role: domain.RoleUser, Content: question})
	s.mu.Unlock()

	results, err := s.cfg.Retriever.Retrieve(question, s.cfg.TopK)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyIndex) {
			return &Answer{session: s, stream: &staticStream{token: EmptyIndexReply}}, nil
		}
		s.logger.Warn("retrieval failed", "err", err)
		warn := fmt.Sprintf("⚠️ Could not search the knowledge base: %v", err)
		return &Answer{session: s, stream: &staticStream{token: warn}}, nil
	}

	messages := prompt.Build(results, question)
	s.logger.Info("prompt assembled",
		"documents", len(results),
		"context_tokens", prompt.TokenCount(messages))

	return &Answer{
		session:   s,
		stream:    s.cfg.Generate(ctx, messages),
		citations: citation.Build(results, s.cfg.Threshold),
	}, nil
}

// finishRound appends the assistant turn, closing the round.
func (s *Session) finishRound(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, domain.Turn{Role: domain.RoleAssistant, Content: content})
	s.awaiting = false
}

// Upload ingests raw files into the index and persists it. Per-file errors
// are collected; one bad file never aborts the batch. The returned summary
// is a short status-bar line describing what was added.
func (s *Session) Upload(files []domain.RawFile) (string, []error) {
	s.mu.Lock()
	s.uploading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.uploading = false
		s.mu.Unlock()
	}()

	chunks, errs := s.cfg.Pipeline.Ingest(files)
	if len(chunks) == 0 {
		return "", errs
	}

	records := make([]domain.Record, 0, len(chunks))
	var ingested strings.Builder
	for _, ch := range chunks {
		vec, err := s.cfg.Embedder.Embed(ch.Content)
		if err != nil {
			errs = append(errs, fmt.Errorf("chunk %d of %q: %w", ch.Seq, ch.Meta.Title, err))
			continue
		}
		records = append(records, domain.Record{Vector: vec, Chunk: ch})
		ingested.WriteString(ch.Content)
		ingested.WriteString("\n")
	}
	if len(records) == 0 {
		return "", errs
	}
	if err := s.cfg.Index.Insert(records); err != nil {
		return "", append(errs, err)
	}
	if s.cfg.IndexPath != "" {
		if err := s.cfg.Index.Save(s.cfg.IndexPath); err != nil {
			errs = append(errs, fmt.Errorf("saving index: %w", err))
		}
	}

	summary := fmt.Sprintf("Stored %d chunk(s) from %d file(s).", len(records), len(files)-len(errs))
	if s.cfg.Summarizer != nil {
		if brief, err := s.cfg.Summarizer.Summarize(ingested.String(), 2); err == nil && brief != "" {
			summary += " " + brief
		}
	}
	return summary, errs
}

// Answer is one in-flight assistant reply: a token stream plus the
// completion values (full text, citation block) available after the stream
// is exhausted.
type Answer struct {
	session   *Session
	stream    TokenStream
	citations string
	text      strings.Builder
	done      bool
	failed    bool
}

// Recv returns the next answer fragment, or io.EOF once the answer is
// complete and the assistant turn has been appended. Transport failures
// surface as one final warning fragment, so concatenating every fragment
// always equals the stored assistant turn.
func (a *Answer) Recv() (string, error) {
	if a.done {
		return "", io.EOF
	}
	if a.failed {
		a.finish()
		return "", io.EOF
	}
	tok, err := a.stream.Recv()
	if err == nil {
		a.text.WriteString(tok)
		return tok, nil
	}
	if errors.Is(err, io.EOF) {
		a.finish()
		return "", io.EOF
	}
	a.failed = true
	warn := fmt.Sprintf("⚠️ Answer interrupted: %v", err)
	if a.text.Len() > 0 {
		warn = "\n\n" + warn
	}
	a.text.WriteString(warn)
	return warn, nil
}

// Citations returns the reference block once the stream is exhausted, and
// the empty string before that or when no document qualified.
func (a *Answer) Citations() string {
	if !a.done {
		return ""
	}
	if a.Degraded() {
		return ""
	}
	return a.citations
}

// Text returns the accumulated answer so far.
func (a *Answer) Text() string { return a.text.String() }

// Degraded reports whether the reply is the missing-credentials warning.
func (a *Answer) Degraded() bool { return a.stream.Degraded() }

// Close abandons the stream; the round still closes with whatever text
// has accumulated.
func (a *Answer) Close() error {
	if !a.done {
		_ = a.stream.Close()
		a.finish()
	}
	return nil
}

func (a *Answer) finish() {
	a.done = true
	a.session.finishRound(a.text.String())
}

// staticStream yields exactly one token and terminates. It backs the
// empty-index and retrieval-failure replies.
type staticStream struct {
	token string
	done  bool
}

func (s *staticStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	s.done = true
	return s.token, nil
}
func (s *staticStream) Close() error   { return nil }
func (s *staticStream) Degraded() bool { return false }
