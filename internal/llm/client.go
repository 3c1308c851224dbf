// Package llm streams answers from an OpenAI-compatible chat-completion
// endpoint.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
)

// Warning is the degraded-mode token yielded when the completion
// capability is not configured.
const Warning = "⚠️ Chat model not initialised – check your API key."

// Config configures the chat-completion client. The API key is read from
// the environment; its absence puts the client in degraded mode instead of
// failing construction.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client streams chat completions.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewClient creates a chat-completion client. A missing API key is not an
// error: the client degrades to a one-token warning stream per request.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	// No client-level timeout: it would cut off long streams. Callers
	// cancel via context; cfg.Timeout bounds the response headers only.
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	transport := &http.Transport{ResponseHeaderTimeout: timeout}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      os.Getenv(cfg.APIKeyEnv),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{Transport: transport},
	}
}

// Available reports whether the completion capability is configured.
func (c *Client) Available() bool { return c.apiKey != "" }

// Stream sends the message list and returns a token stream. The stream is
// finite and not restartable; concatenating its tokens yields the complete
// answer. Without credentials the stream yields exactly the Warning token
// and terminates.
func (c *Client) Stream(ctx context.Context, turns []domain.Turn) *Stream {
	if !c.Available() {
		return &Stream{pending: []string{Warning}, degraded: true}
	}

	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	payload := map[string]any{
		"model":  c.model,
		"stream": true,
	}
	msgs := make([]message, len(turns))
	for i, t := range turns {
		msgs[i] = message{Role: string(t.Role), Content: t.Content}
	}
	payload["messages"] = msgs
	if c.temperature != 0 {
		payload["temperature"] = c.temperature
	}
	if c.maxTokens != 0 {
		payload["max_tokens"] = c.maxTokens
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return &Stream{err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return &Stream{err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return &Stream{err: fmt.Errorf("%w: %v", domain.ErrUnavailable, err)}
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		_ = resp.Body.Close()
		return &Stream{err: fmt.Errorf("%w: %s: %s", domain.ErrUnavailable, resp.Status, strings.TrimSpace(string(body)))}
	}
	return &Stream{body: resp.Body, scanner: bufio.NewScanner(resp.Body)}
}

// Stream is a finite sequence of answer fragments. Each Recv blocks on the
// underlying connection until the next fragment arrives, so callers can
// render partial progress between calls.
type Stream struct {
	body     io.ReadCloser
	scanner  *bufio.Scanner
	pending  []string
	degraded bool
	err      error
	done     bool
}

// Degraded reports whether this stream carries the missing-credentials
// warning instead of a model answer.
func (s *Stream) Degraded() bool { return s.degraded }

// Recv returns the next token. It returns io.EOF at end-of-stream and any
// transport error as a terminal error.
func (s *Stream) Recv() (string, error) {
	if len(s.pending) > 0 {
		tok := s.pending[0]
		s.pending = s.pending[1:]
		return tok, nil
	}
	if s.err != nil {
		err := s.err
		s.err = nil
		s.done = true
		return "", err
	}
	if s.done || s.scanner == nil {
		return "", io.EOF
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			s.close()
			return "", io.EOF
		}
		var delta struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(data), &delta); err != nil {
			continue
		}
		if len(delta.Choices) == 0 || delta.Choices[0].Delta.Content == "" {
			continue
		}
		return delta.Choices[0].Delta.Content, nil
	}
	err := s.scanner.Err()
	s.close()
	if err != nil {
		return "", err
	}
	return "", io.EOF
}

// Close releases the underlying connection. Abandoning a stream without
// draining it is safe.
func (s *Stream) Close() error {
	s.close()
	return nil
}

func (s *Stream) close() {
	s.done = true
	if s.body != nil {
		_ = s.body.Close()
		s.body = nil
	}
}
