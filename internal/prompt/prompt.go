// Package prompt assembles retrieved context and the user's question into
// the message list sent to the generator.
package prompt

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
)

// Delimiter separates retrieved documents inside the context block.
const Delimiter = "\n\n---\n\n"

// Instruction is the fixed system instruction for context-grounded answers.
const Instruction = "You are a lab assistant for bioinformatics research. " +
	"Answer only using the provided context. When a statement is supported by " +
	"the nth reference document, cite it inline as [n]. If the context does " +
	"not contain the answer, say so instead of guessing."

// Build constructs the message list for one context-augmented answer:
// a system instruction turn, a system turn carrying the context block
// (retrieved contents joined by Delimiter in retrieval order), and the
// user's question as the final turn.
//
// Prior conversation turns are deliberately not included: each question is
// answered independently against fresh retrieval. Revisit the session layer
// before changing that.
func Build(retrieved []domain.Result, question string) []domain.Turn {
	contents := make([]string, 0, len(retrieved))
	for _, r := range retrieved {
		contents = append(contents, r.Document.Content)
	}
	contextBlock := strings.Join(contents, Delimiter)
	return []domain.Turn{
		{Role: domain.RoleSystem, Content: Instruction},
		{Role: domain.RoleSystem, Content: "Context:\n" + contextBlock},
		{Role: domain.RoleUser, Content: question},
	}
}

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// TokenCount estimates the token size of a message list for the context
// budget log line. The tokenizer is loaded once; when it is unavailable
// (offline) the count degrades to a characters/4 estimate.
func TokenCount(turns []domain.Turn) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
		if err == nil {
			encoding = enc
		}
	})
	total := 0
	for _, t := range turns {
		if encoding != nil {
			total += len(encoding.Encode(t.Content, nil, nil))
		} else {
			total += len(t.Content) / 4
		}
	}
	return total
}
