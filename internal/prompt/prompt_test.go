package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
)

func retrieved(contents ...string) []domain.Result {
	out := make([]domain.Result, len(contents))
	for i, c := range contents {
		out[i] = domain.Result{Document: domain.Document{Content: c}}
	}
	return out
}

func TestBuildStructure(t *testing.T) {
	turns := Build(retrieved("first doc", "second doc"), "what is CRISPR?")

	require.Len(t, turns, 3)
	assert.Equal(t, domain.RoleSystem, turns[0].Role)
	assert.Equal(t, Instruction, turns[0].Content)
	assert.Equal(t, domain.RoleSystem, turns[1].Role)
	assert.Equal(t, domain.RoleUser, turns[2].Role)
	assert.Equal(t, "what is CRISPR?", turns[2].Content)
}

func TestBuildContextOrderAndDelimiter(t *testing.T) {
	turns := Build(retrieved("alpha", "beta", "gamma"), "q")

	ctx := turns[1].Content
	assert.Equal(t, "Context:\n"+strings.Join([]string{"alpha", "beta", "gamma"}, Delimiter), ctx)
	assert.Less(t, strings.Index(ctx, "alpha"), strings.Index(ctx, "beta"))
	assert.Less(t, strings.Index(ctx, "beta"), strings.Index(ctx, "gamma"))
}

func TestBuildEmptyRetrieval(t *testing.T) {
	turns := Build(nil, "q")
	require.Len(t, turns, 3)
	assert.Equal(t, "Context:\n", turns[1].Content)
}

func TestTokenCountPositive(t *testing.T) {
	turns := Build(retrieved(strings.Repeat("gene expression data ", 50)), "how many samples?")
	assert.Greater(t, TokenCount(turns), 0)
}
