package citation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
)

func result(title string, score float64) domain.Result {
	return domain.Result{
		Document: domain.Document{
			Content: "text of " + title,
			Metadata: domain.Metadata{
				Title:   title,
				Year:    "2021",
				Journal: "Nature Methods",
				DOI:     "10.1038/" + title,
			},
		},
		Score: score,
	}
}

func TestBuildThresholdFilter(t *testing.T) {
	retrieved := []domain.Result{
		result("alpha", 0.2),
		result("beta", 1.5),
		result("gamma", 1.0),
	}

	out := Build(retrieved, DefaultThreshold)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	// numbering follows retrieval position, including skipped documents
	assert.Equal(t, "[1] alpha (2021 Nature Methods). doi:10.1038/alpha", lines[0])
	assert.Equal(t, "[3] gamma (2021 Nature Methods). doi:10.1038/gamma", lines[1])
}

func TestBuildTighterThresholdShrinksSet(t *testing.T) {
	retrieved := []domain.Result{
		result("alpha", 0.2),
		result("beta", 0.9),
		result("gamma", 0.0),
	}

	loose := Build(retrieved, 1.0)
	tight := Build(retrieved, 0.0)

	looseCount := len(strings.Split(loose, "\n"))
	tightCount := len(strings.Split(tight, "\n"))
	assert.Equal(t, 3, looseCount)
	assert.Equal(t, 1, tightCount)
	assert.LessOrEqual(t, tightCount, looseCount)
	assert.Equal(t, "[3] gamma (2021 Nature Methods). doi:10.1038/gamma", tight)
}

func TestBuildNoQualifyingDocuments(t *testing.T) {
	retrieved := []domain.Result{result("alpha", 2.0)}
	assert.Equal(t, "", Build(retrieved, 1.0))
	assert.Equal(t, "", Build(nil, 1.0))
}

func TestBuildSingleDocumentScenario(t *testing.T) {
	out := Build([]domain.Result{result("paper", 0.3)}, 1.0)
	require.NotEmpty(t, out)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "[1]"))
}
