package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ualberta-rcg/research-qa/internal/testutil"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

func TestResolve_EmptyAuthorReturnsNone(t *testing.T) {
	graph := testutil.NewFakeGraphClient()
	r := New(graph, "researcher_names", 5)

	result, err := r.Resolve(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, types.ResolutionNone, result.Path)
}

func TestResolve_SingleExactMatch(t *testing.T) {
	graph := testutil.NewFakeGraphClient()
	query := `
MATCH (r:Researcher)
WHERE (r.user_id IS NOT NULL OR r.ccid IS NOT NULL)
  AND (toLower(r.name) = toLower($name) OR toLower(r.normalized_name) = toLower($name))
RETURN coalesce(r.user_id, r.ccid) AS author_id`
	graph.ExecuteResults[query] = []types.Row{{"author_id": "u123"}}

	r := New(graph, "researcher_names", 5)
	result, err := r.Resolve(context.Background(), "Jane Smith")

	require.NoError(t, err)
	assert.Equal(t, types.ResolutionExact, result.Path)
	assert.Equal(t, "u123", result.AuthorID)
}

func TestResolve_MultipleExactMatchesFallThroughToFuzzy(t *testing.T) {
	graph := testutil.NewFakeGraphClient()
	exactQuery := `
MATCH (r:Researcher)
WHERE (r.user_id IS NOT NULL OR r.ccid IS NOT NULL)
  AND (toLower(r.name) = toLower($name) OR toLower(r.normalized_name) = toLower($name))
RETURN coalesce(r.user_id, r.ccid) AS author_id`
	graph.ExecuteResults[exactQuery] = []types.Row{{"author_id": "u1"}, {"author_id": "u2"}}
	graph.FulltextResults["researcher_names"] = []types.Row{
		{"user_id": "u1", "name": "Jane Smith", "normalized_name": "jane smith", "score": 2.0},
		{"user_id": "u2", "name": "Jane Smyth", "normalized_name": "jane smyth", "score": 1.0},
	}

	r := New(graph, "researcher_names", 5)
	result, err := r.Resolve(context.Background(), "Jane Smith")

	require.NoError(t, err)
	assert.Equal(t, types.ResolutionFuzzy, result.Path)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "u1", result.Candidates[0].UserID)
}

func TestResolve_NoExactNoFuzzyReturnsNone(t *testing.T) {
	graph := testutil.NewFakeGraphClient()
	r := New(graph, "researcher_names", 5)

	result, err := r.Resolve(context.Background(), "Nobody Atall")
	require.NoError(t, err)
	assert.Equal(t, types.ResolutionNone, result.Path)
}

func TestResolve_FuzzyTieBreakByJaroWinkler(t *testing.T) {
	graph := testutil.NewFakeGraphClient()
	graph.FulltextResults["researcher_names"] = []types.Row{
		{"user_id": "u1", "name": "Jon Snow", "normalized_name": "jon snow", "score": 1.0},
		{"user_id": "u2", "name": "John Snow", "normalized_name": "john snow", "score": 1.0},
	}

	r := New(graph, "researcher_names", 5)
	result, err := r.Resolve(context.Background(), "John Snow")

	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	// Equal index score: exact string "John Snow" re-scores higher against
	// itself, so it must sort first despite arriving second from the index.
	assert.Equal(t, "u2", result.Candidates[0].UserID)
}

func TestResolve_CandidatesWithoutStableIDAreExcluded(t *testing.T) {
	graph := testutil.NewFakeGraphClient()
	graph.FulltextResults["researcher_names"] = []types.Row{
		{"name": "No ID Person", "normalized_name": "no id person", "score": 5.0},
	}

	r := New(graph, "researcher_names", 5)
	result, err := r.Resolve(context.Background(), "No Id Person")

	require.NoError(t, err)
	assert.Equal(t, types.ResolutionNone, result.Path)
}

func TestResolve_CandidateLimitTruncates(t *testing.T) {
	graph := testutil.NewFakeGraphClient()
	graph.FulltextResults["researcher_names"] = []types.Row{
		{"user_id": "u1", "name": "A", "normalized_name": "a", "score": 3.0},
		{"user_id": "u2", "name": "B", "normalized_name": "b", "score": 2.0},
		{"user_id": "u3", "name": "C", "normalized_name": "c", "score": 1.0},
	}

	r := New(graph, "researcher_names", 2)
	result, err := r.Resolve(context.Background(), "query")

	require.NoError(t, err)
	assert.Len(t, result.Candidates, 2)
}

func TestFuzzyExpression(t *testing.T) {
	assert.Equal(t, "jane~ smith~", fuzzyExpression("jane smith"))
}
