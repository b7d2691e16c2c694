package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ualberta-rcg/research-qa/internal/testutil"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

func TestTopicSearch_NoRelevanceFiltering(t *testing.T) {
	graph := testutil.NewFakeGraphClient()
	graph.VectorSearchResults["publication_embeddings"] = []types.Row{
		{"work_url": "w1", "title": "Low Score Paper", "score": 0.1},
	}

	r := New(graph, "publication_embeddings", 200, 20, 0.7)
	hits, err := r.TopicSearch(context.Background(), []float32{0.1})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Low Score Paper", hits[0].Title)
}

func TestCohortFallbackSearch_AppliesMinRelevance(t *testing.T) {
	graph := testutil.NewFakeGraphClient()
	graph.CohortVectorSearchResults["publication_embeddings"] = []types.Row{
		{"work_url": "w1", "title": "Strong Match", "score": 0.9},
		{"work_url": "w2", "title": "Weak Match", "score": 0.5},
	}

	r := New(graph, "publication_embeddings", 200, 20, 0.7)
	hits, err := r.CohortFallbackSearch(context.Background(), []float32{0.1})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Strong Match", hits[0].Title)
}

func TestCohortFallbackSearch_UsesCohortRestrictedQuery(t *testing.T) {
	graph := testutil.NewFakeGraphClient()
	graph.VectorSearchResults["publication_embeddings"] = []types.Row{
		{"work_url": "unfiltered", "title": "Should Not Appear", "score": 0.95},
	}
	graph.CohortVectorSearchResults["publication_embeddings"] = []types.Row{
		{"work_url": "w1", "title": "Cohort Match", "score": 0.9},
	}

	r := New(graph, "publication_embeddings", 200, 20, 0.7)
	hits, err := r.CohortFallbackSearch(context.Background(), []float32{0.1})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Cohort Match", hits[0].Title)
	assert.Len(t, graph.VectorSearchCalls, 0, "cohort fallback must not use the unrestricted vector search")
	assert.Len(t, graph.CohortVectorSearchCalls, 1)
}

func TestCohortFallbackSearch_VectorSearchError(t *testing.T) {
	graph := testutil.NewFakeGraphClient()
	graph.CohortVectorSearchErr = assert.AnError

	r := New(graph, "publication_embeddings", 200, 20, 0.7)
	_, err := r.CohortFallbackSearch(context.Background(), []float32{0.1})

	assert.Error(t, err)
}

func TestRowsToHits_TypeCoercion(t *testing.T) {
	rows := []types.Row{
		{"work_url": "w1", "title": "T", "score": 0.8, "year": int64(2020), "cited_by_count": 5},
	}
	hits := rowsToHits(rows, 0)

	require.Len(t, hits, 1)
	assert.Equal(t, 0.8, hits[0].Score)
	assert.Equal(t, 2020, hits[0].Year)
	assert.Equal(t, 5, hits[0].CitedByCount)
}
