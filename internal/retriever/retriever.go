// Package retriever implements the Semantic Retriever (C9): topic-mode and
// cohort-fallback-mode vector search over the publication embedding index
// (spec §4.9).
package retriever

import (
	"context"
	"fmt"

	"github.com/ualberta-rcg/research-qa/internal/types"
)

// Retriever performs vector-index publication search.
type Retriever struct {
	graph           types.GraphClient
	vectorIndexName string
	topicTopK       int
	cohortTopK      int
	minRelevance    float64
}

// New constructs a Retriever.
func New(graph types.GraphClient, vectorIndexName string, topicTopK, cohortTopK int, minRelevance float64) *Retriever {
	return &Retriever{
		graph:           graph,
		vectorIndexName: vectorIndexName,
		topicTopK:       topicTopK,
		cohortTopK:      cohortTopK,
		minRelevance:    minRelevance,
	}
}

// TopicSearch searches without a cohort filter, returning up to
// topicTopK nearest publications (spec §4.9's topic mode). embedding is
// passed in already computed, since it may be the speculative question
// embedding or a freshly computed topic embedding.
func (r *Retriever) TopicSearch(ctx context.Context, embedding []float32) ([]types.PublicationHit, error) {
	rows, err := r.graph.VectorSearch(ctx, r.vectorIndexName, r.topicTopK, embedding)
	if err != nil {
		return nil, fmt.Errorf("retriever: topic search: %w", err)
	}
	return rowsToHits(rows, 0), nil
}

// CohortFallbackSearch searches, with an already computed embedding,
// restricted to publications
// authored by at least one in-house researcher, applying a minimum
// relevance threshold before returning (spec §4.9's cohort fallback mode).
// The graph client restricts the index query itself to in-house-authored
// publications (mirroring original_source's AuthorProfile/Person join); the
// threshold filter is applied here so the boundary ("score < 0.7 ->
// excluded", spec §8) is enforced independent of what the index returns.
func (r *Retriever) CohortFallbackSearch(ctx context.Context, embedding []float32) ([]types.PublicationHit, error) {
	rows, err := r.graph.CohortVectorSearch(ctx, r.vectorIndexName, r.cohortTopK, embedding)
	if err != nil {
		return nil, fmt.Errorf("retriever: cohort fallback search: %w", err)
	}
	return rowsToHits(rows, r.minRelevance), nil
}

func rowsToHits(rows []types.Row, minRelevance float64) []types.PublicationHit {
	hits := make([]types.PublicationHit, 0, len(rows))
	for _, row := range rows {
		score := asFloat(row["score"])
		if score < minRelevance {
			continue
		}
		hits = append(hits, types.PublicationHit{
			WorkURL:      asString(row["work_url"]),
			Title:        asString(row["title"]),
			Abstract:     asString(row["abstract"]),
			Year:         asInt(row["year"]),
			CitedByCount: asInt(row["cited_by_count"]),
			DOI:          asString(row["doi"]),
			Score:        score,
		})
	}
	return hits
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
