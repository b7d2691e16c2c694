package orchestrator

import (
	"context"
	"fmt"

	"github.com/ualberta-rcg/research-qa/internal/logger"
	"github.com/ualberta-rcg/research-qa/internal/querygen"
	"github.com/ualberta-rcg/research-qa/internal/synthesizer"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

// runSemanticFallbackPath implements the SEMANTIC_FALLBACK state (spec
// §4.7): cohort-restricted vector search; if empty, emit a no-results
// answer; else discover in-house authors of the top hits and synthesize.
func (o *Orchestrator) runSemanticFallbackPath(
	ctx context.Context,
	req Request,
	in types.Intent,
	questionEmbedding []float32,
	telemetry *types.Telemetry,
) (*Response, error) {
	var hits []types.PublicationHit
	err := stage(telemetry, "cohort_fallback_search", func() error {
		h, err := o.retriever.CohortFallbackSearch(ctx, questionEmbedding)
		if err != nil {
			return err
		}
		hits = h
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("semantic fallback: search failed: %w", err)
	}

	if len(hits) == 0 {
		logger.Warnf(ctx, "orchestrator: semantic fallback found no hits for question %q", req.Question)
		return &Response{
			Intent:       in,
			SemanticHits: []types.PublicationHit{},
			Answer:       "I couldn't find any related publications for that question. Try rephrasing it or naming a specific researcher or topic.",
		}, nil
	}

	titles := make([]string, 0, len(hits))
	for _, h := range hits {
		titles = append(titles, h.Title)
	}

	var authorData []types.Row
	err = stage(telemetry, "author_discovery", func() error {
		query, err := o.generator.GenerateAuthorDiscoveryQuery(ctx, titles)
		if err != nil {
			return err
		}
		query = querygen.StripCodeFences(query)
		rows, err := o.graph.Execute(ctx, query, map[string]interface{}{"titles": titles})
		if err != nil {
			return err
		}
		authorData = rows
		return nil
	})
	if err != nil {
		logger.Warnf(ctx, "orchestrator: author discovery failed, synthesizing from hits alone: %v", err)
		authorData = nil
	}

	var answer string
	err = stage(telemetry, "synthesize", func() error {
		a, err := o.synth.SynthesizeSemanticFallback(ctx, synthesizer.SemanticFallbackPayload{
			Question:     req.Question,
			SemanticHits: hits,
			AuthorData:   authorData,
		}, historyToMessages(req.History))
		if err != nil {
			return err
		}
		answer = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("semantic fallback: synthesis failed: %w", err)
	}

	return &Response{
		Intent:       in,
		SemanticHits: hits,
		DBRows:       authorData,
		Answer:       answer,
	}, nil
}
