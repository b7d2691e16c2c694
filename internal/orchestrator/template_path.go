package orchestrator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ualberta-rcg/research-qa/internal/logger"
	"github.com/ualberta-rcg/research-qa/internal/querygen"
	"github.com/ualberta-rcg/research-qa/internal/synthesizer"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

// runTemplatePath implements the TEMPLATE state (spec §4.7): generate the
// query, optionally run topic semantic search in parallel, execute, and
// synthesize. If the executed query returns no rows and topic search found
// no hits, it falls back to cohort-restricted semantic search before
// declaring an empty result (spec §4.9's cohort fallback mode, second
// trigger condition). When topic hits exist, the cohort search does not run
// and the topic hits are used instead.
func (o *Orchestrator) runTemplatePath(
	ctx context.Context,
	req Request,
	in types.Intent,
	questionEmbedding []float32,
	telemetry *types.Telemetry,
) (*Response, error) {
	if in.Kind == types.AuthorMainResearchAreas {
		return o.runResearchAreasPath(ctx, req, in, telemetry)
	}

	var (
		cypher       string
		genErr       error
		topicHits    []types.PublicationHit
	)

	topicBearing := types.TopicBearing[in.Kind]

	err := stage(telemetry, "generate_query_and_topic_search", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			cypher, genErr = o.generator.Generate(gctx, in)
			return genErr
		})
		if topicBearing && in.Topic != "" {
			g.Go(func() error {
				topicEmbedding, err := o.llm.Embed(gctx, in.Topic)
				if err != nil {
					logger.Warnf(gctx, "orchestrator: topic embedding failed: %v", err)
					return nil
				}
				hits, err := o.retriever.TopicSearch(gctx, topicEmbedding)
				if err != nil {
					logger.Warnf(gctx, "orchestrator: topic search failed: %v", err)
					return nil
				}
				topicHits = hits
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, fmt.Errorf("template path: query generation failed: %w", err)
	}

	cypher = querygen.PatchDepartmentClause(cypher)

	var rows []types.Row
	err = stage(telemetry, "execute_query", func() error {
		r, err := o.graph.Execute(ctx, cypher, queryParams(in))
		if err != nil {
			return err
		}
		rows = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("template path: query execution failed: %w", err)
	}

	semanticHits := topicHits
	if len(rows) == 0 && len(semanticHits) == 0 {
		err = stage(telemetry, "cohort_fallback_search", func() error {
			hits, err := o.retriever.CohortFallbackSearch(ctx, questionEmbedding)
			if err != nil {
				return err
			}
			semanticHits = hits
			return nil
		})
		if err != nil {
			logger.Warnf(ctx, "orchestrator: cohort fallback search failed: %v", err)
			semanticHits = nil
		}
	}

	if len(rows) == 0 && len(semanticHits) == 0 {
		logger.Warnf(ctx, "orchestrator: template path empty result for intent %s", in.Kind)
		return &Response{
			Intent:       in,
			Cypher:       cypher,
			DBRows:       []types.Row{},
			SemanticHits: []types.PublicationHit{},
			Answer:       "I couldn't find anything in the database or in related publications for that question. Try rephrasing it or narrowing the scope.",
		}, nil
	}

	var answer string
	err = stage(telemetry, "synthesize", func() error {
		a, err := o.synth.SynthesizeTemplate(ctx, synthesizer.TemplatePayload{
			Question:     req.Question,
			Intent:       in,
			Query:        cypher,
			Rows:         rows,
			SemanticHits: semanticHits,
		}, historyToMessages(req.History))
		if err != nil {
			return err
		}
		answer = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("template path: synthesis failed: %w", err)
	}

	return &Response{
		Intent:       in,
		Cypher:       cypher,
		DBRows:       rows,
		SemanticHits: semanticHits,
		Answer:       answer,
	}, nil
}

// runResearchAreasPath implements AUTHOR_MAIN_RESEARCH_AREAS's two-tier
// search (original_source pattern 7, "shallow vs deep"): try the STUDIES/
// WORKS_ON tag and keyword edges first; only when both are empty, fall back
// to summarizing the author's publication titles.
func (o *Orchestrator) runResearchAreasPath(ctx context.Context, req Request, in types.Intent, telemetry *types.Telemetry) (*Response, error) {
	shallowQuery := querygen.ResearchAreasShallowQuery()
	var shallowRows []types.Row
	err := stage(telemetry, "research_areas_shallow", func() error {
		rows, err := o.graph.Execute(ctx, shallowQuery, map[string]interface{}{"authorId": in.AuthorID})
		if err != nil {
			return err
		}
		shallowRows = rows
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("research areas: shallow query failed: %w", err)
	}

	if hasTagOrKeyword(shallowRows) {
		var answer string
		err = stage(telemetry, "synthesize", func() error {
			a, err := o.synth.SynthesizeTemplate(ctx, synthesizer.TemplatePayload{
				Question: req.Question,
				Intent:   in,
				Query:    shallowQuery,
				Rows:     shallowRows,
			}, historyToMessages(req.History))
			if err != nil {
				return err
			}
			answer = a
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("research areas: shallow synthesis failed: %w", err)
		}
		return &Response{
			Intent:       in,
			Cypher:       shallowQuery,
			DBRows:       shallowRows,
			SemanticHits: []types.PublicationHit{},
			Answer:       answer,
		}, nil
	}

	logger.Infof(ctx, "orchestrator: research areas shallow tier empty for author %s, falling back to title analysis", in.AuthorID)

	deepQuery := querygen.ResearchAreasDeepQuery()
	var deepRows []types.Row
	err = stage(telemetry, "research_areas_deep", func() error {
		rows, err := o.graph.Execute(ctx, deepQuery, map[string]interface{}{"authorId": in.AuthorID})
		if err != nil {
			return err
		}
		deepRows = rows
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("research areas: deep query failed: %w", err)
	}

	titles := make([]string, 0, len(deepRows))
	for _, row := range deepRows {
		if t, ok := row["title"].(string); ok && t != "" {
			titles = append(titles, t)
		}
	}

	if len(titles) == 0 {
		return &Response{
			Intent:       in,
			Cypher:       deepQuery,
			DBRows:       []types.Row{},
			SemanticHits: []types.PublicationHit{},
			Answer:       "I couldn't find any publications to summarize this researcher's main research areas.",
		}, nil
	}

	var answer string
	err = stage(telemetry, "synthesize", func() error {
		a, err := o.synth.SynthesizeTitleTopicSummary(ctx, titles, historyToMessages(req.History))
		if err != nil {
			return err
		}
		answer = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("research areas: title summary failed: %w", err)
	}

	return &Response{
		Intent:       in,
		Cypher:       deepQuery,
		DBRows:       deepRows,
		SemanticHits: []types.PublicationHit{},
		Answer:       answer,
	}, nil
}

// hasTagOrKeyword reports whether the shallow tier found at least one
// non-empty tag or keyword value.
func hasTagOrKeyword(rows []types.Row) bool {
	for _, row := range rows {
		if t, ok := row["tag"].(string); ok && t != "" {
			return true
		}
		if k, ok := row["keyword"].(string); ok && k != "" {
			return true
		}
	}
	return false
}

// queryParams projects the intent's resolved slots into the parameter map
// the generated query's named parameters are expected to bind against.
func queryParams(in types.Intent) map[string]interface{} {
	params := map[string]interface{}{}
	if in.AuthorID != "" {
		params["authorId"] = in.AuthorID
	}
	if in.SecondAuthorID != "" {
		params["secondAuthorId"] = in.SecondAuthorID
	}
	if in.Topic != "" {
		params["topic"] = in.Topic
	}
	if in.HasDepartmentList() {
		params["departments"] = in.Departments
	} else if in.Department != "" {
		params["department"] = in.Department
	}
	if in.StartYear != 0 {
		params["startYear"] = in.StartYear
	}
	if in.EndYear != 0 {
		params["endYear"] = in.EndYear
	}
	return params
}
