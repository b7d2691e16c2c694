// Package synthesizer implements the Answer Synthesizer (C10): producing the
// final natural-language answer from intent, structured rows, semantic hits,
// and conversation history, with mandatory payload sanitization and a
// second-pass re-ask when the template path yields no rows but semantic hits
// exist (spec §4.10).
package synthesizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ualberta-rcg/research-qa/internal/prompts"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

const (
	maxListItems    = 15
	maxStringLength = 500
	truncationMark  = " …[truncated]"
)

// Synthesizer produces final answers.
type Synthesizer struct {
	llm      types.LLMClient
	registry *prompts.Registry
}

// New constructs a Synthesizer.
func New(llm types.LLMClient, registry *prompts.Registry) *Synthesizer {
	return &Synthesizer{llm: llm, registry: registry}
}

// TemplatePayload is the sanitized input to the template-path synthesis
// prompt (spec §4.10).
type TemplatePayload struct {
	Question     string             `json:"question"`
	Intent       types.Intent       `json:"intent"`
	Query        string             `json:"query"`
	Rows         []types.Row        `json:"rows"`
	SemanticHits []types.PublicationHit `json:"semantic_hits"`
}

// SynthesizeTemplate synthesizes the template-path answer. If rows is empty
// but semanticHits is non-empty, a second-pass re-ask runs with the
// first-pass answer as context and its output replaces the first answer
// (spec §4.10).
func (s *Synthesizer) SynthesizeTemplate(ctx context.Context, payload TemplatePayload, history []types.ChatMessage) (string, error) {
	sanitized := payload
	sanitized.Rows = truncateRows(payload.Rows)
	sanitized.SemanticHits = truncateHits(payload.SemanticHits)

	body, err := json.Marshal(sanitized)
	if err != nil {
		return "", fmt.Errorf("synthesizer: marshal template payload: %w", err)
	}

	answer, err := s.llm.Chat(ctx, s.registry.Get(prompts.AnswerSynthesis), string(body), history, false)
	if err != nil {
		return "", fmt.Errorf("synthesizer: template synthesis: %w", err)
	}

	if len(payload.Rows) == 0 && len(payload.SemanticHits) > 0 {
		reAskBody := struct {
			Question     string                  `json:"question"`
			FirstAnswer  string                  `json:"first_pass_answer"`
			SemanticHits []types.PublicationHit `json:"semantic_hits"`
		}{
			Question:     payload.Question,
			FirstAnswer:  answer,
			SemanticHits: sanitized.SemanticHits,
		}
		reAskJSON, err := json.Marshal(reAskBody)
		if err != nil {
			return "", fmt.Errorf("synthesizer: marshal re-ask payload: %w", err)
		}
		revised, err := s.llm.Chat(ctx, s.registry.Get(prompts.SemanticReAsk), string(reAskJSON), history, false)
		if err != nil {
			// The re-ask is a refinement, not a requirement: fall back to
			// the first-pass answer rather than failing the whole request.
			return answer, nil
		}
		return revised, nil
	}

	return answer, nil
}

// SemanticFallbackPayload is the sanitized input to the semantic-fallback
// synthesis prompt (spec §4.10).
type SemanticFallbackPayload struct {
	Question     string                  `json:"question"`
	SemanticHits []types.PublicationHit `json:"semantic_hits"`
	AuthorData   []types.Row             `json:"author_data"`
}

// SynthesizeSemanticFallback synthesizes the semantic-fallback-path answer.
func (s *Synthesizer) SynthesizeSemanticFallback(ctx context.Context, payload SemanticFallbackPayload, history []types.ChatMessage) (string, error) {
	sanitized := payload
	sanitized.SemanticHits = truncateHits(payload.SemanticHits)
	sanitized.AuthorData = truncateRows(payload.AuthorData)

	body, err := json.Marshal(sanitized)
	if err != nil {
		return "", fmt.Errorf("synthesizer: marshal semantic-fallback payload: %w", err)
	}

	answer, err := s.llm.Chat(ctx, s.registry.Get(prompts.SemanticFallbackAnswer), string(body), history, false)
	if err != nil {
		return "", fmt.Errorf("synthesizer: semantic-fallback synthesis: %w", err)
	}
	return answer, nil
}

// SynthesizeTitleTopicSummary summarizes publication titles into a short
// primary-topic phrase: the deep tier of AUTHOR_MAIN_RESEARCH_AREAS
// (original_source pattern 7), reached when the shallow tag/keyword tier
// finds nothing to report.
func (s *Synthesizer) SynthesizeTitleTopicSummary(ctx context.Context, titles []string, history []types.ChatMessage) (string, error) {
	capped := titles
	if len(capped) > maxListItems {
		capped = capped[:maxListItems]
	}
	out := make([]string, len(capped))
	for i, t := range capped {
		out[i] = truncateString(t)
	}

	summary, err := s.llm.Chat(ctx, s.registry.Get(prompts.TitleTopicSummary), strings.Join(out, "\n"), history, true)
	if err != nil {
		return "", fmt.Errorf("synthesizer: title topic summary: %w", err)
	}
	return summary, nil
}

// truncateRows applies the list-length cap and per-string truncation to a
// row set (spec §4.10's mandatory payload sanitization).
func truncateRows(rows []types.Row) []types.Row {
	if len(rows) > maxListItems {
		rows = rows[:maxListItems]
	}
	out := make([]types.Row, len(rows))
	for i, row := range rows {
		out[i] = truncateRow(row)
	}
	return out
}

func truncateRow(row types.Row) types.Row {
	out := make(types.Row, len(row))
	for k, v := range row {
		out[k] = truncateValue(v)
	}
	return out
}

func truncateValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return truncateString(val)
	case []interface{}:
		if len(val) > maxListItems {
			val = val[:maxListItems]
		}
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = truncateValue(item)
		}
		return out
	case types.Row:
		return truncateRow(val)
	default:
		return val
	}
}

func truncateString(s string) string {
	if len(s) <= maxStringLength {
		return s
	}
	return s[:maxStringLength] + truncationMark
}

// truncateHits applies the same list-length cap, and truncates title and
// abstract — "the primary bloat sources" per spec §4.10 — to the configured
// string length.
func truncateHits(hits []types.PublicationHit) []types.PublicationHit {
	if len(hits) > maxListItems {
		hits = hits[:maxListItems]
	}
	out := make([]types.PublicationHit, len(hits))
	for i, h := range hits {
		h.Title = truncateString(h.Title)
		h.Abstract = truncateString(h.Abstract)
		out[i] = h
	}
	return out
}
