// Package intent implements the Intent Classifier (C4) and Intent Normalizer
// (C5): mapping a free-form question to a tagged Intent, then expanding
// umbrella slot values.
package intent

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ualberta-rcg/research-qa/internal/logger"
	"github.com/ualberta-rcg/research-qa/internal/prompts"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

// Classifier maps a question to a tagged Intent (spec §4.4).
type Classifier struct {
	llm       types.LLMClient
	registry  *prompts.Registry
}

// NewClassifier constructs a Classifier.
func NewClassifier(llm types.LLMClient, registry *prompts.Registry) *Classifier {
	return &Classifier{llm: llm, registry: registry}
}

// rawIntent is the wire shape the LLM is instructed to emit; numeric slots
// are pointers so "absent" and "zero" are distinguishable.
type rawIntent struct {
	IntentKind   string  `json:"intent_kind"`
	Author       *string `json:"author"`
	SecondAuthor *string `json:"second_author"`
	Topic        *string `json:"topic"`
	Department   *string `json:"department"`
	StartYear    *int    `json:"start_year"`
	EndYear      *int    `json:"end_year"`
	Scope        *string `json:"scope"`
}

// Classify asks the LLM to classify question and returns a fully-populated
// Intent (nulls allowed). A malformed LLM response never raises: it falls
// back to OPEN_QUESTION with all slots null (spec §4.4).
func (c *Classifier) Classify(ctx context.Context, question string, history []types.ChatMessage) types.Intent {
	raw, err := c.llm.Chat(ctx, c.registry.Get(prompts.IntentClassification), question, history, true)
	if err != nil {
		logger.Warnf(ctx, "intent: classification call failed, falling back to OPEN_QUESTION: %v", err)
		return types.Intent{Kind: types.OpenQuestion}
	}

	parsed, ok := parseRawIntent(raw)
	if !ok {
		logger.Warnf(ctx, "intent: malformed classifier output, falling back to OPEN_QUESTION: %q", raw)
		return types.Intent{Kind: types.OpenQuestion}
	}

	// An author slot with no name-like tokens isn't a plausible person
	// reference (e.g. the LLM echoed a department or topic phrase into it);
	// treat it as absent so the planner never attempts resolution against it.
	if parsed.Author != "" && len(ExtractNameTokens(parsed.Author)) == 0 {
		logger.Warnf(ctx, "intent: author slot %q has no name-like tokens, clearing", parsed.Author)
		parsed.Author = ""
	}
	return parsed
}

var jsonObjectRE = regexp.MustCompile(`(?s)\{.*\}`)

func parseRawIntent(text string) (types.Intent, bool) {
	match := jsonObjectRE.FindString(strings.TrimSpace(stripCodeFences(text)))
	if match == "" {
		return types.Intent{}, false
	}

	var raw rawIntent
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return types.Intent{}, false
	}

	kind := types.IntentKind(strings.ToUpper(strings.TrimSpace(raw.IntentKind)))
	if !knownIntentKinds[kind] {
		return types.Intent{}, false
	}

	out := types.Intent{Kind: kind}
	if raw.Author != nil {
		out.Author = strings.TrimSpace(*raw.Author)
	}
	if raw.SecondAuthor != nil {
		out.SecondAuthor = strings.TrimSpace(*raw.SecondAuthor)
	}
	if raw.Topic != nil {
		out.Topic = strings.TrimSpace(*raw.Topic)
	}
	if raw.Department != nil {
		out.Department = strings.TrimSpace(*raw.Department)
	}
	if raw.StartYear != nil {
		out.StartYear = *raw.StartYear
	}
	if raw.EndYear != nil {
		out.EndYear = *raw.EndYear
	}
	if raw.Scope != nil {
		out.Scope = strings.TrimSpace(*raw.Scope)
	}
	return out, true
}

var knownIntentKinds = map[types.IntentKind]bool{
	types.AuthorPublicationsRange:      true,
	types.AuthorLatestPublication:      true,
	types.AuthorTopVenue:               true,
	types.AuthorPairSharedPublications: true,
	types.AuthorTopCoauthors:           true,
	types.AuthorTopicPublicationCount:  true,
	types.AuthorTopicExtent:            true,
	types.AuthorMainResearchAreas:      true,
	types.AuthorTopicSynergy:           true,
	types.AuthorInstitutionCollabFreq:  true,
	types.AuthorTopicPeersAtUOfA:       true,
	types.DepartmentTopicTrends:        true,
	types.OpenQuestion:                 true,
}

func stripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 2 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}
	return text
}

// nameTokenRE matches name-like tokens: a letter followed by letters,
// hyphens, or apostrophes, length >= 3 — grounded on original_source's
// _find_name_candidates token extraction.
var nameTokenRE = regexp.MustCompile(`[a-zA-Z][a-zA-Z\-']{2,}`)

// ExtractNameTokens pulls whitespace/hyphen-safe name-like tokens out of
// free text, lower-cased and de-duplicated while preserving order of first
// appearance. Used to decide whether an author slot is plausible at all
// before a resolver call is attempted (spec §8: "question with no name
// tokens -> semantic-fallback path; no resolver call").
func ExtractNameTokens(text string) []string {
	seen := map[string]bool{}
	var tokens []string
	for _, m := range nameTokenRE.FindAllString(strings.ToLower(text), -1) {
		if !seen[m] {
			seen[m] = true
			tokens = append(tokens, m)
		}
	}
	return tokens
}
