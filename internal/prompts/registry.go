// Package prompts implements the Prompt Registry (C3): a fixed set of named
// prompts loaded once at process initialization and held immutable
// thereafter (spec §4.3).
package prompts

import "fmt"

// Name is a symbolic prompt identifier.
type Name string

const (
	IntentClassification Name = "intent_classification"
	QueryGeneration       Name = "query_generation"
	AnswerSynthesis       Name = "answer_synthesis_template"
	SemanticFallbackAnswer Name = "answer_synthesis_semantic_fallback"
	SemanticReAsk         Name = "semantic_re_ask"
	AuthorDiscovery       Name = "author_discovery_from_titles"
	NameExtraction        Name = "name_extraction"
	TitleTopicSummary     Name = "title_topic_summary"
)

// Registry holds immutable prompt templates by symbolic name.
type Registry struct {
	prompts map[Name]string
}

// NewRegistry loads the fixed prompt catalog. A missing prompt at this stage
// is a startup fatal (spec §4.3) — callers should treat a non-nil error as
// fatal and exit non-zero.
func NewRegistry() (*Registry, error) {
	r := &Registry{prompts: defaultCatalog()}
	for _, required := range []Name{
		IntentClassification, QueryGeneration, AnswerSynthesis,
		SemanticFallbackAnswer, SemanticReAsk, AuthorDiscovery,
		NameExtraction, TitleTopicSummary,
	} {
		if _, ok := r.prompts[required]; !ok {
			return nil, fmt.Errorf("prompts: missing required prompt %q", required)
		}
	}
	return r, nil
}

// Get returns the prompt registered under name. Callers only ever reach this
// after NewRegistry has validated completeness, so a missing name here
// indicates a programming error and panics rather than propagating silently.
func (r *Registry) Get(name Name) string {
	p, ok := r.prompts[name]
	if !ok {
		panic(fmt.Sprintf("prompts: unregistered prompt %q", name))
	}
	return p
}
