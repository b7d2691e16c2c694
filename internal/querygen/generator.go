// Package querygen implements the Structured Query Generator (C8): it turns
// a fully-slotted Intent into a Cypher query string via the LLM, guided by
// the fixed schema/pattern catalog in the query-generation prompt rather than
// ad-hoc string templating (spec §4.8, design note in spec §9).
package querygen

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ualberta-rcg/research-qa/internal/prompts"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

// Generator produces graph queries from intents.
type Generator struct {
	llm      types.LLMClient
	registry *prompts.Registry
}

// New constructs a Generator.
func New(llm types.LLMClient, registry *prompts.Registry) *Generator {
	return &Generator{llm: llm, registry: registry}
}

// Generate produces a Cypher query for a fully-slotted intent. The LLM's job
// is to pick parameters against the fixed schema, not invent one; output is
// stripped of markdown fencing (spec §4.8).
func (g *Generator) Generate(ctx context.Context, in types.Intent) (string, error) {
	task := describeIntent(in)
	raw, err := g.llm.Chat(ctx, g.registry.Get(prompts.QueryGeneration), task, nil, true)
	if err != nil {
		return "", fmt.Errorf("querygen: generate: %w", err)
	}
	return StripCodeFences(raw), nil
}

// GenerateAuthorDiscoveryQuery produces the author-discovery query used by
// the semantic-fallback path (spec §4.9): given retrieved publication
// titles, enumerate the in-house authors of those works.
func (g *Generator) GenerateAuthorDiscoveryQuery(ctx context.Context, titles []string) (string, error) {
	task := "Publication titles to match (exact or close title match):\n" + strings.Join(titles, "\n")
	raw, err := g.llm.Chat(ctx, g.registry.Get(prompts.AuthorDiscovery), task, nil, true)
	if err != nil {
		return "", fmt.Errorf("querygen: author discovery: %w", err)
	}
	return StripCodeFences(raw), nil
}

// describeIntent renders an intent's slots into the task description handed
// to the LLM alongside the query-generation system prompt.
func describeIntent(in types.Intent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "intent_kind: %s\n", in.Kind)
	if in.AuthorID != "" {
		fmt.Fprintf(&b, "author_id: %s (filter by this stable id, not by name)\n", in.AuthorID)
	}
	if in.Author != "" && in.AuthorID == "" {
		fmt.Fprintf(&b, "author (name, no stable id resolved): %s\n", in.Author)
	}
	if in.SecondAuthorID != "" {
		fmt.Fprintf(&b, "second_author_id: %s\n", in.SecondAuthorID)
	}
	if in.SecondAuthor != "" {
		fmt.Fprintf(&b, "second_author (name): %s\n", in.SecondAuthor)
	}
	if in.Topic != "" {
		fmt.Fprintf(&b, "topic: %s\n", in.Topic)
	}
	if in.HasDepartmentList() {
		fmt.Fprintf(&b, "department (any of): %s\n", strings.Join(in.Departments, ", "))
	} else if in.Department != "" {
		fmt.Fprintf(&b, "department: %s\n", in.Department)
	}
	if in.StartYear != 0 {
		fmt.Fprintf(&b, "start_year: %s\n", strconv.Itoa(in.StartYear))
	}
	if in.EndYear != 0 {
		fmt.Fprintf(&b, "end_year: %s\n", strconv.Itoa(in.EndYear))
	}
	if in.Scope != "" {
		fmt.Fprintf(&b, "scope: %s\n", in.Scope)
	}
	return b.String()
}

// ResearchAreasShallowQuery is the shallow tier of AUTHOR_MAIN_RESEARCH_AREAS
// (original_source pattern 7): the STUDIES/WORKS_ON tag and keyword edges for
// the resolved author. Its shape never varies with the author, so it is
// built directly rather than round-tripped through the LLM.
func ResearchAreasShallowQuery() string {
	return `
MATCH (r:Researcher)
WHERE r.user_id = $authorId OR r.ccid = $authorId
OPTIONAL MATCH (r)-[:STUDIES]->(tag:Tag)
OPTIONAL MATCH (r)-[:WORKS_ON]->(keyword:Keyword)
RETURN tag.name AS tag, keyword.name AS keyword`
}

// ResearchAreasDeepQuery is the deep tier: every publication title for the
// resolved author, handed to the title-topic-summary prompt when the
// shallow tier finds no tags or keywords (original_source pattern 7).
func ResearchAreasDeepQuery() string {
	return `
MATCH (r:Researcher)
WHERE r.user_id = $authorId OR r.ccid = $authorId
MATCH (r)-[:PUBLISHED]->(p:Publication)
RETURN p.title AS title`
}

// StripCodeFences removes Markdown code fences so queries execute cleanly
// against the graph, grounded on original_source's strip_code_fences.
func StripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 2 {
			return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
		}
	}
	return s
}
