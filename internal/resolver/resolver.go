// Package resolver implements the Author Resolver (C6): exact-then-fuzzy
// name resolution to a stable internal researcher identifier, with
// candidate-list semantics for disambiguation (spec §4.6).
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/ualberta-rcg/research-qa/internal/logger"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

// Resolver resolves an author name slot to a stable internal identifier.
type Resolver struct {
	graph             types.GraphClient
	fulltextIndexName string
	candidateLimit    int
}

// New constructs a Resolver.
func New(graph types.GraphClient, fulltextIndexName string, candidateLimit int) *Resolver {
	if candidateLimit <= 0 {
		candidateLimit = 5
	}
	return &Resolver{graph: graph, fulltextIndexName: fulltextIndexName, candidateLimit: candidateLimit}
}

// Result is the outcome of a Resolve call (spec §4.6).
type Result struct {
	Path       types.ResolutionPath
	AuthorID   string
	Candidates []types.Candidate
	Scores     []float64
}

// Resolve runs the exact -> fuzzy algorithm for a non-empty author name
// (spec §4.6). The resolver never auto-selects from fuzzy results; the
// caller is responsible for presenting Candidates for disambiguation.
func (r *Resolver) Resolve(ctx context.Context, author string) (Result, error) {
	name := strings.TrimSpace(author)
	if name == "" {
		return Result{Path: types.ResolutionNone}, nil
	}

	if id, ok, err := r.exact(ctx, name); err != nil {
		return Result{}, err
	} else if ok {
		return Result{Path: types.ResolutionExact, AuthorID: id}, nil
	}

	candidates, scores, err := r.fuzzy(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if len(candidates) == 0 {
		return Result{Path: types.ResolutionNone}, nil
	}
	return Result{Path: types.ResolutionFuzzy, Candidates: candidates, Scores: scores}, nil
}

// exact looks up researchers where canonical name or normalized name equals
// the input case-insensitively, restricted to the in-house cohort. A single
// match returns EXACT; zero or multiple matches fall through to fuzzy
// (spec §8's boundary: identical normalized names among multiple in-house
// researchers resolve via the fuzzy path, not an arbitrary exact pick).
func (r *Resolver) exact(ctx context.Context, name string) (string, bool, error) {
	query := `
MATCH (r:Researcher)
WHERE (r.user_id IS NOT NULL OR r.ccid IS NOT NULL)
  AND (toLower(r.name) = toLower($name) OR toLower(r.normalized_name) = toLower($name))
RETURN coalesce(r.user_id, r.ccid) AS author_id`

	rows, err := r.graph.Execute(ctx, query, map[string]interface{}{"name": name})
	if err != nil {
		return "", false, fmt.Errorf("resolver: exact lookup: %w", err)
	}
	if len(rows) != 1 {
		return "", false, nil
	}
	id, _ := rows[0]["author_id"].(string)
	if id == "" {
		return "", false, nil
	}
	return id, true, nil
}

// fuzzy appends a fuzziness marker to each whitespace-separated token of the
// input, queries the fulltext name index restricted to the in-house cohort,
// and returns up to candidateLimit highest-scoring candidates enriched with
// departments (spec §4.6). Candidates are ordered by descending score; ties
// are broken by a client-side Jaro-Winkler re-score against the raw input so
// ordering stays stable within a request even when the index reports equal
// relevance scores.
func (r *Resolver) fuzzy(ctx context.Context, name string) ([]types.Candidate, []float64, error) {
	expr := fuzzyExpression(name)

	rows, err := r.graph.FulltextSearch(ctx, r.fulltextIndexName, expr)
	if err != nil {
		return nil, nil, fmt.Errorf("resolver: fuzzy lookup: %w", err)
	}

	type scored struct {
		cand        types.Candidate
		indexScore  float64
		jaroScore   float64
	}
	results := make([]scored, 0, len(rows))
	for _, row := range rows {
		cand := types.Candidate{
			UserID:         asString(row["user_id"]),
			CCID:           asString(row["ccid"]),
			Name:           asString(row["name"]),
			NormalizedName: asString(row["normalized_name"]),
			Score:          asFloat(row["score"]),
		}
		if !cand.HasStableID() {
			continue
		}
		results = append(results, scored{
			cand:       cand,
			indexScore: cand.Score,
			jaroScore:  matchr.JaroWinkler(strings.ToLower(name), strings.ToLower(cand.NormalizedName), true),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].indexScore != results[j].indexScore {
			return results[i].indexScore > results[j].indexScore
		}
		return results[i].jaroScore > results[j].jaroScore
	})

	if len(results) > r.candidateLimit {
		results = results[:r.candidateLimit]
	}

	candidates := make([]types.Candidate, 0, len(results))
	scores := make([]float64, 0, len(results))
	for _, res := range results {
		departments, err := r.departmentsFor(ctx, res.cand)
		if err != nil {
			logger.Warnf(ctx, "resolver: failed to enrich departments for %q: %v", res.cand.Name, err)
		} else {
			res.cand.Departments = departments
		}
		candidates = append(candidates, res.cand)
		scores = append(scores, res.jaroScore)
	}
	return candidates, scores, nil
}

// departmentsFor enriches a fuzzy candidate with its department names.
func (r *Resolver) departmentsFor(ctx context.Context, cand types.Candidate) ([]string, error) {
	query := `
MATCH (r:Researcher)
WHERE r.user_id = $id OR r.ccid = $id
MATCH (r)-[:BELONGS_TO]->(d:Department)
RETURN d.department AS department`

	id := cand.UserID
	if id == "" {
		id = cand.CCID
	}
	rows, err := r.graph.Execute(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	depts := make([]string, 0, len(rows))
	for _, row := range rows {
		if d := asString(row["department"]); d != "" {
			depts = append(depts, d)
		}
	}
	return depts, nil
}

// fuzzyExpression transforms a name into a Lucene-style fuzzy query string
// by appending a fuzziness marker to each whitespace-separated token
// (spec §4.6, "Fuzzy expression" in the glossary).
func fuzzyExpression(name string) string {
	tokens := strings.Fields(name)
	for i, tok := range tokens {
		tokens[i] = tok + "~"
	}
	return strings.Join(tokens, " ")
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
