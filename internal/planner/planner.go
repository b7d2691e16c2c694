// Package planner implements the Query Planner (C7) state machine: it
// decides, from an Intent plus resolution outcome, whether to ask the user
// to disambiguate, execute a structured template, or fall back to semantic
// retrieval (spec §4.7). The planner itself performs no I/O; the
// orchestrator drives the actual resolver/generator/retriever calls between
// state transitions.
package planner

import "github.com/ualberta-rcg/research-qa/internal/types"

// State is a planner state (spec §4.7's table).
type State string

const (
	Classified        State = "CLASSIFIED"
	Resolve           State = "RESOLVE"
	Promoted          State = "PROMOTED"
	Route             State = "ROUTE"
	Template          State = "TEMPLATE"
	SemanticFallback  State = "SEMANTIC_FALLBACK"
	ReturnCandidates  State = "RETURN_CANDIDATES"
)

// AfterClassification decides the next state once an intent has just been
// produced: RESOLVE if an author slot is present and no out-of-band
// selection was supplied, else PROMOTED (spec §4.7's CLASSIFIED row).
func AfterClassification(in types.Intent, selectedAuthorID string) State {
	if in.Author != "" && selectedAuthorID == "" {
		return Resolve
	}
	return Promoted
}

// ResolutionOutcome mirrors resolver.Result's path without importing the
// resolver package, keeping the planner dependency-free of I/O concerns.
type ResolutionOutcome string

const (
	OutcomeExact ResolutionOutcome = "EXACT"
	OutcomeFuzzy ResolutionOutcome = "FUZZY"
	OutcomeNone  ResolutionOutcome = "NONE"
)

// AfterResolve decides the next state once author resolution has run
// (spec §4.7's RESOLVE row).
func AfterResolve(outcome ResolutionOutcome) State {
	switch outcome {
	case OutcomeFuzzy:
		return ReturnCandidates
	default: // EXACT or NONE both promote; NONE leaves author_id unset.
		return Promoted
	}
}

// Promote rewrites an OPEN_QUESTION intent to a concrete author-bound intent
// once an author has been resolved (spec §4.7's PROMOTED row). directSelection
// is true when the HTTP layer supplied an explicit selected_user_id (the
// disambiguation-then-selection flow of spec §4.6), which promotes to
// AUTHOR_MAIN_RESEARCH_AREAS instead of the default AUTHOR_PUBLICATIONS_RANGE.
func Promote(in types.Intent, authorID string, directSelection bool) types.Intent {
	out := in
	out.AuthorID = authorID
	if out.Kind == types.OpenQuestion && authorID != "" {
		if directSelection {
			out.Kind = types.AuthorMainResearchAreas
		} else {
			out.Kind = types.AuthorPublicationsRange
		}
	}
	return out
}

// RequiredSlotsPresent implements the ROUTE row's required-slot predicate
// (spec §4.7): DEPARTMENT_TOPIC_TRENDS requires department;
// AUTHOR_PAIR_SHARED_PUBLICATIONS requires author_id and second_author; all
// other template intents require author_id.
func RequiredSlotsPresent(in types.Intent) bool {
	switch in.Kind {
	case types.DepartmentTopicTrends:
		return in.Department != "" || in.HasDepartmentList()
	case types.AuthorPairSharedPublications:
		return in.AuthorID != "" && in.SecondAuthor != ""
	default:
		return in.AuthorID != ""
	}
}

// Route decides TEMPLATE vs SEMANTIC_FALLBACK once an intent is fully
// resolved and normalized (spec §4.7's ROUTE row).
func Route(in types.Intent) State {
	if types.TemplateIntents[in.Kind] && RequiredSlotsPresent(in) {
		return Template
	}
	return SemanticFallback
}
