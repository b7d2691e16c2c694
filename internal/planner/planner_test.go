package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ualberta-rcg/research-qa/internal/types"
)

func TestAfterClassification(t *testing.T) {
	cases := []struct {
		name             string
		intent           types.Intent
		selectedAuthorID string
		want             State
	}{
		{"author present, no selection", types.Intent{Kind: types.AuthorLatestPublication, Author: "Jane"}, "", Resolve},
		{"author present, direct selection supplied", types.Intent{Kind: types.AuthorLatestPublication, Author: "Jane"}, "u1", Promoted},
		{"no author slot", types.Intent{Kind: types.OpenQuestion}, "", Promoted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AfterClassification(tc.intent, tc.selectedAuthorID))
		})
	}
}

func TestAfterResolve(t *testing.T) {
	assert.Equal(t, ReturnCandidates, AfterResolve(OutcomeFuzzy))
	assert.Equal(t, Promoted, AfterResolve(OutcomeExact))
	assert.Equal(t, Promoted, AfterResolve(OutcomeNone))
}

func TestPromote_OpenQuestionWithResolvedAuthorBecomesDefaultTemplate(t *testing.T) {
	in := types.Intent{Kind: types.OpenQuestion}
	out := Promote(in, "u1", false)

	assert.Equal(t, types.AuthorPublicationsRange, out.Kind)
	assert.Equal(t, "u1", out.AuthorID)
}

func TestPromote_DirectSelectionPromotesToMainResearchAreas(t *testing.T) {
	in := types.Intent{Kind: types.OpenQuestion}
	out := Promote(in, "u1", true)

	assert.Equal(t, types.AuthorMainResearchAreas, out.Kind)
}

func TestPromote_NonOpenQuestionKeepsItsKind(t *testing.T) {
	in := types.Intent{Kind: types.AuthorTopVenue, Author: "Jane"}
	out := Promote(in, "u1", false)

	assert.Equal(t, types.AuthorTopVenue, out.Kind)
	assert.Equal(t, "u1", out.AuthorID)
}

func TestPromote_NoAuthorIDLeavesKindUnchanged(t *testing.T) {
	in := types.Intent{Kind: types.OpenQuestion}
	out := Promote(in, "", false)

	assert.Equal(t, types.OpenQuestion, out.Kind)
}

func TestRequiredSlotsPresent(t *testing.T) {
	cases := []struct {
		name   string
		intent types.Intent
		want   bool
	}{
		{"department trends with single dept", types.Intent{Kind: types.DepartmentTopicTrends, Department: "Physics"}, true},
		{"department trends with dept list", types.Intent{Kind: types.DepartmentTopicTrends, Departments: []string{"Physics"}}, true},
		{"department trends with no dept", types.Intent{Kind: types.DepartmentTopicTrends}, false},
		{"author pair with both", types.Intent{Kind: types.AuthorPairSharedPublications, AuthorID: "u1", SecondAuthor: "Bob"}, true},
		{"author pair missing second", types.Intent{Kind: types.AuthorPairSharedPublications, AuthorID: "u1"}, false},
		{"default author intent with id", types.Intent{Kind: types.AuthorTopVenue, AuthorID: "u1"}, true},
		{"default author intent without id", types.Intent{Kind: types.AuthorTopVenue}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RequiredSlotsPresent(tc.intent))
		})
	}
}

func TestRoute(t *testing.T) {
	assert.Equal(t, Template, Route(types.Intent{Kind: types.AuthorTopVenue, AuthorID: "u1"}))
	assert.Equal(t, SemanticFallback, Route(types.Intent{Kind: types.AuthorTopVenue}))
	assert.Equal(t, SemanticFallback, Route(types.Intent{Kind: types.OpenQuestion}))
}
