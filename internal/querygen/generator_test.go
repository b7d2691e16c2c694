package querygen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ualberta-rcg/research-qa/internal/prompts"
	"github.com/ualberta-rcg/research-qa/internal/testutil"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

func TestGenerate_StripsCodeFences(t *testing.T) {
	llm := testutil.NewFakeLLMClient()
	llm.ChatResponses = []string{"```cypher\nMATCH (r:Researcher) RETURN r\n```"}

	reg, err := prompts.NewRegistry()
	require.NoError(t, err)

	g := New(llm, reg)
	query, err := g.Generate(context.Background(), types.Intent{Kind: types.AuthorLatestPublication, AuthorID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, "MATCH (r:Researcher) RETURN r", query)
	require.Len(t, llm.ChatCalls, 1)
	assert.True(t, llm.ChatCalls[0].Deterministic)
}

func TestGenerateAuthorDiscoveryQuery(t *testing.T) {
	llm := testutil.NewFakeLLMClient()
	llm.ChatResponses = []string{"MATCH (p:Publication) WHERE p.title IN $titles RETURN p"}

	reg, err := prompts.NewRegistry()
	require.NoError(t, err)

	g := New(llm, reg)
	query, err := g.GenerateAuthorDiscoveryQuery(context.Background(), []string{"Title A", "Title B"})

	require.NoError(t, err)
	assert.Contains(t, query, "p.title IN $titles")
	assert.Contains(t, llm.ChatCalls[0].UserContent, "Title A")
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, "SELECT 1", StripCodeFences("```\nSELECT 1\n```"))
	assert.Equal(t, "SELECT 1", StripCodeFences("SELECT 1"))
}

func TestDescribeIntent_PrefersAuthorIDOverName(t *testing.T) {
	in := types.Intent{Kind: types.AuthorTopVenue, Author: "Jane", AuthorID: "u1"}
	desc := describeIntent(in)

	assert.Contains(t, desc, "author_id: u1")
	assert.NotContains(t, desc, "author (name")
}

func TestDescribeIntent_DepartmentList(t *testing.T) {
	in := types.Intent{Kind: types.DepartmentTopicTrends, Departments: []string{"Physics", "Chemistry"}}
	desc := describeIntent(in)

	assert.Contains(t, desc, "department (any of): Physics, Chemistry")
}

func TestResearchAreasQueries_AreFixedAndFilterByAuthorID(t *testing.T) {
	shallow := ResearchAreasShallowQuery()
	assert.Contains(t, shallow, "$authorId")
	assert.Contains(t, shallow, "STUDIES")
	assert.Contains(t, shallow, "WORKS_ON")

	deep := ResearchAreasDeepQuery()
	assert.Contains(t, deep, "$authorId")
	assert.Contains(t, deep, "PUBLISHED")

	assert.Equal(t, shallow, ResearchAreasShallowQuery(), "shallow query shape must not vary between calls")
	assert.Equal(t, deep, ResearchAreasDeepQuery(), "deep query shape must not vary between calls")
}
