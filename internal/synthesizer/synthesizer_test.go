package synthesizer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ualberta-rcg/research-qa/internal/prompts"
	"github.com/ualberta-rcg/research-qa/internal/testutil"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

func newRegistry(t *testing.T) *prompts.Registry {
	t.Helper()
	reg, err := prompts.NewRegistry()
	require.NoError(t, err)
	return reg
}

func TestSynthesizeTemplate_RowsPresentSkipsReAsk(t *testing.T) {
	llm := testutil.NewFakeLLMClient()
	llm.ChatResponses = []string{"Jane published 3 papers."}

	s := New(llm, newRegistry(t))
	answer, err := s.SynthesizeTemplate(context.Background(), TemplatePayload{
		Question: "How many papers did Jane publish?",
		Rows:     []types.Row{{"title": "Paper A"}},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Jane published 3 papers.", answer)
	assert.Len(t, llm.ChatCalls, 1)
}

func TestSynthesizeTemplate_EmptyRowsWithHitsTriggersReAsk(t *testing.T) {
	llm := testutil.NewFakeLLMClient()
	llm.ChatResponses = []string{"first pass answer", "revised answer using related work"}

	s := New(llm, newRegistry(t))
	answer, err := s.SynthesizeTemplate(context.Background(), TemplatePayload{
		Question:     "What has Jane published on quantum computing?",
		Rows:         nil,
		SemanticHits: []types.PublicationHit{{Title: "Related Paper"}},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "revised answer using related work", answer)
	assert.Len(t, llm.ChatCalls, 2)
}

func TestSynthesizeTemplate_ReAskFailureFallsBackToFirstPass(t *testing.T) {
	llm := testutil.NewFakeLLMClient()
	llm.ChatResponses = []string{"first pass answer"}

	s := New(llm, newRegistry(t))
	answer, err := s.SynthesizeTemplate(context.Background(), TemplatePayload{
		Question:     "question",
		SemanticHits: []types.PublicationHit{{Title: "Related"}},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "first pass answer", answer)
}

func TestSynthesizeSemanticFallback(t *testing.T) {
	llm := testutil.NewFakeLLMClient()
	llm.ChatResponses = []string{"Here are some related publications."}

	s := New(llm, newRegistry(t))
	answer, err := s.SynthesizeSemanticFallback(context.Background(), SemanticFallbackPayload{
		Question:     "question",
		SemanticHits: []types.PublicationHit{{Title: "Paper"}},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Here are some related publications.", answer)
}

func TestSynthesizeTitleTopicSummary_JoinsTitlesAndIsDeterministic(t *testing.T) {
	llm := testutil.NewFakeLLMClient()
	llm.ChatResponses = []string{"smart grids and machine learning"}

	s := New(llm, newRegistry(t))
	titles := []string{"Deep Learning for Smart Grids", "Reinforcement Learning in Power Systems"}
	summary, err := s.SynthesizeTitleTopicSummary(context.Background(), titles, nil)

	require.NoError(t, err)
	assert.Equal(t, "smart grids and machine learning", summary)
	require.Len(t, llm.ChatCalls, 1)
	assert.True(t, llm.ChatCalls[0].Deterministic)
	assert.Equal(t, "Deep Learning for Smart Grids\nReinforcement Learning in Power Systems", llm.ChatCalls[0].UserContent)
}

func TestSynthesizeTitleTopicSummary_DoesNotMutateCallerSlice(t *testing.T) {
	llm := testutil.NewFakeLLMClient()
	llm.ChatResponses = []string{"summary"}

	s := New(llm, newRegistry(t))
	titles := []string{strings.Repeat("x", maxStringLength+50)}
	original := titles[0]

	_, err := s.SynthesizeTitleTopicSummary(context.Background(), titles, nil)

	require.NoError(t, err)
	assert.Equal(t, original, titles[0], "caller's slice must not be mutated by truncation")
}

func TestTruncateRows_CapsListLengthAndStringLength(t *testing.T) {
	rows := make([]types.Row, 20)
	longString := strings.Repeat("x", 1000)
	for i := range rows {
		rows[i] = types.Row{"title": longString}
	}

	out := truncateRows(rows)

	assert.Len(t, out, maxListItems)
	assert.True(t, strings.HasSuffix(out[0]["title"].(string), truncationMark))
	assert.LessOrEqual(t, len(out[0]["title"].(string)), maxStringLength+len(truncationMark))
}

func TestTruncateHits_TruncatesTitleAndAbstract(t *testing.T) {
	hits := []types.PublicationHit{
		{Title: strings.Repeat("a", 1000), Abstract: strings.Repeat("b", 1000)},
	}
	out := truncateHits(hits)

	assert.True(t, strings.HasSuffix(out[0].Title, truncationMark))
	assert.True(t, strings.HasSuffix(out[0].Abstract, truncationMark))
}

func TestTruncateValue_NestedList(t *testing.T) {
	nested := make([]interface{}, 20)
	for i := range nested {
		nested[i] = "x"
	}
	row := types.Row{"items": nested}

	out := truncateRow(row)
	assert.Len(t, out["items"].([]interface{}), maxListItems)
}
