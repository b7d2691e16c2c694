package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_AllRequiredPromptsPresent(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	for _, name := range []Name{
		IntentClassification, QueryGeneration, AnswerSynthesis,
		SemanticFallbackAnswer, SemanticReAsk, AuthorDiscovery,
		NameExtraction, TitleTopicSummary,
	} {
		assert.NotEmpty(t, reg.Get(name))
	}
}

func TestRegistry_GetUnregisteredNamePanics(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	assert.Panics(t, func() {
		reg.Get(Name("not_a_real_prompt"))
	})
}
