// Package testutil provides hand-rolled fakes for the two narrow interfaces
// the pipeline depends on (types.GraphClient, types.LLMClient), used across
// package test suites instead of a mocking framework.
package testutil

import (
	"context"
	"fmt"

	"github.com/ualberta-rcg/research-qa/internal/types"
)

// FakeGraphClient answers Execute/VectorSearch/FulltextSearch from
// pre-programmed tables keyed by query/index name, recording every call it
// receives for assertions.
type FakeGraphClient struct {
	ExecuteResults            map[string][]types.Row
	ExecuteErr                error
	VectorSearchResults       map[string][]types.Row
	VectorSearchErr           error
	CohortVectorSearchResults map[string][]types.Row
	CohortVectorSearchErr     error
	FulltextResults           map[string][]types.Row
	FulltextErr               error

	ExecuteCalls            []ExecuteCall
	VectorSearchCalls       []VectorSearchCall
	CohortVectorSearchCalls []VectorSearchCall
	FulltextCalls           []FulltextCall
}

type ExecuteCall struct {
	Query  string
	Params map[string]interface{}
}

type VectorSearchCall struct {
	IndexName string
	K         int
	Embedding []float32
}

type FulltextCall struct {
	IndexName      string
	TermExpression string
}

func NewFakeGraphClient() *FakeGraphClient {
	return &FakeGraphClient{
		ExecuteResults:            map[string][]types.Row{},
		VectorSearchResults:       map[string][]types.Row{},
		CohortVectorSearchResults: map[string][]types.Row{},
		FulltextResults:           map[string][]types.Row{},
	}
}

// Execute returns ExecuteResults["default"] unless a query-specific entry is
// registered; tests that don't care about exact query text can ignore the key.
func (f *FakeGraphClient) Execute(ctx context.Context, query string, params map[string]interface{}) ([]types.Row, error) {
	f.ExecuteCalls = append(f.ExecuteCalls, ExecuteCall{Query: query, Params: params})
	if f.ExecuteErr != nil {
		return nil, f.ExecuteErr
	}
	if rows, ok := f.ExecuteResults[query]; ok {
		return rows, nil
	}
	return f.ExecuteResults["default"], nil
}

func (f *FakeGraphClient) VectorSearch(ctx context.Context, indexName string, k int, embedding []float32) ([]types.Row, error) {
	f.VectorSearchCalls = append(f.VectorSearchCalls, VectorSearchCall{IndexName: indexName, K: k, Embedding: embedding})
	if f.VectorSearchErr != nil {
		return nil, f.VectorSearchErr
	}
	return f.VectorSearchResults[indexName], nil
}

func (f *FakeGraphClient) CohortVectorSearch(ctx context.Context, indexName string, k int, embedding []float32) ([]types.Row, error) {
	f.CohortVectorSearchCalls = append(f.CohortVectorSearchCalls, VectorSearchCall{IndexName: indexName, K: k, Embedding: embedding})
	if f.CohortVectorSearchErr != nil {
		return nil, f.CohortVectorSearchErr
	}
	return f.CohortVectorSearchResults[indexName], nil
}

func (f *FakeGraphClient) FulltextSearch(ctx context.Context, indexName string, termExpression string) ([]types.Row, error) {
	f.FulltextCalls = append(f.FulltextCalls, FulltextCall{IndexName: indexName, TermExpression: termExpression})
	if f.FulltextErr != nil {
		return nil, f.FulltextErr
	}
	return f.FulltextResults[indexName], nil
}

// FakeLLMClient returns scripted chat responses in call order (falling back
// to DefaultChatResponse once exhausted) and a fixed embedding vector.
type FakeLLMClient struct {
	ChatResponses      []string
	DefaultChatResponse string
	ChatErr            error
	Embedding          []float32
	EmbedErr           error

	ChatCalls  []ChatCall
	EmbedCalls []string
	chatIndex  int
}

type ChatCall struct {
	SystemPrompt  string
	UserContent   string
	History       []types.ChatMessage
	Deterministic bool
}

func NewFakeLLMClient() *FakeLLMClient {
	return &FakeLLMClient{Embedding: []float32{0.1, 0.2, 0.3}}
}

func (f *FakeLLMClient) Chat(ctx context.Context, systemPrompt, userContent string, history []types.ChatMessage, deterministic bool) (string, error) {
	f.ChatCalls = append(f.ChatCalls, ChatCall{
		SystemPrompt:  systemPrompt,
		UserContent:   userContent,
		History:       history,
		Deterministic: deterministic,
	})
	if f.ChatErr != nil {
		return "", f.ChatErr
	}
	if f.chatIndex < len(f.ChatResponses) {
		resp := f.ChatResponses[f.chatIndex]
		f.chatIndex++
		return resp, nil
	}
	if f.DefaultChatResponse != "" {
		return f.DefaultChatResponse, nil
	}
	return "", fmt.Errorf("testutil: FakeLLMClient has no scripted response left")
}

func (f *FakeLLMClient) Embed(ctx context.Context, text string) ([]float32, error) {
	f.EmbedCalls = append(f.EmbedCalls, text)
	if f.EmbedErr != nil {
		return nil, f.EmbedErr
	}
	if text == "" {
		return []float32{}, nil
	}
	return f.Embedding, nil
}

var (
	_ types.GraphClient = (*FakeGraphClient)(nil)
	_ types.LLMClient   = (*FakeLLMClient)(nil)
)
