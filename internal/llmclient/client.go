// Package llmclient implements the LLM Client (C2): single/multi-turn chat
// completions and embeddings over an OpenAI-compatible API, grounded on the
// teacher's internal/models/provider/openai.go adapter.
package llmclient

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/ualberta-rcg/research-qa/internal/logger"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

// ErrNoContent is raised when the provider returns a choice with no content
// (spec §4.2's "dedicated failure").
var ErrNoContent = errors.New("llmclient: provider returned no content")

// Client is a thread-safe, single logical LLM client (spec §5's shared
// resource policy): one API key, loaded once at startup.
type Client struct {
	sdk            *openai.Client
	chatModel      string
	embeddingModel string
}

// New constructs a Client. baseURL may be empty to use the default OpenAI
// endpoint, or set to target an OpenAI-compatible provider.
func New(apiKey, baseURL, chatModel, embeddingModel string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		sdk:            openai.NewClientWithConfig(cfg),
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
	}
}

// Chat completes a chat using up to the last ten history turns prepended
// after the system prompt (spec §4.2). deterministic=true sets temperature
// to 0, top-p to 1 and a fixed seed of 0 for callers needing reproducible
// output (intent classification, query generation); deterministic=false
// allows the provider's default sampling (answer synthesis prose).
func (c *Client) Chat(ctx context.Context, systemPrompt, userContent string,
	history []types.ChatMessage, deterministic bool,
) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	trimmed := history
	if len(trimmed) > types.MaxHistoryTurns {
		trimmed = trimmed[len(trimmed)-types.MaxHistoryTurns:]
	}
	for _, h := range trimmed {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(h.Role),
			Content: h.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userContent,
	})

	req := openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: messages,
	}
	if deterministic {
		req.Temperature = 0
		req.TopP = 1
		seed := 0
		req.Seed = &seed
	}

	resp, err := c.sdk.CreateChatCompletion(ctx, req)
	if err != nil {
		logger.Errorf(ctx, "llmclient: chat completion failed: %v", err)
		return "", fmt.Errorf("llmclient: chat: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrNoContent
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed returns text's embedding, or an empty vector for empty input
// (spec §4.2).
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return []float32{}, nil
	}

	resp, err := c.sdk.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		logger.Errorf(ctx, "llmclient: embedding request failed: %v", err)
		return nil, fmt.Errorf("llmclient: embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return []float32{}, nil
	}
	return resp.Data[0].Embedding, nil
}
