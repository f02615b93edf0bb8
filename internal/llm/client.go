// Package llm wraps the chat-completion API used to explain passages. The
// client receives the assembled context as untrusted prompt input; the
// spoiler boundary is enforced upstream by the assembler, never here.
package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_client.go -package=mocks github.com/Camekazi/ReadingCompanion/internal/llm ChatClient

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ChatClient defines the interface the explanation service depends on.
type ChatClient interface {
	// Chat sends a system and user message pair and returns the assistant's
	// reply.
	Chat(ctx context.Context, system, user string) (string, error)
}

// Client is a ChatClient backed by an OpenAI-compatible chat completions
// endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a chat client. An empty baseURL uses the OpenAI default;
// a custom one points at any compatible server (llama.cpp, vLLM, a proxy).
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Chat sends one completion request and returns the first choice.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
