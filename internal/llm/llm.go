package llm

import (
	"context"

	"askgpt/internal/session"
)

// ChatRequest is the provider-agnostic payload for a chat completion.
type ChatRequest struct {
	Model    string            `json:"model"`
	Messages []session.Message `json:"messages"`
}

// ChatChoice captures one response alternative from a completion API.
type ChatChoice struct {
	Index        int             `json:"index"`
	Message      session.Message `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// Usage contains token consumption metrics reported by the API.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the shared representation of provider responses.
type ChatResponse struct {
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

// Client represents a provider capable of servicing chat completions.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}
