package mockclient

import (
	"context"
	"fmt"
	"strings"

	"askgpt/internal/llm"
	"askgpt/internal/session"
)

// Client is a deterministic llm.Client used for tests.
type Client struct {
	prefix string

	// Err, when set, is returned from every Chat call.
	Err error
	// Calls records each request for assertions.
	Calls []llm.ChatRequest
}

// New returns a mock client that echoes the last user message.
func New() *Client {
	return &Client{prefix: "MOCK"}
}

// NewWithError returns a mock client whose Chat call always fails.
func NewWithError(err error) *Client {
	return &Client{prefix: "MOCK", Err: err}
}

// Chat satisfies the llm.Client interface.
func (c *Client) Chat(_ context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	c.Calls = append(c.Calls, req)
	if c.Err != nil {
		return llm.ChatResponse{}, c.Err
	}

	response := session.Message{Role: "assistant"}
	if n := len(req.Messages); n > 0 {
		last := strings.TrimSpace(req.Messages[n-1].Content)
		if last == "" {
			response.Content = fmt.Sprintf("%s RESPONSE", c.prefix)
		} else {
			response.Content = fmt.Sprintf("%s RESPONSE: %s", c.prefix, last)
		}
	} else {
		response.Content = fmt.Sprintf("%s RESPONSE", c.prefix)
	}

	return llm.ChatResponse{
		Choices: []llm.ChatChoice{
			{
				Index:        0,
				Message:      response,
				FinishReason: "stop",
			},
		},
		Usage: &llm.Usage{
			PromptTokens:     42,
			CompletionTokens: 7,
			TotalTokens:      49,
		},
	}, nil
}
