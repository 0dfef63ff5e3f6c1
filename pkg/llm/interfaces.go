// Package llm provides clients for generative text services.
package llm

import (
	"context"
	"encoding/json"
)

// Provider names recorded on every Generation.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// GenerationRequest is one system + user message exchange.
type GenerationRequest struct {
	SystemMessage string
	Prompt        string
	Temperature   float64
	MaxTokens     int
}

// Generation is the outcome of a successful request.
type Generation struct {
	// Content is the text of the first completion.
	Content string
	// RawResponse is the provider's full response, serialized as JSON.
	RawResponse json.RawMessage

	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// Generator produces text from a GenerationRequest.
// Use this interface for dependency injection to enable mocking in tests.
type Generator interface {
	Generate(ctx context.Context, req *GenerationRequest) (*Generation, error)
}

var (
	_ Generator = (*Client)(nil)
	_ Generator = (*AnthropicClient)(nil)
	_ Generator = (*GuardedGenerator)(nil)
	_ Generator = (*MockGenerator)(nil)
)
