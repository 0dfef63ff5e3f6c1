package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// NewProviderClient creates the client for the named provider.
func NewProviderClient(provider string, cfg *Config, logger *zap.Logger) (Generator, error) {
	switch provider {
	case ProviderOpenAI:
		client, err := NewClient(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		return client, nil
	case ProviderAnthropic:
		client, err := NewAnthropicClient(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("create anthropic client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}
