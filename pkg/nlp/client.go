// Package nlp provides generation clients for hosted language models.
// The answer pipeline treats them as a black-box text-completion
// service: one prompt in, one text out, no retry and no fallback.
package nlp

import (
	"context"
	"fmt"

	"github.com/sitesage/sitesage/pkg/types"
)

// Client is the interface for language model generation.
type Client interface {
	// Chat sends a chat completion request and returns the response.
	Chat(ctx context.Context, messages []types.Message) (*types.Response, error)

	// Close cleans up any resources.
	Close() error
}

// Config holds configuration for generation clients.
type Config struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int
}

// New builds a generation client for the named provider.
func New(provider string, config Config) (Client, error) {
	switch provider {
	case "", "gemini":
		return NewGeminiClient(config), nil
	case "openai":
		return NewOpenAIClient(config)
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", provider)
	}
}
