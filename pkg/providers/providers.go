package providers

import (
	"context"
	"fmt"
	"strings"
)

const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash-exp"
)

// Client completes a single-turn prompt
type Client interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

type ProviderParams struct {
	BaseURL string
	APIKey  string
}

type ProviderOption func(*ProviderParams)

func WithBaseURL(baseURL string) ProviderOption {
	return func(p *ProviderParams) {
		p.BaseURL = baseURL
	}
}

func WithAPIKey(apiKey string) ProviderOption {
	return func(p *ProviderParams) {
		p.APIKey = apiKey
	}
}

// New builds the named provider: "openai" or "gemini"
func New(ctx context.Context, name string, opts ...ProviderOption) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "openai":
		return OpenAi(ctx, opts...), nil
	case "gemini", "google":
		params := ProviderParams{}
		for _, opt := range opts {
			opt(&params)
		}
		return Gemini(ctx, params)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

// DefaultModel returns the model used when none is configured
func DefaultModel(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gemini", "google":
		return DefaultGeminiModel
	default:
		return DefaultOpenAIModel
	}
}
