package providers

import (
	"context"
	"fmt"
)

// Request contains the data sent to an LLM for analysis.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Response contains the raw response from an LLM.
type Response struct {
	Content    string
	TokensUsed int
}

// Client is the provider abstraction interface.
type Client interface {
	Analyze(ctx context.Context, req Request) (Response, error)
	Name() string
	Model() string
}

// New creates a provider by name.
func New(provider, model string) (Client, error) {
	switch provider {
	case "gemini", "google":
		return NewGemini(model)
	case "anthropic":
		return NewAnthropic(model)
	case "ollama", "lmstudio":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
