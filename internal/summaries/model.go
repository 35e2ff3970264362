package summaries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ProviderOpenAI selects an OpenAI-compatible chat completions endpoint.
	ProviderOpenAI = "openai"
	// ProviderGemini selects the Google Gemini API.
	ProviderGemini = "gemini"

	unsupportedProviderTemplateConstant = "unsupported summary provider %q"
	emptyCompletionMessageConstant      = "model returned no completion"
)

// ErrEmptyCompletion indicates a model response without any message content.
var ErrEmptyCompletion = errors.New(emptyCompletionMessageConstant)

// ChatRequest is a single-turn chat completion request.
type ChatRequest struct {
	Model         string
	SystemMessage string
	UserMessage   string
}

// Model answers single-turn chat requests.
type Model interface {
	Complete(executionContext context.Context, request ChatRequest) (string, error)
}

// ModelSettings select and authenticate a provider.
type ModelSettings struct {
	Provider string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// NewModel builds the client for the configured provider.
func NewModel(executionContext context.Context, settings ModelSettings) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(settings.Provider)) {
	case ProviderOpenAI:
		return NewOpenAIClient(OpenAIClientOptions{APIKey: settings.APIKey, BaseURL: settings.BaseURL, Timeout: settings.Timeout}), nil
	case ProviderGemini:
		return NewGeminiClient(executionContext, GeminiClientOptions{APIKey: settings.APIKey, BaseURL: settings.BaseURL, Timeout: settings.Timeout})
	default:
		return nil, fmt.Errorf(unsupportedProviderTemplateConstant, settings.Provider)
	}
}
