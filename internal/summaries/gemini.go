package summaries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	// DefaultGeminiModel is used when the gemini provider is selected without a model.
	DefaultGeminiModel = "gemini-2.0-flash"

	geminiClientErrorTemplate   = "create gemini client: %w"
	geminiGenerateErrorTemplate = "gemini generate content: %w"
)

// GeminiClientOptions configure the Gemini client.
type GeminiClientOptions struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// GeminiClient answers chat requests through the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient constructs a Gemini API client.
func NewGeminiClient(executionContext context.Context, options GeminiClientOptions) (*GeminiClient, error) {
	clientConfiguration := &genai.ClientConfig{
		APIKey:  options.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL := strings.TrimSpace(options.BaseURL); len(baseURL) > 0 {
		clientConfiguration.HTTPOptions.BaseURL = baseURL
	}
	if options.Timeout > 0 {
		timeout := options.Timeout
		clientConfiguration.HTTPOptions.Timeout = &timeout
	}

	client, clientError := genai.NewClient(executionContext, clientConfiguration)
	if clientError != nil {
		return nil, fmt.Errorf(geminiClientErrorTemplate, clientError)
	}
	return &GeminiClient{client: client}, nil
}

// Complete sends the user message with the system message as the system instruction.
func (geminiClient *GeminiClient) Complete(executionContext context.Context, request ChatRequest) (string, error) {
	generateConfiguration := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(request.SystemMessage, genai.RoleUser),
	}
	response, generateError := geminiClient.client.Models.GenerateContent(
		executionContext,
		request.Model,
		genai.Text(request.UserMessage),
		generateConfiguration,
	)
	if generateError != nil {
		return "", fmt.Errorf(geminiGenerateErrorTemplate, generateError)
	}
	text := response.Text()
	if len(text) == 0 {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
