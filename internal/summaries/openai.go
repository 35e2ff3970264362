package summaries

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultOpenAIBaseURL is the public OpenAI API root.
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	chatCompletionsPathConstant       = "/chat/completions"
	systemRoleConstant                = "system"
	userRoleConstant                  = "user"
	defaultRequestTimeoutConstant     = 60 * time.Second
	completionRequestErrorTemplate    = "chat completion request failed: %w"
	completionStatusErrorTemplate     = "chat completion returned %s: %s"
	completionStatusOnlyErrorTemplate = "chat completion returned %s"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatCompletionError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIClientOptions configure the OpenAI-compatible client.
type OpenAIClientOptions struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client *resty.Client
}

// NewOpenAIClient constructs a client authenticated with a bearer API key.
func NewOpenAIClient(options OpenAIClientOptions) *OpenAIClient {
	client := resty.New()
	if options.HTTPClient != nil {
		client = resty.NewWithClient(options.HTTPClient)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(options.BaseURL), "/")
	if len(baseURL) == 0 {
		baseURL = DefaultOpenAIBaseURL
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeoutConstant
	}

	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetAuthToken(options.APIKey)
	client.SetHeader("Content-Type", "application/json")

	return &OpenAIClient{client: client}
}

// Complete sends one system and one user message and returns the first choice.
func (openAIClient *OpenAIClient) Complete(executionContext context.Context, request ChatRequest) (string, error) {
	var completion chatCompletionResponse
	var failure chatCompletionError

	response, requestError := openAIClient.client.R().
		SetContext(executionContext).
		SetBody(chatCompletionRequest{
			Model: request.Model,
			Messages: []chatMessage{
				{Role: systemRoleConstant, Content: request.SystemMessage},
				{Role: userRoleConstant, Content: request.UserMessage},
			},
		}).
		SetResult(&completion).
		SetError(&failure).
		Post(chatCompletionsPathConstant)
	if requestError != nil {
		return "", fmt.Errorf(completionRequestErrorTemplate, requestError)
	}
	if response.IsError() {
		if len(failure.Error.Message) > 0 {
			return "", fmt.Errorf(completionStatusErrorTemplate, response.Status(), failure.Error.Message)
		}
		return "", fmt.Errorf(completionStatusOnlyErrorTemplate, response.Status())
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return completion.Choices[0].Message.Content, nil
}
