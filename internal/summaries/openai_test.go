package summaries_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/impacteval/harvest/internal/summaries"
)

func TestOpenAIClientSendsChatCompletion(testInstance *testing.T) {
	var capturedBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, http.MethodPost, request.Method)
		require.Equal(testInstance, "/v1/chat/completions", request.URL.Path)
		require.Equal(testInstance, "Bearer test-key", request.Header.Get("Authorization"))
		require.NoError(testInstance, json.NewDecoder(request.Body).Decode(&capturedBody))
		responseWriter.Header().Set("Content-Type", "application/json")
		_, _ = responseWriter.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"A summary."}}]}`))
	}))
	defer server.Close()

	client := summaries.NewOpenAIClient(summaries.OpenAIClientOptions{APIKey: "test-key", BaseURL: server.URL + "/v1/"})
	reply, completionError := client.Complete(context.Background(), summaries.ChatRequest{
		Model:         "gpt-4o-mini",
		SystemMessage: "system",
		UserMessage:   "user",
	})
	require.NoError(testInstance, completionError)
	require.Equal(testInstance, "A summary.", reply)
	require.Equal(testInstance, "gpt-4o-mini", capturedBody["model"])
	require.Equal(testInstance, []any{
		map[string]any{"role": "system", "content": "system"},
		map[string]any{"role": "user", "content": "user"},
	}, capturedBody["messages"])
}

func TestOpenAIClientReportsFailures(testInstance *testing.T) {
	testCases := []struct {
		name            string
		status          int
		body            string
		expectedMessage string
	}{
		{name: "api_error", status: http.StatusUnauthorized, body: `{"error":{"message":"invalid api key"}}`, expectedMessage: "invalid api key"},
		{name: "bare_status", status: http.StatusBadGateway, body: `{}`, expectedMessage: "502"},
		{name: "no_choices", status: http.StatusOK, body: `{"choices":[]}`, expectedMessage: "no completion"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
				responseWriter.Header().Set("Content-Type", "application/json")
				responseWriter.WriteHeader(testCase.status)
				_, _ = responseWriter.Write([]byte(testCase.body))
			}))
			defer server.Close()

			client := summaries.NewOpenAIClient(summaries.OpenAIClientOptions{APIKey: "key", BaseURL: server.URL})
			_, completionError := client.Complete(context.Background(), summaries.ChatRequest{Model: "m"})
			require.Error(testInstance, completionError)
			require.Contains(testInstance, completionError.Error(), testCase.expectedMessage)
		})
	}
}

func TestNewModelRejectsUnknownProvider(testInstance *testing.T) {
	_, modelError := summaries.NewModel(context.Background(), summaries.ModelSettings{Provider: "acme"})
	require.Error(testInstance, modelError)
}
