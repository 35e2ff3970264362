package summaries_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/impacteval/harvest/internal/summaries"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction"`
}

func newGeminiTestClient(testInstance *testing.T, serverURL string) *summaries.GeminiClient {
	testInstance.Helper()
	client, clientError := summaries.NewGeminiClient(context.Background(), summaries.GeminiClientOptions{
		APIKey:  "gemini-key",
		BaseURL: serverURL + "/",
	})
	require.NoError(testInstance, clientError)
	return client
}

func TestGeminiClientSendsSystemInstructionAndModel(testInstance *testing.T) {
	var capturedPath string
	var capturedRequest geminiGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		capturedPath = request.URL.Path
		require.Equal(testInstance, http.MethodPost, request.Method)
		require.NoError(testInstance, json.NewDecoder(request.Body).Decode(&capturedRequest))
		responseWriter.Header().Set("Content-Type", "application/json")
		_, _ = responseWriter.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"A summary."}]}}]}`))
	}))
	defer server.Close()

	reply, completionError := newGeminiTestClient(testInstance, server.URL).Complete(context.Background(), summaries.ChatRequest{
		Model:         summaries.DefaultGeminiModel,
		SystemMessage: "system",
		UserMessage:   "user",
	})
	require.NoError(testInstance, completionError)
	require.Equal(testInstance, "A summary.", reply)
	require.True(testInstance, strings.HasSuffix(capturedPath, "/models/"+summaries.DefaultGeminiModel+":generateContent"), capturedPath)
	require.NotNil(testInstance, capturedRequest.SystemInstruction)
	require.Equal(testInstance, []geminiPart{{Text: "system"}}, capturedRequest.SystemInstruction.Parts)
	require.Len(testInstance, capturedRequest.Contents, 1)
	require.Equal(testInstance, []geminiPart{{Text: "user"}}, capturedRequest.Contents[0].Parts)
}

func TestGeminiClientReportsFailures(testInstance *testing.T) {
	testCases := []struct {
		name          string
		status        int
		body          string
		expectedError error
		expectedText  string
	}{
		{name: "empty_text", status: http.StatusOK, body: `{"candidates":[]}`, expectedError: summaries.ErrEmptyCompletion},
		{name: "api_error", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, expectedText: "API key not valid"},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
				responseWriter.Header().Set("Content-Type", "application/json")
				responseWriter.WriteHeader(testCase.status)
				_, _ = responseWriter.Write([]byte(testCase.body))
			}))
			defer server.Close()

			_, completionError := newGeminiTestClient(testInstance, server.URL).Complete(context.Background(), summaries.ChatRequest{Model: "m", UserMessage: "u"})
			require.Error(testInstance, completionError, "case %d", testCaseIndex)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, completionError, testCase.expectedError)
			}
			if len(testCase.expectedText) > 0 {
				require.Contains(testInstance, completionError.Error(), testCase.expectedText)
			}
		})
	}
}
