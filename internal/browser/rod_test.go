package browser_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/require"

	"github.com/impacteval/harvest/internal/browser"
)

const tallDocumentShortBodyHTMLConstant = `<html style="height:3000px"><body style="margin:0;height:10px"><p>short</p></body></html>`

func TestRodSessionScrollHeightMeasuresDocument(testInstance *testing.T) {
	if testing.Short() {
		testInstance.Skip("launches chrome")
	}
	chromePath, chromeFound := launcher.LookPath()
	if !chromeFound {
		testInstance.Skip("chrome not installed")
	}

	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, _ *http.Request) {
		responseWriter.Header().Set("Content-Type", "text/html")
		_, _ = responseWriter.Write([]byte(tallDocumentShortBodyHTMLConstant))
	}))
	defer server.Close()

	configuration := browser.DefaultConfiguration()
	configuration.BinaryPath = chromePath
	configuration.NoSandbox = true
	executionContext, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	measureError := browser.WithSession(executionContext, browser.NewRodLauncher(configuration, nil), func(session browser.Session) error {
		require.NoError(testInstance, session.Navigate(executionContext, server.URL))
		scrollHeight, heightError := session.ScrollHeight(executionContext)
		require.NoError(testInstance, heightError)
		require.Equal(testInstance, 3000, scrollHeight)
		return nil
	})
	require.NoError(testInstance, measureError)
}
