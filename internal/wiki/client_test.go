package wiki_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/impacteval/harvest/internal/wiki"
)

type fakeMediaWiki struct {
	mutex        sync.Mutex
	editResponse string
	tokenStatus  int
	forms        []map[string]string
	userAgents   []string
	authHeaders  []string
}

func (mediaWiki *fakeMediaWiki) ServeHTTP(responseWriter http.ResponseWriter, request *http.Request) {
	mediaWiki.mutex.Lock()
	defer mediaWiki.mutex.Unlock()
	mediaWiki.userAgents = append(mediaWiki.userAgents, request.Header.Get("User-Agent"))
	mediaWiki.authHeaders = append(mediaWiki.authHeaders, request.Header.Get("Authorization"))
	responseWriter.Header().Set("Content-Type", "application/json")

	switch request.Method {
	case http.MethodGet:
		query := request.URL.Query()
		if query.Get("action") != "query" || query.Get("meta") != "tokens" || query.Get("format") != "json" {
			responseWriter.WriteHeader(http.StatusBadRequest)
			return
		}
		if mediaWiki.tokenStatus != 0 {
			responseWriter.WriteHeader(mediaWiki.tokenStatus)
			_, _ = responseWriter.Write([]byte(`{}`))
			return
		}
		_, _ = responseWriter.Write([]byte(`{"batchcomplete":"","query":{"tokens":{"csrftoken":"tok123+\\"}}}`))
	case http.MethodPost:
		if parseError := request.ParseForm(); parseError != nil {
			responseWriter.WriteHeader(http.StatusBadRequest)
			return
		}
		form := make(map[string]string)
		for key := range request.PostForm {
			form[key] = request.PostForm.Get(key)
		}
		mediaWiki.forms = append(mediaWiki.forms, form)
		_, _ = responseWriter.Write([]byte(mediaWiki.editResponse))
	default:
		responseWriter.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestClientEditClassifiesResponses(testInstance *testing.T) {
	testCases := []struct {
		name           string
		editResponse   string
		expectedStatus wiki.EditStatus
		expectedDetail string
	}{
		{name: "success", editResponse: `{"edit":{"result":"Success","title":"Articles:Alpha"}}`, expectedStatus: wiki.EditSucceeded},
		{name: "rejected", editResponse: `{"error":{"code":"protectedpage","info":"This page has been protected"}}`, expectedStatus: wiki.EditRejected, expectedDetail: "This page has been protected"},
		{name: "unexpected", editResponse: `{"edit":{"result":"Failure"}}`, expectedStatus: wiki.EditUnexpected, expectedDetail: `{"edit":{"result":"Failure"}}`},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			mediaWiki := &fakeMediaWiki{editResponse: testCase.editResponse}
			server := httptest.NewServer(mediaWiki)
			defer server.Close()

			client, clientError := wiki.NewClient(wiki.ClientOptions{APIURL: server.URL + "/w/api.php"})
			require.NoError(testInstance, clientError)

			result, editError := client.Edit(context.Background(), wiki.EditRequest{Title: "Articles:Alpha", Text: "= Alpha =", Summary: wiki.DefaultEditSummary})
			require.NoError(testInstance, editError)
			require.Equal(testInstance, testCase.expectedStatus, result.Status)
			require.Equal(testInstance, testCase.expectedDetail, result.Detail)

			require.Len(testInstance, mediaWiki.forms, 1)
			require.Equal(testInstance, map[string]string{
				"action":  "edit",
				"title":   "Articles:Alpha",
				"text":    "= Alpha =",
				"summary": "Creating an IEF Article automatically",
				"format":  "json",
				"token":   `tok123+\`,
			}, mediaWiki.forms[0])
			for _, userAgent := range mediaWiki.userAgents {
				require.Equal(testInstance, wiki.DefaultUserAgent, userAgent)
			}
		})
	}
}

func TestClientEditFailsWhenTokenUnavailable(testInstance *testing.T) {
	mediaWiki := &fakeMediaWiki{tokenStatus: http.StatusInternalServerError}
	server := httptest.NewServer(mediaWiki)
	defer server.Close()

	client, clientError := wiki.NewClient(wiki.ClientOptions{APIURL: server.URL})
	require.NoError(testInstance, clientError)

	_, editError := client.Edit(context.Background(), wiki.EditRequest{Title: "Articles:Alpha"})
	require.Error(testInstance, editError)
	require.Contains(testInstance, editError.Error(), "csrf")
	require.Empty(testInstance, mediaWiki.forms)
}

func TestOAuthHTTPClientSignsRequests(testInstance *testing.T) {
	mediaWiki := &fakeMediaWiki{editResponse: `{"edit":{"result":"Success"}}`}
	server := httptest.NewServer(mediaWiki)
	defer server.Close()

	httpClient := wiki.NewOAuthHTTPClient(context.Background(), wiki.OAuthCredentials{
		ConsumerKey:    "consumer-key",
		ConsumerSecret: "consumer-secret",
		AccessToken:    "access-token",
		AccessSecret:   "access-secret",
	})
	client, clientError := wiki.NewClient(wiki.ClientOptions{APIURL: server.URL, HTTPClient: httpClient})
	require.NoError(testInstance, clientError)

	_, editError := client.Edit(context.Background(), wiki.EditRequest{Title: "Articles:Alpha", Text: "body"})
	require.NoError(testInstance, editError)
	require.Len(testInstance, mediaWiki.authHeaders, 2)
	for _, authorization := range mediaWiki.authHeaders {
		require.True(testInstance, strings.HasPrefix(authorization, "OAuth "))
		require.Contains(testInstance, authorization, `oauth_consumer_key="consumer-key"`)
		require.Contains(testInstance, authorization, `oauth_token="access-token"`)
	}
}

func TestNewClientRequiresAPIURL(testInstance *testing.T) {
	_, clientError := wiki.NewClient(wiki.ClientOptions{})
	require.Error(testInstance, clientError)
}

func TestBuildPageContent(testInstance *testing.T) {
	require.Equal(testInstance, "Articles:A_B", wiki.ArticleTitle("A/B"))
	require.Equal(
		testInstance,
		"= A_B Project =\n\nFirst.\n\nSecond.\n\n== External Links ==\n* [https://ab.org A_B Project Website]\n",
		wiki.BuildPageContent("A/B Project", "First.\n\nSecond.", "https://ab.org"),
	)
}
