package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultAPIURL is the MediaWiki API endpoint articles are published to.
	DefaultAPIURL = "https://impact.miraheze.org/w/api.php"
	// DefaultUserAgent identifies the publisher to the wiki operators.
	DefaultUserAgent = "IERetrv/1.0 (impactevaluationfoundation@gmail.com)"
	// DefaultEditSummary is the edit comment attached to every article.
	DefaultEditSummary = "Creating an IEF Article automatically"

	actionParameterConstant       = "action"
	formatParameterConstant       = "format"
	metaParameterConstant         = "meta"
	titleParameterConstant        = "title"
	textParameterConstant         = "text"
	summaryParameterConstant      = "summary"
	tokenParameterConstant        = "token"
	queryActionConstant           = "query"
	editActionConstant            = "edit"
	tokensMetaConstant            = "tokens"
	jsonFormatConstant            = "json"
	userAgentHeaderConstant       = "User-Agent"
	editSuccessResultConstant     = "Success"
	defaultClientTimeoutConstant  = 30 * time.Second
	tokenRequestErrorTemplate     = "fetch csrf token: %w"
	tokenStatusErrorTemplate      = "fetch csrf token: %s"
	editRequestErrorTemplate      = "edit %s: %w"
	editStatusErrorTemplate       = "edit %s: %s"
	missingCSRFTokenMessage       = "wiki returned no csrf token"
	apiURLRequiredMessageConstant = "wiki api url must be provided"
)

// ErrMissingCSRFToken indicates a token response without a csrf token.
var ErrMissingCSRFToken = errors.New(missingCSRFTokenMessage)

// OAuthCredentials are owner-only OAuth1 consumer and access credentials.
type OAuthCredentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// NewOAuthHTTPClient returns an HTTP client that signs every request with the credentials.
func NewOAuthHTTPClient(executionContext context.Context, oauthCredentials OAuthCredentials) *http.Client {
	configuration := oauth1.NewConfig(oauthCredentials.ConsumerKey, oauthCredentials.ConsumerSecret)
	return configuration.Client(executionContext, oauth1.NewToken(oauthCredentials.AccessToken, oauthCredentials.AccessSecret))
}

// ClientOptions configure the MediaWiki API client.
type ClientOptions struct {
	APIURL     string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// EditStatus classifies the wiki's answer to an edit.
type EditStatus string

// Edit statuses.
const (
	EditSucceeded  EditStatus = "success"
	EditRejected   EditStatus = "rejected"
	EditUnexpected EditStatus = "unexpected"
)

// EditResult is the classified edit response.
type EditResult struct {
	Status EditStatus
	Detail string
}

// EditRequest is one article edit.
type EditRequest struct {
	Title   string
	Text    string
	Summary string
}

// Client calls the MediaWiki action API.
type Client struct {
	client *resty.Client
	apiURL string
}

type tokenResponse struct {
	Query struct {
		Tokens struct {
			CSRFToken string `json:"csrftoken"`
		} `json:"tokens"`
	} `json:"query"`
}

type editResponse struct {
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
	Edit *struct {
		Result string `json:"result"`
		Title  string `json:"title"`
	} `json:"edit"`
}

// NewClient constructs a MediaWiki client on top of the provided HTTP client.
func NewClient(options ClientOptions) (*Client, error) {
	apiURL := strings.TrimSpace(options.APIURL)
	if len(apiURL) == 0 {
		return nil, errors.New(apiURLRequiredMessageConstant)
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeoutConstant
	}
	userAgent := strings.TrimSpace(options.UserAgent)
	if len(userAgent) == 0 {
		userAgent = DefaultUserAgent
	}

	restyClient := resty.NewWithClient(httpClient)
	restyClient.SetTimeout(timeout)
	restyClient.SetHeader(userAgentHeaderConstant, userAgent)

	return &Client{client: restyClient, apiURL: apiURL}, nil
}

// CSRFToken fetches an edit token.
func (client *Client) CSRFToken(executionContext context.Context) (string, error) {
	var tokens tokenResponse
	response, requestError := client.client.R().
		SetContext(executionContext).
		SetQueryParams(map[string]string{
			actionParameterConstant: queryActionConstant,
			metaParameterConstant:   tokensMetaConstant,
			formatParameterConstant: jsonFormatConstant,
		}).
		SetResult(&tokens).
		Get(client.apiURL)
	if requestError != nil {
		return "", fmt.Errorf(tokenRequestErrorTemplate, requestError)
	}
	if response.IsError() {
		return "", fmt.Errorf(tokenStatusErrorTemplate, response.Status())
	}
	if len(tokens.Query.Tokens.CSRFToken) == 0 {
		return "", ErrMissingCSRFToken
	}
	return tokens.Query.Tokens.CSRFToken, nil
}

// Edit creates or replaces an article using a fresh CSRF token.
func (client *Client) Edit(executionContext context.Context, request EditRequest) (EditResult, error) {
	csrfToken, tokenError := client.CSRFToken(executionContext)
	if tokenError != nil {
		return EditResult{}, tokenError
	}

	var edited editResponse
	response, requestError := client.client.R().
		SetContext(executionContext).
		SetFormData(map[string]string{
			actionParameterConstant:  editActionConstant,
			titleParameterConstant:   request.Title,
			textParameterConstant:    request.Text,
			summaryParameterConstant: request.Summary,
			formatParameterConstant:  jsonFormatConstant,
			tokenParameterConstant:   csrfToken,
		}).
		SetResult(&edited).
		Post(client.apiURL)
	if requestError != nil {
		return EditResult{}, fmt.Errorf(editRequestErrorTemplate, request.Title, requestError)
	}
	if response.IsError() {
		return EditResult{}, fmt.Errorf(editStatusErrorTemplate, request.Title, response.Status())
	}

	switch {
	case edited.Error != nil:
		return EditResult{Status: EditRejected, Detail: edited.Error.Info}, nil
	case edited.Edit != nil && edited.Edit.Result == editSuccessResultConstant:
		return EditResult{Status: EditSucceeded}, nil
	default:
		return EditResult{Status: EditUnexpected, Detail: string(response.Body())}, nil
	}
}
