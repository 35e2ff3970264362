package wiki

import (
	"strings"
	"time"

	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/summaries"
)

const (
	// DefaultPagesDirectory keeps a local copy of every generated article.
	DefaultPagesDirectory = "wiki_pages"

	defaultRequestDelayConstant         = time.Second
	defaultConsumerKeySourceConstant    = "env:MIRAHEZE_CONSUMER_KEY"
	defaultConsumerSecretSourceConstant = "env:MIRAHEZE_CONSUMER_SECRET"
	defaultAccessTokenSourceConstant    = "env:MIRAHEZE_ACCESS_TOKEN"
	defaultAccessSecretSourceConstant   = "env:MIRAHEZE_ACCESS_SECRET"
)

// CredentialSources name where each OAuth1 secret is read from.
type CredentialSources struct {
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
	AccessToken    string `mapstructure:"access_token"`
	AccessSecret   string `mapstructure:"access_secret"`
}

// Configuration stores settings for the publish step.
type Configuration struct {
	Input              string            `mapstructure:"input"`
	SummariesDirectory string            `mapstructure:"summaries_dir"`
	PagesDirectory     string            `mapstructure:"pages_dir"`
	APIURL             string            `mapstructure:"api_url"`
	UserAgent          string            `mapstructure:"user_agent"`
	EditSummary        string            `mapstructure:"edit_summary"`
	RequestDelay       time.Duration     `mapstructure:"request_delay"`
	RequestTimeout     time.Duration     `mapstructure:"request_timeout"`
	DryRun             bool              `mapstructure:"dry_run"`
	Credentials        CredentialSources `mapstructure:"credentials"`
}

// DefaultConfiguration publishes to the impact wiki with credentials from MIRAHEZE_* variables.
func DefaultConfiguration() Configuration {
	return Configuration{
		Input:              projects.DefaultCanonicalPath,
		SummariesDirectory: summaries.DefaultOutputDirectory,
		PagesDirectory:     DefaultPagesDirectory,
		APIURL:             DefaultAPIURL,
		UserAgent:          DefaultUserAgent,
		EditSummary:        DefaultEditSummary,
		RequestDelay:       defaultRequestDelayConstant,
		RequestTimeout:     defaultClientTimeoutConstant,
		Credentials: CredentialSources{
			ConsumerKey:    defaultConsumerKeySourceConstant,
			ConsumerSecret: defaultConsumerSecretSourceConstant,
			AccessToken:    defaultAccessTokenSourceConstant,
			AccessSecret:   defaultAccessSecretSourceConstant,
		},
	}
}

// Sanitize trims values and fills unset ones with defaults.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := Configuration{
		Input:              projects.SanitizePath(configuration.Input, defaults.Input),
		SummariesDirectory: projects.SanitizePath(configuration.SummariesDirectory, defaults.SummariesDirectory),
		PagesDirectory:     projects.SanitizePath(configuration.PagesDirectory, defaults.PagesDirectory),
		APIURL:             valueOrDefault(configuration.APIURL, defaults.APIURL),
		UserAgent:          valueOrDefault(configuration.UserAgent, defaults.UserAgent),
		EditSummary:        valueOrDefault(configuration.EditSummary, defaults.EditSummary),
		RequestDelay:       configuration.RequestDelay,
		RequestTimeout:     configuration.RequestTimeout,
		DryRun:             configuration.DryRun,
		Credentials: CredentialSources{
			ConsumerKey:    valueOrDefault(configuration.Credentials.ConsumerKey, defaults.Credentials.ConsumerKey),
			ConsumerSecret: valueOrDefault(configuration.Credentials.ConsumerSecret, defaults.Credentials.ConsumerSecret),
			AccessToken:    valueOrDefault(configuration.Credentials.AccessToken, defaults.Credentials.AccessToken),
			AccessSecret:   valueOrDefault(configuration.Credentials.AccessSecret, defaults.Credentials.AccessSecret),
		},
	}
	if sanitized.RequestDelay < 0 {
		sanitized.RequestDelay = defaults.RequestDelay
	}
	if sanitized.RequestTimeout <= 0 {
		sanitized.RequestTimeout = defaults.RequestTimeout
	}
	return sanitized
}

func valueOrDefault(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
