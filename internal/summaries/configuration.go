package summaries

import (
	"strings"
	"time"

	"github.com/impacteval/harvest/internal/info"
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/workerpool"
)

const (
	// DefaultOutputDirectory holds one summary per project.
	DefaultOutputDirectory = "summaries"
	// DefaultOpenAIModel is used when the openai provider is selected without a model.
	DefaultOpenAIModel = "gpt-4o-mini"

	defaultOpenAIKeySourceConstant = "env:OPENAI_API_KEY"
	defaultGeminiKeySourceConstant = "env:GEMINI_API_KEY"
	defaultRequestTimeoutSetting   = 60 * time.Second
)

// Configuration stores settings for the summarize step.
type Configuration struct {
	Input           string        `mapstructure:"input"`
	InfoDirectory   string        `mapstructure:"info_dir"`
	OutputDirectory string        `mapstructure:"output_dir"`
	Workers         int           `mapstructure:"workers"`
	Provider        string        `mapstructure:"provider"`
	Model           string        `mapstructure:"model"`
	APIKeySource    string        `mapstructure:"api_key_source"`
	BaseURL         string        `mapstructure:"base_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// DefaultConfiguration summarizes with gpt-4o-mini using the OPENAI_API_KEY environment variable.
func DefaultConfiguration() Configuration {
	return Configuration{
		Input:           projects.DefaultCanonicalPath,
		InfoDirectory:   info.DefaultOutputDirectory,
		OutputDirectory: DefaultOutputDirectory,
		Workers:         workerpool.DefaultWorkerCount,
		Provider:        ProviderOpenAI,
		Model:           DefaultOpenAIModel,
		APIKeySource:    defaultOpenAIKeySourceConstant,
		RequestTimeout:  defaultRequestTimeoutSetting,
	}
}

// Sanitize fills unset values with provider-aware defaults.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := Configuration{
		Input:           projects.SanitizePath(configuration.Input, projects.DefaultCanonicalPath),
		InfoDirectory:   projects.SanitizePath(configuration.InfoDirectory, info.DefaultOutputDirectory),
		OutputDirectory: projects.SanitizePath(configuration.OutputDirectory, DefaultOutputDirectory),
		Workers:         configuration.Workers,
		Provider:        strings.ToLower(strings.TrimSpace(configuration.Provider)),
		Model:           strings.TrimSpace(configuration.Model),
		APIKeySource:    strings.TrimSpace(configuration.APIKeySource),
		BaseURL:         strings.TrimSpace(configuration.BaseURL),
		RequestTimeout:  configuration.RequestTimeout,
	}
	if sanitized.Workers <= 0 {
		sanitized.Workers = workerpool.DefaultWorkerCount
	}
	if len(sanitized.Provider) == 0 {
		sanitized.Provider = ProviderOpenAI
	}
	if len(sanitized.Model) == 0 {
		sanitized.Model = defaultModelFor(sanitized.Provider)
	}
	if len(sanitized.APIKeySource) == 0 {
		sanitized.APIKeySource = defaultKeySourceFor(sanitized.Provider)
	}
	if sanitized.RequestTimeout <= 0 {
		sanitized.RequestTimeout = defaultRequestTimeoutSetting
	}
	return sanitized
}

func defaultModelFor(provider string) string {
	if provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}

func defaultKeySourceFor(provider string) string {
	if provider == ProviderGemini {
		return defaultGeminiKeySourceConstant
	}
	return defaultOpenAIKeySourceConstant
}
