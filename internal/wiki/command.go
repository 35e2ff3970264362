package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/impacteval/harvest/internal/batch"
	"github.com/impacteval/harvest/internal/credentials"
	"github.com/impacteval/harvest/internal/ui"
	"github.com/impacteval/harvest/internal/utils"
)

const (
	commandUseConstant                    = "publish"
	commandShortDescriptionConstant       = "Publish project summaries as wiki articles"
	commandLongDescriptionConstant        = "publish builds an article for every project with a saved summary, writes it under the local pages directory, and submits it to the MediaWiki API using OAuth1. --dry-run stops after the local pages."
	commandExecutionErrorTemplateConstant = "publish failed: %w"
	credentialErrorTemplateConstant       = "resolve wiki %s: %w"
	unexpectedArgumentsMessageConstant    = "publish does not accept positional arguments"
	inputFlagNameConstant                 = "input"
	inputFlagDescriptionConstant          = "Canonical project list"
	summariesFlagNameConstant             = "summaries-dir"
	summariesFlagDescriptionConstant      = "Directory holding the project summaries"
	dryRunFlagNameConstant                = "dry-run"
	dryRunFlagDescriptionConstant         = "Write local pages without publishing"
	reportTitleConstant                   = "Wiki pages"
	consumerKeyLabelConstant              = "consumer key"
	consumerSecretLabelConstant           = "consumer secret"
	accessTokenLabelConstant              = "access token"
	accessSecretLabelConstant             = "access secret"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// ConfigurationProvider returns the current publish configuration.
type ConfigurationProvider func() Configuration

// PublisherFactory builds the publisher for a run.
type PublisherFactory func(executionContext context.Context, configuration Configuration, oauthCredentials OAuthCredentials) (Publisher, error)

// CommandBuilder assembles the publish command.
type CommandBuilder struct {
	batch.Runtime
	ConfigurationProvider ConfigurationProvider
	PublisherFactory      PublisherFactory
	CredentialResolver    credentials.Resolver
}

// Build constructs the publish command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(inputFlagNameConstant, "", inputFlagDescriptionConstant)
	command.Flags().String(summariesFlagNameConstant, "", summariesFlagDescriptionConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)

	return command, nil
}

// RunConfigured executes the publish step using configuration values only.
func (builder *CommandBuilder) RunConfigured(executionContext context.Context, outputWriter io.Writer) error {
	configuration, configurationError := builder.parseConfiguration(nil)
	if configurationError != nil {
		return configurationError
	}
	return builder.execute(executionContext, configuration, outputWriter)
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration, configurationError := builder.parseConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	return builder.execute(command.Context(), configuration, command.OutOrStdout())
}

func (builder *CommandBuilder) execute(executionContext context.Context, configuration Configuration, outputWriter io.Writer) error {
	if executionContext == nil {
		executionContext = context.Background()
	}
	logger := builder.Logger(executionContext)

	var publisher Publisher
	if !configuration.DryRun {
		var publisherError error
		publisher, publisherError = builder.buildPublisher(executionContext, configuration)
		if publisherError != nil {
			return fmt.Errorf(commandExecutionErrorTemplateConstant, publisherError)
		}
	}

	service := NewService(Dependencies{
		Publisher:      publisher,
		Logger:         logger,
		Observer:       builder.Observer(logger),
		ProgressWriter: builder.Progress(),
	})

	tally, runError := service.Run(executionContext, Options{
		InputPath:          configuration.Input,
		SummariesDirectory: configuration.SummariesDirectory,
		PagesDirectory:     configuration.PagesDirectory,
		EditSummary:        configuration.EditSummary,
		RequestDelay:       configuration.RequestDelay,
		DryRun:             configuration.DryRun,
	})
	if tally != nil && outputWriter != nil {
		if reportError := ui.WriteRunReport(outputWriter, reportTitleConstant, tally); reportError != nil {
			runError = errors.Join(runError, reportError)
		}
	}
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}
	return nil
}

func (builder *CommandBuilder) buildPublisher(executionContext context.Context, configuration Configuration) (Publisher, error) {
	var oauthCredentials OAuthCredentials
	credentialSources := []struct {
		label  string
		source string
		target *string
	}{
		{label: consumerKeyLabelConstant, source: configuration.Credentials.ConsumerKey, target: &oauthCredentials.ConsumerKey},
		{label: consumerSecretLabelConstant, source: configuration.Credentials.ConsumerSecret, target: &oauthCredentials.ConsumerSecret},
		{label: accessTokenLabelConstant, source: configuration.Credentials.AccessToken, target: &oauthCredentials.AccessToken},
		{label: accessSecretLabelConstant, source: configuration.Credentials.AccessSecret, target: &oauthCredentials.AccessSecret},
	}

	for _, credentialSource := range credentialSources {
		resolvedValue, resolveError := credentials.ResolveValue(executionContext, builder.CredentialResolver, credentialSource.source)
		if resolveError != nil {
			return nil, fmt.Errorf(credentialErrorTemplateConstant, credentialSource.label, resolveError)
		}
		*credentialSource.target = resolvedValue
	}

	publisherFactory := builder.PublisherFactory
	if publisherFactory == nil {
		publisherFactory = newOAuthPublisher
	}
	return publisherFactory(executionContext, configuration, oauthCredentials)
}

func newOAuthPublisher(executionContext context.Context, configuration Configuration, oauthCredentials OAuthCredentials) (Publisher, error) {
	return NewClient(ClientOptions{
		APIURL:     configuration.APIURL,
		UserAgent:  configuration.UserAgent,
		Timeout:    configuration.RequestTimeout,
		HTTPClient: NewOAuthHTTPClient(executionContext, oauthCredentials),
	})
}

func (builder *CommandBuilder) parseConfiguration(command *cobra.Command) (Configuration, error) {
	configuration := builder.resolveConfiguration()

	inputPath, inputError := utils.StringFlagOrConfiguration(command, inputFlagNameConstant, configuration.Input)
	if inputError != nil {
		return Configuration{}, inputError
	}
	summariesDirectory, summariesError := utils.StringFlagOrConfiguration(command, summariesFlagNameConstant, configuration.SummariesDirectory)
	if summariesError != nil {
		return Configuration{}, summariesError
	}
	dryRun, dryRunError := utils.BoolFlagOrConfiguration(command, dryRunFlagNameConstant, configuration.DryRun)
	if dryRunError != nil {
		return Configuration{}, dryRunError
	}

	configuration.Input = inputPath
	configuration.SummariesDirectory = summariesDirectory
	configuration.DryRun = dryRun
	return configuration.Sanitize(), nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}
