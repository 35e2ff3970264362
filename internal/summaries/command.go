package summaries

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
	commandUseConstant                    = "summarize"
	commandShortDescriptionConstant       = "Summarize the saved project information with a language model"
	commandLongDescriptionConstant        = "summarize reads the info dump of every project, asks the configured chat model for a two-paragraph summary, and writes one summary file per project. Projects without information are skipped."
	commandExecutionErrorTemplateConstant = "summarize failed: %w"
	apiKeyErrorTemplateConstant           = "resolve %s api key: %w"
	unexpectedArgumentsMessageConstant    = "summarize does not accept positional arguments"
	inputFlagNameConstant                 = "input"
	inputFlagDescriptionConstant          = "Canonical project list"
	infoDirectoryFlagNameConstant         = "info-dir"
	infoDirectoryFlagDescriptionConstant  = "Directory holding the project info dumps"
	outputFlagNameConstant                = "output-dir"
	outputFlagDescriptionConstant         = "Directory receiving one summary per project"
	workersFlagNameConstant               = "workers"
	workersFlagDescriptionConstant        = "Number of concurrent model requests"
	providerFlagNameConstant              = "provider"
	providerFlagDescriptionConstant       = "Model provider (openai or gemini)"
	modelFlagNameConstant                 = "model"
	modelFlagDescriptionConstant          = "Model name"
	reportTitleConstant                   = "Summaries"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// ConfigurationProvider returns the current summarize configuration.
type ConfigurationProvider func() Configuration

// ModelFactory builds the model client for a run.
type ModelFactory func(executionContext context.Context, settings ModelSettings) (Model, error)

// CommandBuilder assembles the summarize command.
type CommandBuilder struct {
	batch.Runtime
	ConfigurationProvider ConfigurationProvider
	ModelFactory          ModelFactory
	CredentialResolver    credentials.Resolver
}

// Build constructs the summarize command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(inputFlagNameConstant, "", inputFlagDescriptionConstant)
	command.Flags().String(infoDirectoryFlagNameConstant, "", infoDirectoryFlagDescriptionConstant)
	command.Flags().String(outputFlagNameConstant, "", outputFlagDescriptionConstant)
	command.Flags().Int(workersFlagNameConstant, 0, workersFlagDescriptionConstant)
	command.Flags().String(providerFlagNameConstant, "", providerFlagDescriptionConstant)
	command.Flags().String(modelFlagNameConstant, "", modelFlagDescriptionConstant)

	return command, nil
}

// RunConfigured executes the summarize step using configuration values only.
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

	apiKey, keyError := credentials.ResolveValue(executionContext, builder.CredentialResolver, configuration.APIKeySource)
	if keyError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, fmt.Errorf(apiKeyErrorTemplateConstant, configuration.Provider, keyError))
	}

	modelFactory := builder.ModelFactory
	if modelFactory == nil {
		modelFactory = NewModel
	}
	model, modelError := modelFactory(executionContext, ModelSettings{
		Provider: configuration.Provider,
		APIKey:   apiKey,
		BaseURL:  configuration.BaseURL,
		Timeout:  configuration.RequestTimeout,
	})
	if modelError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, modelError)
	}

	service := NewService(Dependencies{
		Model:          model,
		Logger:         logger,
		Observer:       builder.Observer(logger),
		ProgressWriter: builder.Progress(),
	})

	tally, runError := service.Run(executionContext, Options{
		InputPath:       configuration.Input,
		InfoDirectory:   configuration.InfoDirectory,
		OutputDirectory: configuration.OutputDirectory,
		Workers:         configuration.Workers,
		ModelName:       configuration.Model,
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

func (builder *CommandBuilder) parseConfiguration(command *cobra.Command) (Configuration, error) {
	configuration := builder.resolveConfiguration()

	stringSettings := []struct {
		flagName string
		target   *string
	}{
		{flagName: inputFlagNameConstant, target: &configuration.Input},
		{flagName: infoDirectoryFlagNameConstant, target: &configuration.InfoDirectory},
		{flagName: outputFlagNameConstant, target: &configuration.OutputDirectory},
		{flagName: providerFlagNameConstant, target: &configuration.Provider},
		{flagName: modelFlagNameConstant, target: &configuration.Model},
	}
	providerBeforeFlags := configuration.Provider
	modelBeforeFlags := configuration.Model
	for _, setting := range stringSettings {
		resolvedValue, flagError := utils.StringFlagOrConfiguration(command, setting.flagName, *setting.target)
		if flagError != nil {
			return Configuration{}, flagError
		}
		*setting.target = resolvedValue
	}

	workerCount, workersError := utils.IntFlagOrConfiguration(command, workersFlagNameConstant, configuration.Workers)
	if workersError != nil {
		return Configuration{}, workersError
	}
	configuration.Workers = workerCount

	// a provider switched on the command line drops the previous provider's defaults
	if configuration.Provider != providerBeforeFlags {
		if configuration.Model == modelBeforeFlags && modelBeforeFlags == defaultModelFor(providerBeforeFlags) {
			configuration.Model = ""
		}
		if configuration.APIKeySource == defaultKeySourceFor(providerBeforeFlags) {
			configuration.APIKeySource = ""
		}
	}

	return configuration.Sanitize(), nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}
