package directory

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/impacteval/harvest/internal/batch"
	"github.com/impacteval/harvest/internal/utils"
)

const (
	commandUseConstant                    = "directory-scrape"
	commandShortDescriptionConstant       = "Scrape the public project directory"
	commandLongDescriptionConstant        = "directory-scrape walks every page of the project directory, follows each listing to its detail page to read the project website, and writes the directory export CSV."
	commandExecutionErrorTemplateConstant = "directory scrape failed: %w"
	unexpectedArgumentsMessageConstant    = "directory-scrape does not accept positional arguments"
	urlFlagNameConstant                   = "url"
	urlFlagDescriptionConstant            = "Directory listing URL"
	outputFlagNameConstant                = "output"
	outputFlagDescriptionConstant         = "Destination of the directory export"
	scrapeSummaryTemplateConstant         = "Scraped %d projects across %d pages (%s)\n"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// ConfigurationProvider returns the current directory scrape configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the directory-scrape command.
type CommandBuilder struct {
	batch.Runtime
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the directory-scrape command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(urlFlagNameConstant, "", urlFlagDescriptionConstant)
	command.Flags().String(outputFlagNameConstant, "", outputFlagDescriptionConstant)

	return command, nil
}

// RunConfigured executes the scrape using configuration values only.
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

	service := NewService(Dependencies{
		Launcher:       builder.Launcher(logger),
		Logger:         logger,
		ProgressWriter: builder.Progress(),
	})

	result, runError := service.Run(executionContext, configuration)
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	if outputWriter != nil {
		fmt.Fprintf(outputWriter, scrapeSummaryTemplateConstant, len(result.Listings), result.Pages, configuration.Output)
	}
	return nil
}

func (builder *CommandBuilder) parseConfiguration(command *cobra.Command) (Configuration, error) {
	configuration := builder.resolveConfiguration()

	directoryURL, urlError := utils.StringFlagOrConfiguration(command, urlFlagNameConstant, configuration.URL)
	if urlError != nil {
		return Configuration{}, urlError
	}

	outputPath, outputError := utils.StringFlagOrConfiguration(command, outputFlagNameConstant, configuration.Output)
	if outputError != nil {
		return Configuration{}, outputError
	}

	configuration.URL = directoryURL
	configuration.Output = outputPath
	return configuration.Sanitize(), nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}
