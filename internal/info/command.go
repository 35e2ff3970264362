package info

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/impacteval/harvest/internal/batch"
	"github.com/impacteval/harvest/internal/ui"
	"github.com/impacteval/harvest/internal/utils"
)

const (
	commandUseConstant                    = "info"
	commandShortDescriptionConstant       = "Save a text dump of every project website"
	commandLongDescriptionConstant        = "info visits every project website from the canonical list and writes its title, headers, main content, and about or mission sections to one text file per project."
	commandExecutionErrorTemplateConstant = "info failed: %w"
	unexpectedArgumentsMessageConstant    = "info does not accept positional arguments"
	inputFlagNameConstant                 = "input"
	inputFlagDescriptionConstant          = "Canonical project list"
	outputFlagNameConstant                = "output-dir"
	outputFlagDescriptionConstant         = "Directory receiving one text file per project"
	workersFlagNameConstant               = "workers"
	workersFlagDescriptionConstant        = "Number of concurrent browser sessions"
	reportTitleConstant                   = "Project information"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// ConfigurationProvider returns the current info configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the info command.
type CommandBuilder struct {
	batch.Runtime
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the info command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(inputFlagNameConstant, "", inputFlagDescriptionConstant)
	command.Flags().String(outputFlagNameConstant, "", outputFlagDescriptionConstant)
	command.Flags().Int(workersFlagNameConstant, 0, workersFlagDescriptionConstant)

	return command, nil
}

// RunConfigured executes the info step using configuration values only.
func (builder *CommandBuilder) RunConfigured(executionContext context.Context, outputWriter io.Writer) error {
	options, optionsError := builder.parseOptions(nil)
	if optionsError != nil {
		return optionsError
	}
	return builder.execute(executionContext, options, outputWriter)
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	return builder.execute(command.Context(), options, command.OutOrStdout())
}

func (builder *CommandBuilder) execute(executionContext context.Context, options Options, outputWriter io.Writer) error {
	if executionContext == nil {
		executionContext = context.Background()
	}
	logger := builder.Logger(executionContext)

	service := NewService(Dependencies{
		Launcher:       builder.Launcher(logger),
		Logger:         logger,
		Observer:       builder.Observer(logger),
		ProgressWriter: builder.Progress(),
	})

	tally, runError := service.Run(executionContext, options)
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

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, error) {
	configuration := builder.resolveConfiguration()

	inputPath, inputError := utils.StringFlagOrConfiguration(command, inputFlagNameConstant, configuration.Input)
	if inputError != nil {
		return Options{}, inputError
	}

	outputDirectory, outputError := utils.StringFlagOrConfiguration(command, outputFlagNameConstant, configuration.OutputDirectory)
	if outputError != nil {
		return Options{}, outputError
	}

	workerCount, workersError := utils.IntFlagOrConfiguration(command, workersFlagNameConstant, configuration.Workers)
	if workersError != nil {
		return Options{}, workersError
	}

	sanitized := Configuration{Input: inputPath, OutputDirectory: outputDirectory, Workers: workerCount}.Sanitize()

	return Options{
		InputPath:       sanitized.Input,
		OutputDirectory: sanitized.OutputDirectory,
		Workers:         sanitized.Workers,
		Timing:          builder.BrowserConfiguration(),
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}
