package projects

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/impacteval/harvest/internal/utils"
)

const (
	commandUseConstant                    = "merge"
	commandShortDescriptionConstant       = "Merge the directory and partner exports into one project list"
	commandLongDescriptionConstant        = "merge combines the directory scrape and the partner CSV export, keeps one record per website with the directory export taking priority, and writes the canonical project list."
	commandExecutionErrorTemplateConstant = "merge failed: %w"
	unexpectedArgumentsMessageConstant    = "merge does not accept positional arguments"
	directoryInputFlagNameConstant        = "directory-input"
	directoryInputFlagDescriptionConstant = "Directory scrape CSV export"
	partnerInputFlagNameConstant          = "partner-input"
	partnerInputFlagDescriptionConstant   = "Partner CSV export"
	outputFlagNameConstant                = "output"
	outputFlagDescriptionConstant         = "Destination of the merged project list"
	mergeSummaryTemplateConstant          = "Merged %d directory and %d partner records into %d projects (%s)\n"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current merge configuration.
type ConfigurationProvider func() MergeConfiguration

// CommandBuilder assembles the merge command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the merge command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(directoryInputFlagNameConstant, "", directoryInputFlagDescriptionConstant)
	command.Flags().String(partnerInputFlagNameConstant, "", partnerInputFlagDescriptionConstant)
	command.Flags().String(outputFlagNameConstant, "", outputFlagDescriptionConstant)

	return command, nil
}

// RunConfigured executes the merge using configuration values only.
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

func (builder *CommandBuilder) execute(executionContext context.Context, options MergeOptions, outputWriter io.Writer) error {
	if executionContext == nil {
		executionContext = context.Background()
	}
	logger := utils.NewCommandContextAccessor().DecorateLogger(executionContext, builder.resolveLogger())

	result, runError := NewService(logger).Run(executionContext, options)
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	if outputWriter != nil {
		fmt.Fprintf(outputWriter, mergeSummaryTemplateConstant, result.DirectoryRecords, result.PartnerRecords, result.MergedRecords, options.OutputPath)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (MergeOptions, error) {
	configuration := builder.resolveConfiguration()

	directoryInput, directoryInputError := utils.StringFlagOrConfiguration(command, directoryInputFlagNameConstant, configuration.DirectoryInput)
	if directoryInputError != nil {
		return MergeOptions{}, directoryInputError
	}

	partnerInput, partnerInputError := utils.StringFlagOrConfiguration(command, partnerInputFlagNameConstant, configuration.PartnerInput)
	if partnerInputError != nil {
		return MergeOptions{}, partnerInputError
	}

	outputPath, outputError := utils.StringFlagOrConfiguration(command, outputFlagNameConstant, configuration.Output)
	if outputError != nil {
		return MergeOptions{}, outputError
	}

	return MergeOptions{
		DirectoryInputPath: SanitizePath(directoryInput, DefaultDirectoryExportPath),
		PartnerInputPath:   SanitizePath(partnerInput, DefaultPartnerExportPath),
		OutputPath:         SanitizePath(outputPath, DefaultCanonicalPath),
	}, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConfiguration() MergeConfiguration {
	configuration := DefaultMergeConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}
