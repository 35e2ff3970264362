package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/impacteval/harvest/internal/utils"
)

const (
	commandUseConstant              = "pipeline [file]"
	commandShortDescriptionConstant = "Run a sequence of steps from a pipeline file"
	commandLongDescriptionConstant  = "pipeline loads a YAML file of the form `steps: [{step: merge}, {step: contacts}]`, checks every step name against the available commands, and runs the steps in order with the loaded configuration."
	fileFlagNameConstant            = "file"
	fileFlagDescriptionConstant     = "Pipeline definition file"
	tooManyArgumentsMessage         = "pipeline accepts at most one definition file"
	pipelineFailedErrorTemplate     = "pipeline failed: %w"
	conflictingFileErrorTemplate    = "pipeline file given both as argument (%s) and --file (%s)"
)

var errTooManyArguments = errors.New(tooManyArgumentsMessage)

// CommandBuilder assembles the pipeline command.
type CommandBuilder struct {
	LoggerProvider        func() *zap.Logger
	ConfigurationProvider func() Configuration
	RegistryProvider      func() Registry
}

// Build constructs the pipeline command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(fileFlagNameConstant, "", fileFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 1 {
		return errTooManyArguments
	}

	configuration := builder.resolveConfiguration()
	definitionPath, flagError := utils.StringFlagOrConfiguration(command, fileFlagNameConstant, configuration.File)
	if flagError != nil {
		return flagError
	}
	if len(arguments) == 1 {
		argumentPath := strings.TrimSpace(arguments[0])
		if command.Flags().Changed(fileFlagNameConstant) && argumentPath != definitionPath {
			return fmt.Errorf(conflictingFileErrorTemplate, argumentPath, definitionPath)
		}
		definitionPath = argumentPath
	}

	definition, loadError := LoadDefinition(definitionPath)
	if loadError != nil {
		return loadError
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}

	logger := utils.NewCommandContextAccessor().DecorateLogger(executionContext, builder.logger())
	if runError := NewRunner(builder.registry(), logger).Run(executionContext, definition, command.OutOrStdout()); runError != nil {
		return fmt.Errorf(pipelineFailedErrorTemplate, runError)
	}
	return nil
}

func (builder *CommandBuilder) logger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	return builder.LoggerProvider()
}

func (builder *CommandBuilder) registry() Registry {
	if builder.RegistryProvider == nil {
		return Registry{}
	}
	return builder.RegistryProvider()
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
