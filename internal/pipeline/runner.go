package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	stepFailedErrorTemplate         = "pipeline step %s failed: %w"
	unknownStepsErrorTemplate       = "unknown pipeline steps: %s (available: %s)"
	stepNameSeparatorConstant       = ", "
	stepStartedMessage              = "pipeline step started"
	stepCompletedMessage            = "pipeline step completed"
	pipelineCompletedMessage        = "pipeline completed"
	stepLogFieldConstant            = "step"
	stepPositionLogFieldConstant    = "position"
	stepCountLogFieldConstant       = "steps"
	elapsedLogFieldConstant         = "elapsed"
	stepHeadingTemplateConstant     = "==> %s\n"
	stepRunnerMissingMessageContent = "pipeline step runner not configured"
)

var errStepRunnerMissing = errors.New(stepRunnerMissingMessageContent)

// StepRunner executes one configured step and writes its report to the output writer.
type StepRunner func(executionContext context.Context, outputWriter io.Writer) error

// Registry maps step names to their runners.
type Registry map[string]StepRunner

// Available returns the registered step names in sorted order.
func (registry Registry) Available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports every step of the definition without a registered runner.
func (registry Registry) Validate(definition Definition) error {
	var unknownSteps []string
	for _, step := range definition.Steps {
		runner, registered := registry[step.Step]
		if !registered || runner == nil {
			unknownSteps = append(unknownSteps, step.Step)
		}
	}
	if len(unknownSteps) == 0 {
		return nil
	}
	return fmt.Errorf(
		unknownStepsErrorTemplate,
		strings.Join(unknownSteps, stepNameSeparatorConstant),
		strings.Join(registry.Available(), stepNameSeparatorConstant),
	)
}

// Runner executes pipeline definitions against a registry.
type Runner struct {
	registry Registry
	logger   *zap.Logger
}

// NewRunner constructs a Runner.
func NewRunner(registry Registry, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{registry: registry, logger: logger}
}

// Run validates the whole definition first, then runs each step in order and stops at the first failure.
func (runner *Runner) Run(executionContext context.Context, definition Definition, outputWriter io.Writer) error {
	if validationError := runner.registry.Validate(definition); validationError != nil {
		return validationError
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}

	pipelineStarted := time.Now()
	for stepIndex, step := range definition.Steps {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		stepRunner := runner.registry[step.Step]
		if stepRunner == nil {
			return fmt.Errorf(stepFailedErrorTemplate, step.Step, errStepRunnerMissing)
		}

		runner.logger.Info(stepStartedMessage, zap.String(stepLogFieldConstant, step.Step), zap.Int(stepPositionLogFieldConstant, stepIndex+1))
		if _, headingError := fmt.Fprintf(outputWriter, stepHeadingTemplateConstant, step.Step); headingError != nil {
			return headingError
		}

		stepStarted := time.Now()
		if stepError := stepRunner(executionContext, outputWriter); stepError != nil {
			return fmt.Errorf(stepFailedErrorTemplate, step.Step, stepError)
		}
		runner.logger.Info(stepCompletedMessage, zap.String(stepLogFieldConstant, step.Step), zap.Duration(elapsedLogFieldConstant, time.Since(stepStarted)))
	}

	runner.logger.Info(pipelineCompletedMessage, zap.Int(stepCountLogFieldConstant, len(definition.Steps)), zap.Duration(elapsedLogFieldConstant, time.Since(pipelineStarted)))
	return nil
}
