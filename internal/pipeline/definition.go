package pipeline

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	definitionLoadErrorTemplateConstant  = "failed to load pipeline definition: %w"
	definitionParseErrorTemplateConstant = "failed to parse pipeline definition: %w"
	definitionPathRequiredMessage        = "pipeline definition path must be provided"
	definitionEmptyStepsMessage          = "pipeline definition must declare at least one step"
	definitionStepMissingTemplate        = "pipeline step %d missing step name"
)

// Definition lists the steps of a pipeline in execution order.
type Definition struct {
	Steps []StepDefinition `yaml:"steps"`
}

// StepDefinition names one registered step.
type StepDefinition struct {
	Step string `yaml:"step"`
}

// Names returns the step names in order.
func (definition Definition) Names() []string {
	names := make([]string, 0, len(definition.Steps))
	for _, step := range definition.Steps {
		names = append(names, step.Step)
	}
	return names
}

// LoadDefinition reads a pipeline file. A top-level "pipeline" key wrapping the steps is also accepted.
func LoadDefinition(filePath string) (Definition, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Definition{}, errors.New(definitionPathRequiredMessage)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Definition{}, fmt.Errorf(definitionLoadErrorTemplateConstant, readError)
	}

	return ParseDefinition(contentBytes)
}

// ParseDefinition decodes and validates pipeline YAML.
func ParseDefinition(contentBytes []byte) (Definition, error) {
	var definition Definition
	if unmarshalError := yaml.Unmarshal(contentBytes, &definition); unmarshalError != nil {
		return Definition{}, fmt.Errorf(definitionParseErrorTemplateConstant, unmarshalError)
	}

	if len(definition.Steps) == 0 {
		var wrapper struct {
			Pipeline Definition `yaml:"pipeline"`
		}
		if nestedError := yaml.Unmarshal(contentBytes, &wrapper); nestedError == nil {
			definition = wrapper.Pipeline
		}
	}

	if len(definition.Steps) == 0 {
		return Definition{}, errors.New(definitionEmptyStepsMessage)
	}

	for stepIndex := range definition.Steps {
		trimmedStep := strings.TrimSpace(definition.Steps[stepIndex].Step)
		if len(trimmedStep) == 0 {
			return Definition{}, fmt.Errorf(definitionStepMissingTemplate, stepIndex+1)
		}
		definition.Steps[stepIndex].Step = trimmedStep
	}

	return definition, nil
}
