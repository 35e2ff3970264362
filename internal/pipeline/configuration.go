package pipeline

import "strings"

// DefaultDefinitionPath is the pipeline file used when none is configured.
const DefaultDefinitionPath = "pipeline.yaml"

// Configuration stores settings for the pipeline command.
type Configuration struct {
	File string `mapstructure:"file"`
}

// DefaultConfiguration reads pipeline.yaml from the working directory.
func DefaultConfiguration() Configuration {
	return Configuration{File: DefaultDefinitionPath}
}

// Sanitize trims the file path and falls back to the default.
func (configuration Configuration) Sanitize() Configuration {
	trimmedFile := strings.TrimSpace(configuration.File)
	if len(trimmedFile) == 0 {
		trimmedFile = DefaultDefinitionPath
	}
	return Configuration{File: trimmedFile}
}
