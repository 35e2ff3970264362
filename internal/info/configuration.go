package info

import (
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/workerpool"
)

// DefaultOutputDirectory holds one text file per project.
const DefaultOutputDirectory = "info"

// Configuration stores settings for the info step.
type Configuration struct {
	Input           string `mapstructure:"input"`
	OutputDirectory string `mapstructure:"output_dir"`
	Workers         int    `mapstructure:"workers"`
}

// DefaultConfiguration reads the canonical list and writes into info/.
func DefaultConfiguration() Configuration {
	return Configuration{
		Input:           projects.DefaultCanonicalPath,
		OutputDirectory: DefaultOutputDirectory,
		Workers:         workerpool.DefaultWorkerCount,
	}
}

// Sanitize fills unset values with defaults.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := Configuration{
		Input:           projects.SanitizePath(configuration.Input, projects.DefaultCanonicalPath),
		OutputDirectory: projects.SanitizePath(configuration.OutputDirectory, DefaultOutputDirectory),
		Workers:         configuration.Workers,
	}
	if sanitized.Workers <= 0 {
		sanitized.Workers = workerpool.DefaultWorkerCount
	}
	return sanitized
}
