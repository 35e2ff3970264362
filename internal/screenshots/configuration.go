package screenshots

import (
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/workerpool"
)

// DefaultOutputDirectory holds one PNG per project.
const DefaultOutputDirectory = "screenshots"

// Configuration stores settings for the screenshots step.
type Configuration struct {
	Input           string `mapstructure:"input"`
	OutputDirectory string `mapstructure:"output_dir"`
	Workers         int    `mapstructure:"workers"`
}

// DefaultConfiguration reads the canonical list and writes into screenshots/.
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
