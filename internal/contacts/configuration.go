package contacts

import (
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/workerpool"
)

// DefaultOutputPath is the contact list written by the contacts step.
const DefaultOutputPath = "resources/contact_info.csv"

// Configuration stores settings for the contacts step.
type Configuration struct {
	Input   string `mapstructure:"input"`
	Output  string `mapstructure:"output"`
	Workers int    `mapstructure:"workers"`
}

// DefaultConfiguration reads the canonical list and appends to resources/contact_info.csv with five workers.
func DefaultConfiguration() Configuration {
	return Configuration{
		Input:   projects.DefaultCanonicalPath,
		Output:  DefaultOutputPath,
		Workers: workerpool.DefaultWorkerCount,
	}
}

// Sanitize fills unset values with defaults.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := Configuration{
		Input:   projects.SanitizePath(configuration.Input, projects.DefaultCanonicalPath),
		Output:  projects.SanitizePath(configuration.Output, DefaultOutputPath),
		Workers: configuration.Workers,
	}
	if sanitized.Workers <= 0 {
		sanitized.Workers = workerpool.DefaultWorkerCount
	}
	return sanitized
}
