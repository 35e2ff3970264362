package projects

import (
	"strings"

	pathutils "github.com/impacteval/harvest/internal/utils/path"
)

const (
	// DefaultDirectoryExportPath is where the directory scrape writes its listings.
	DefaultDirectoryExportPath = "resources/carboncopy_projects.csv"
	// DefaultPartnerExportPath is the partner CSV export consumed by merge.
	DefaultPartnerExportPath = "resources/PositiveBlockchain_data.csv"
	// DefaultCanonicalPath is the merged project list consumed by every downstream step.
	DefaultCanonicalPath = "resources/mixed_data.csv"
)

var configurationHomeDirectoryExpander = pathutils.NewHomeExpander()

// MergeConfiguration stores the file locations used by the merge step.
type MergeConfiguration struct {
	DirectoryInput string `mapstructure:"directory_input"`
	PartnerInput   string `mapstructure:"partner_input"`
	Output         string `mapstructure:"output"`
}

// DefaultMergeConfiguration returns the conventional resources/ layout.
func DefaultMergeConfiguration() MergeConfiguration {
	return MergeConfiguration{
		DirectoryInput: DefaultDirectoryExportPath,
		PartnerInput:   DefaultPartnerExportPath,
		Output:         DefaultCanonicalPath,
	}
}

// Sanitize trims paths, expands home shortcuts, and fills unset values with defaults.
func (configuration MergeConfiguration) Sanitize() MergeConfiguration {
	defaults := DefaultMergeConfiguration()
	return MergeConfiguration{
		DirectoryInput: SanitizePath(configuration.DirectoryInput, defaults.DirectoryInput),
		PartnerInput:   SanitizePath(configuration.PartnerInput, defaults.PartnerInput),
		Output:         SanitizePath(configuration.Output, defaults.Output),
	}
}

// SanitizePath trims a configured path, expands a leading tilde, and falls back to the default when empty.
func SanitizePath(configuredPath string, defaultPath string) string {
	trimmedPath := strings.TrimSpace(configuredPath)
	if len(trimmedPath) == 0 {
		trimmedPath = defaultPath
	}
	return configurationHomeDirectoryExpander.Expand(trimmedPath)
}
