package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/impacteval/harvest/internal/projects"
)

const (
	outputDirectoryPermissionsConstant = 0o755
	outputFilePermissionsConstant      = 0o644
	outputDirectoryErrorTemplate       = "unable to create directory %s: %w"
	outputWriteErrorTemplateConstant   = "unable to write %s: %w"
)

// OutputPath returns the per-project file path for the record's file stem.
func OutputPath(directory string, projectName string, extension string) string {
	return filepath.Join(directory, projects.FileStem(projectName)+extension)
}

// WriteOutput writes data to the per-project file, creating the directory when needed.
func WriteOutput(directory string, projectName string, extension string, data []byte) (string, error) {
	if directoryError := os.MkdirAll(directory, outputDirectoryPermissionsConstant); directoryError != nil {
		return "", fmt.Errorf(outputDirectoryErrorTemplate, directory, directoryError)
	}
	outputPath := OutputPath(directory, projectName, extension)
	if writeError := os.WriteFile(outputPath, data, outputFilePermissionsConstant); writeError != nil {
		return "", fmt.Errorf(outputWriteErrorTemplateConstant, outputPath, writeError)
	}
	return outputPath, nil
}
