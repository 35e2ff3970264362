package projects_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/impacteval/harvest/internal/projects"
)

func TestMergeCommandHonorsConfigurationAndFlags(testInstance *testing.T) {
	testCases := []struct {
		name             string
		useFlagOutput    bool
		expectedFileName string
	}{
		{name: "configuration_output", useFlagOutput: false, expectedFileName: "configured.csv"},
		{name: "flag_output_overrides", useFlagOutput: true, expectedFileName: "flagged.csv"},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(mergeSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			workingDirectory := testInstance.TempDir()
			directoryPath := filepath.Join(workingDirectory, "directory.csv")
			partnerPath := filepath.Join(workingDirectory, "partner.csv")
			require.NoError(testInstance, os.WriteFile(directoryPath, []byte(directoryExportFixtureConstant), 0o600))
			require.NoError(testInstance, os.WriteFile(partnerPath, []byte(partnerExportFixtureConstant), 0o600))

			builder := projects.CommandBuilder{
				ConfigurationProvider: func() projects.MergeConfiguration {
					return projects.MergeConfiguration{
						DirectoryInput: directoryPath,
						PartnerInput:   partnerPath,
						Output:         filepath.Join(workingDirectory, "configured.csv"),
					}
				},
			}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			arguments := []string{}
			if testCase.useFlagOutput {
				arguments = append(arguments, "--output", filepath.Join(workingDirectory, "flagged.csv"))
			}
			var outputBuffer bytes.Buffer
			command.SetOut(&outputBuffer)
			command.SetArgs(arguments)
			command.SetContext(context.Background())

			require.NoError(testInstance, command.Execute())

			mergedRecords, readError := projects.ReadCanonical(filepath.Join(workingDirectory, testCase.expectedFileName))
			require.NoError(testInstance, readError)
			// the canonical reader treats the literal NA name as absent
			require.Equal(testInstance, []string{"Alpha", "", "Gamma", ""}, recordNames(mergedRecords))
			require.Contains(testInstance, outputBuffer.String(), "into 4 projects")
		})
	}
}

func TestMergeCommandRejectsArgumentsAndMissingInput(testInstance *testing.T) {
	builder := projects.CommandBuilder{
		ConfigurationProvider: func() projects.MergeConfiguration {
			return projects.MergeConfiguration{DirectoryInput: filepath.Join(testInstance.TempDir(), "absent.csv")}
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})

	command.SetArgs([]string{"unexpected"})
	require.Error(testInstance, command.Execute())

	runError := builder.RunConfigured(context.Background(), nil)
	require.Error(testInstance, runError)
	require.Contains(testInstance, runError.Error(), "merge failed")
}

func recordNames(records []projects.Record) []string {
	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, record.Name)
	}
	return names
}
