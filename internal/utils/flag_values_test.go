package utils_test

import (
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/impacteval/harvest/internal/utils"
)

const (
	flagValuesSubtestNameTemplateConstant = "%d_%s"
	testOutputFlagNameConstant            = "output"
	testWorkersFlagNameConstant           = "workers"
	testDryRunFlagNameConstant            = "dry-run"
)

func newFlagTestCommand() *cobra.Command {
	command := &cobra.Command{Use: "flag-test"}
	command.Flags().String(testOutputFlagNameConstant, "", "")
	command.Flags().Int(testWorkersFlagNameConstant, 0, "")
	command.Flags().Bool(testDryRunFlagNameConstant, false, "")
	return command
}

func TestFlagOrConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedOutput  string
		expectedWorkers int
		expectedDryRun  bool
	}{
		{
			name:            "configuration_values",
			arguments:       []string{},
			expectedOutput:  "configured.csv",
			expectedWorkers: 5,
			expectedDryRun:  true,
		},
		{
			name:            "flag_values_override",
			arguments:       []string{"--output", " flagged.csv ", "--workers", "2", "--dry-run=false"},
			expectedOutput:  "flagged.csv",
			expectedWorkers: 2,
			expectedDryRun:  false,
		},
		{
			name:            "blank_string_flag_falls_back",
			arguments:       []string{"--output", "  "},
			expectedOutput:  "configured.csv",
			expectedWorkers: 5,
			expectedDryRun:  true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(flagValuesSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			command := newFlagTestCommand()
			require.NoError(testInstance, command.ParseFlags(testCase.arguments))

			outputValue, outputError := utils.StringFlagOrConfiguration(command, testOutputFlagNameConstant, " configured.csv ")
			require.NoError(testInstance, outputError)
			require.Equal(testInstance, testCase.expectedOutput, outputValue)

			workersValue, workersError := utils.IntFlagOrConfiguration(command, testWorkersFlagNameConstant, 5)
			require.NoError(testInstance, workersError)
			require.Equal(testInstance, testCase.expectedWorkers, workersValue)

			dryRunValue, dryRunError := utils.BoolFlagOrConfiguration(command, testDryRunFlagNameConstant, true)
			require.NoError(testInstance, dryRunError)
			require.Equal(testInstance, testCase.expectedDryRun, dryRunValue)
		})
	}
}
