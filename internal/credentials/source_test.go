package credentials_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/impacteval/harvest/internal/credentials"
)

const (
	credentialsSubtestNameTemplateConstant = "%d_%s"
	testEnvironmentVariableNameConstant    = "HARVEST_TEST_API_KEY"
	testSecretValueConstant                = "sk-test-secret"
)

func TestParseSource(testInstance *testing.T) {
	testCases := []struct {
		name           string
		sourceValue    string
		expectedSource credentials.Source
		expectError    bool
	}{
		{name: "environment_prefix", sourceValue: "env:OPENAI_API_KEY", expectedSource: credentials.Source{Type: credentials.SourceTypeEnvironment, Reference: "OPENAI_API_KEY"}},
		{name: "bare_environment_name", sourceValue: " OPENAI_API_KEY ", expectedSource: credentials.Source{Type: credentials.SourceTypeEnvironment, Reference: "OPENAI_API_KEY"}},
		{name: "file_prefix", sourceValue: "FILE:/run/secrets/key", expectedSource: credentials.Source{Type: credentials.SourceTypeFile, Reference: "/run/secrets/key"}},
		{name: "empty_value", sourceValue: "  ", expectError: true},
		{name: "missing_environment_name", sourceValue: "env:", expectError: true},
		{name: "missing_file_path", sourceValue: "file: ", expectError: true},
		{name: "unsupported_type", sourceValue: "vault:secret/key", expectError: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(credentialsSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			parsedSource, parseError := credentials.ParseSource(testCase.sourceValue)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedSource, parsedSource)
		})
	}
}

func TestResolverResolve(testInstance *testing.T) {
	secretDirectory := testInstance.TempDir()
	secretFilePath := filepath.Join(secretDirectory, "secret.txt")
	require.NoError(testInstance, os.WriteFile(secretFilePath, []byte(testSecretValueConstant+"\n"), 0o600))
	emptyFilePath := filepath.Join(secretDirectory, "empty.txt")
	require.NoError(testInstance, os.WriteFile(emptyFilePath, []byte("  \n"), 0o600))

	environmentLookup := func(key string) (string, bool) {
		switch key {
		case testEnvironmentVariableNameConstant:
			return " " + testSecretValueConstant + " ", true
		case "HARVEST_BLANK":
			return " ", true
		default:
			return "", false
		}
	}

	testCases := []struct {
		name          string
		sourceValue   string
		expectedValue string
		expectError   bool
	}{
		{name: "environment_value", sourceValue: "env:" + testEnvironmentVariableNameConstant, expectedValue: testSecretValueConstant},
		{name: "environment_missing", sourceValue: "env:HARVEST_MISSING", expectError: true},
		{name: "environment_blank", sourceValue: "env:HARVEST_BLANK", expectError: true},
		{name: "file_value", sourceValue: "file:" + secretFilePath, expectedValue: testSecretValueConstant},
		{name: "file_empty", sourceValue: "file:" + emptyFilePath, expectError: true},
		{name: "file_missing", sourceValue: "file:" + filepath.Join(secretDirectory, "absent.txt"), expectError: true},
	}

	resolver := credentials.NewResolver(environmentLookup, nil)
	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(credentialsSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			resolvedValue, resolveError := credentials.ResolveValue(context.Background(), resolver, testCase.sourceValue)
			if testCase.expectError {
				require.Error(testInstance, resolveError)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedValue, resolvedValue)
		})
	}
}

func TestResolverHonorsCancelledContext(testInstance *testing.T) {
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := credentials.NewResolver(func(string) (string, bool) { return testSecretValueConstant, true }, nil)
	_, resolveError := resolver.Resolve(cancelledContext, credentials.Source{Type: credentials.SourceTypeEnvironment, Reference: testEnvironmentVariableNameConstant})
	require.True(testInstance, errors.Is(resolveError, context.Canceled))
}

func TestSourceString(testInstance *testing.T) {
	require.Equal(testInstance, "env:OPENAI_API_KEY", credentials.Source{Type: credentials.SourceTypeEnvironment, Reference: "OPENAI_API_KEY"}.String())
}
