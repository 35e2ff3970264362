package utils

import (
	"strings"

	"github.com/spf13/cobra"
)

// StringFlagOrConfiguration returns the trimmed flag value when the flag was set, else the trimmed configured value.
func StringFlagOrConfiguration(command *cobra.Command, flagName string, configuredValue string) (string, error) {
	if command == nil || !command.Flags().Changed(flagName) {
		return strings.TrimSpace(configuredValue), nil
	}
	flagValue, flagError := command.Flags().GetString(flagName)
	if flagError != nil {
		return "", flagError
	}
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) == 0 {
		return strings.TrimSpace(configuredValue), nil
	}
	return trimmedFlagValue, nil
}

// IntFlagOrConfiguration returns the flag value when the flag was set, else the configured value.
func IntFlagOrConfiguration(command *cobra.Command, flagName string, configuredValue int) (int, error) {
	if command == nil || !command.Flags().Changed(flagName) {
		return configuredValue, nil
	}
	return command.Flags().GetInt(flagName)
}

// BoolFlagOrConfiguration returns the flag value when the flag was set, else the configured value.
func BoolFlagOrConfiguration(command *cobra.Command, flagName string, configuredValue bool) (bool, error) {
	if command == nil || !command.Flags().Changed(flagName) {
		return configuredValue, nil
	}
	return command.Flags().GetBool(flagName)
}
