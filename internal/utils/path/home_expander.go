package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	homeShortcutConstant      = "~"
	environmentMarkerConstant = "$"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// EnvironmentLookup returns the value of an environment variable.
type EnvironmentLookup func(name string) (string, bool)

// HomeExpander rewrites configured file locations such as "~/harvest/info"
// or "$DATA_ROOT/summaries" into usable paths.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	environmentLookup     EnvironmentLookup
	homeDirectoryOnce     sync.Once
	homeDirectory         string
}

// NewHomeExpander expands against the real home directory and process environment.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider expands against the provided home directory lookup.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider, environmentLookup: os.LookupEnv}
}

// WithEnvironment returns a copy that resolves variables through lookup.
func (expander *HomeExpander) WithEnvironment(lookup EnvironmentLookup) *HomeExpander {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &HomeExpander{homeDirectoryProvider: expander.homeDirectoryProvider, environmentLookup: lookup}
}

// Expand substitutes environment variables and then a leading "~" or "~/" prefix.
// Unset variables and an unknown home directory leave the text unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || len(candidatePath) == 0 {
		return candidatePath
	}

	expandedPath := candidatePath
	if strings.Contains(expandedPath, environmentMarkerConstant) {
		expandedPath = os.Expand(expandedPath, expander.lookupOrKeep)
	}

	if !strings.HasPrefix(expandedPath, homeShortcutConstant) {
		return expandedPath
	}
	remainder := expandedPath[len(homeShortcutConstant):]
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		// ~user forms are not supported
		return expandedPath
	}

	homeDirectory := expander.home()
	if len(homeDirectory) == 0 {
		return expandedPath
	}
	return filepath.Join(homeDirectory, remainder)
}

func (expander *HomeExpander) lookupOrKeep(variableName string) string {
	if value, found := expander.environmentLookup(variableName); found {
		return value
	}
	return environmentMarkerConstant + variableName
}

func (expander *HomeExpander) home() string {
	expander.homeDirectoryOnce.Do(func() {
		resolvedHome, homeError := expander.homeDirectoryProvider()
		if homeError == nil {
			expander.homeDirectory = resolvedHome
		}
	})
	return expander.homeDirectory
}
