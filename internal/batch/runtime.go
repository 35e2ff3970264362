package batch

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/impacteval/harvest/internal/browser"
	"github.com/impacteval/harvest/internal/ui"
	"github.com/impacteval/harvest/internal/utils"
)

// LauncherFactory builds the browser launcher used by a command run.
type LauncherFactory func(configuration browser.Configuration, logger *zap.Logger) browser.Launcher

// Runtime carries the collaborators every per-project command resolves at execution time.
type Runtime struct {
	LoggerProvider               func() *zap.Logger
	HumanReadableLoggingProvider func() bool
	BrowserConfigurationProvider func() browser.Configuration
	LauncherFactory              LauncherFactory
	ProgressWriter               io.Writer
}

// Logger returns the configured logger decorated with the run identifier, or a no-op logger.
func (runtime Runtime) Logger(executionContext context.Context) *zap.Logger {
	var logger *zap.Logger
	if runtime.LoggerProvider != nil {
		logger = runtime.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if executionContext == nil {
		return logger
	}
	return utils.NewCommandContextAccessor().DecorateLogger(executionContext, logger)
}

// Observer selects console or structured unit reporting.
func (runtime Runtime) Observer(logger *zap.Logger) ui.UnitEventObserver {
	humanReadable := false
	if runtime.HumanReadableLoggingProvider != nil {
		humanReadable = runtime.HumanReadableLoggingProvider()
	}
	return ui.NewUnitEventObserver(logger, humanReadable)
}

// BrowserConfiguration returns the sanitized browser settings.
func (runtime Runtime) BrowserConfiguration() browser.Configuration {
	configuration := browser.DefaultConfiguration()
	if runtime.BrowserConfigurationProvider != nil {
		configuration = runtime.BrowserConfigurationProvider()
	}
	return configuration.Sanitize()
}

// Launcher builds the launcher, defaulting to a go-rod backed Chrome.
func (runtime Runtime) Launcher(logger *zap.Logger) browser.Launcher {
	configuration := runtime.BrowserConfiguration()
	if runtime.LauncherFactory != nil {
		return runtime.LauncherFactory(configuration, logger)
	}
	return browser.NewRodLauncher(configuration, logger)
}

// Progress returns the writer progress bars render to.
func (runtime Runtime) Progress() io.Writer {
	if runtime.ProgressWriter != nil {
		return runtime.ProgressWriter
	}
	return os.Stderr
}
