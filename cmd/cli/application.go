package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/impacteval/harvest/internal/batch"
	"github.com/impacteval/harvest/internal/browser"
	"github.com/impacteval/harvest/internal/contacts"
	"github.com/impacteval/harvest/internal/directory"
	"github.com/impacteval/harvest/internal/info"
	"github.com/impacteval/harvest/internal/pipeline"
	"github.com/impacteval/harvest/internal/projects"
	"github.com/impacteval/harvest/internal/screenshots"
	"github.com/impacteval/harvest/internal/summaries"
	"github.com/impacteval/harvest/internal/utils"
	"github.com/impacteval/harvest/internal/wiki"
)

const (
	applicationNameConstant                 = "harvest"
	applicationShortDescriptionConstant     = "Collect, enrich, and publish impact project data"
	applicationLongDescriptionConstant      = "harvest scrapes the project directory, merges it with the partner export, visits every project website for contacts, text, and screenshots, summarizes the collected text with a language model, and publishes the summaries as wiki articles."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "HARVEST"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	environmentFileLoadedMessageConstant    = "environment file loaded"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	environmentFileFieldConstant            = "env_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	environmentFileErrorTemplateConstant    = "unable to load environment file %s: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandInfoMessageConstant          = "harvest CLI executed"
	rootCommandDebugMessageConstant         = "harvest CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	commandBuildErrorTemplateConstant       = "unable to build %s command: %w"
)

// Version is the reported CLI version; release builds override it with -ldflags.
var Version = "dev"

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores settings shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	EnvFile   string `mapstructure:"env_file"`
}

// ApplicationToolsConfiguration holds the browser settings and one section per step.
type ApplicationToolsConfiguration struct {
	Browser     browser.Configuration       `mapstructure:"browser"`
	Merge       projects.MergeConfiguration `mapstructure:"merge"`
	Directory   directory.Configuration     `mapstructure:"directory"`
	Contacts    contacts.Configuration      `mapstructure:"contacts"`
	Info        info.Configuration          `mapstructure:"info"`
	Screenshots screenshots.Configuration   `mapstructure:"screenshots"`
	Summaries   summaries.Configuration     `mapstructure:"summaries"`
	Wiki        wiki.Configuration          `mapstructure:"wiki"`
	Pipeline    pipeline.Configuration      `mapstructure:"pipeline"`
}

type commandBuilder interface {
	Build() (*cobra.Command, error)
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
	pipelineRegistry       pipeline.Registry
	runIdentifierProvider  func() string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		utils.ApplicationSearchPaths(applicationNameConstant),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		runIdentifierProvider:  uuid.NewString,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	runtime := batch.Runtime{
		LoggerProvider:               application.currentLogger,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		BrowserConfigurationProvider: func() browser.Configuration {
			return application.configuration.Tools.Browser
		},
	}

	mergeBuilder := &projects.CommandBuilder{
		LoggerProvider: application.currentLogger,
		ConfigurationProvider: func() projects.MergeConfiguration {
			return application.configuration.Tools.Merge
		},
	}
	directoryBuilder := &directory.CommandBuilder{
		Runtime: runtime,
		ConfigurationProvider: func() directory.Configuration {
			return application.configuration.Tools.Directory
		},
	}
	contactsBuilder := &contacts.CommandBuilder{
		Runtime: runtime,
		ConfigurationProvider: func() contacts.Configuration {
			return application.configuration.Tools.Contacts
		},
	}
	infoBuilder := &info.CommandBuilder{
		Runtime: runtime,
		ConfigurationProvider: func() info.Configuration {
			return application.configuration.Tools.Info
		},
	}
	screenshotsBuilder := &screenshots.CommandBuilder{
		Runtime: runtime,
		ConfigurationProvider: func() screenshots.Configuration {
			return application.configuration.Tools.Screenshots
		},
	}
	summariesBuilder := &summaries.CommandBuilder{
		Runtime: runtime,
		ConfigurationProvider: func() summaries.Configuration {
			return application.configuration.Tools.Summaries
		},
	}
	wikiBuilder := &wiki.CommandBuilder{
		Runtime: runtime,
		ConfigurationProvider: func() wiki.Configuration {
			return application.configuration.Tools.Wiki
		},
	}
	pipelineBuilder := &pipeline.CommandBuilder{
		LoggerProvider: application.currentLogger,
		ConfigurationProvider: func() pipeline.Configuration {
			return application.configuration.Tools.Pipeline
		},
		RegistryProvider: func() pipeline.Registry {
			return application.pipelineRegistry
		},
	}

	builders := []commandBuilder{
		mergeBuilder,
		directoryBuilder,
		contactsBuilder,
		infoBuilder,
		screenshotsBuilder,
		summariesBuilder,
		wikiBuilder,
		pipelineBuilder,
	}
	stepRunners := map[commandBuilder]pipeline.StepRunner{
		mergeBuilder:       mergeBuilder.RunConfigured,
		directoryBuilder:   directoryBuilder.RunConfigured,
		contactsBuilder:    contactsBuilder.RunConfigured,
		infoBuilder:        infoBuilder.RunConfigured,
		screenshotsBuilder: screenshotsBuilder.RunConfigured,
		summariesBuilder:   summariesBuilder.RunConfigured,
		wikiBuilder:        wikiBuilder.RunConfigured,
	}

	application.pipelineRegistry = pipeline.Registry{}
	for _, builder := range builders {
		subcommand, buildError := builder.Build()
		if buildError != nil {
			cobraCommand.PrintErrln(fmt.Errorf(commandBuildErrorTemplateConstant, fmt.Sprintf("%T", builder), buildError))
			continue
		}
		cobraCommand.AddCommand(subcommand)
		if stepRunner, runsInPipeline := stepRunners[builder]; runsInPipeline {
			application.pipelineRegistry[subcommand.Name()] = stepRunner
		}
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return errors.Join(executionError, fmt.Errorf(loggerSyncErrorTemplateConstant, syncError))
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.ParseLogLevel(application.configuration.Common.LogLevel),
		utils.ParseLogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	environmentFileLoaded, environmentFileError := loadEnvironmentFile(application.configuration.Common.EnvFile)
	if environmentFileError != nil {
		return environmentFileError
	}
	if environmentFileLoaded {
		application.logger.Debug(environmentFileLoadedMessageConstant, zap.String(environmentFileFieldConstant, application.configuration.Common.EnvFile))
	}

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithRunIdentifier(updatedContext, application.runIdentifierProvider())
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// loadEnvironmentFile exports variables from the file without replacing ones already set. A missing file is ignored.
func loadEnvironmentFile(environmentFilePath string) (bool, error) {
	trimmedPath := strings.TrimSpace(environmentFilePath)
	if len(trimmedPath) == 0 {
		return false, nil
	}
	loadError := gotenv.Load(trimmedPath)
	switch {
	case loadError == nil:
		return true, nil
	case errors.Is(loadError, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf(environmentFileErrorTemplateConstant, trimmedPath, loadError)
	}
}

func (application *Application) currentLogger() *zap.Logger {
	return application.logger
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	return command.Help()
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

// SetOutput redirects command output, primarily for tests.
func (application *Application) SetOutput(outputWriter io.Writer) {
	application.rootCommand.SetOut(outputWriter)
	application.rootCommand.SetErr(outputWriter)
}

// SetArguments overrides the arguments parsed by Execute.
func (application *Application) SetArguments(arguments []string) {
	application.rootCommand.SetArgs(arguments)
}
