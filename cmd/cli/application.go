package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/versionings/internal/browser"
	"github.com/temirov/versionings/internal/hosting"
	"github.com/temirov/versionings/internal/ui"
	"github.com/temirov/versionings/internal/utils"
	"github.com/temirov/versionings/internal/utils/flags"
	pathutils "github.com/temirov/versionings/internal/utils/path"
	"github.com/temirov/versionings/internal/versioning"
)

const (
	applicationNameConstant                 = "versionings"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Path to the project configuration file (JSON or YAML); defaults to version.json in the project directory."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagDescriptionConstant         = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagDescriptionConstant        = "Override the configured log format."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "VERSIONINGS"
	configurationNameConstant               = "version"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	configCommandUseConstant                = "config"
	configCommandShortDescriptionConstant   = "Print the effective configuration as YAML"
	configSourceHeaderTemplateConstant      = "# configuration file: %s\n"
	configSourceEmbeddedConstant            = "none (built-in defaults)"
	configRenderErrorTemplateConstant       = "unable to render configuration: %w"
	versionCommandUseConstant               = "version"
	versionCommandShortDescriptionConstant  = "Print the versionings version"
	versionOutputTemplateConstant           = "%s version: %s\n"
	developmentVersionConstant              = "development"
	moduleDevelopmentVersionConstant        = "(devel)"
	failureExitCodeConstant                 = 1
)

// buildVersion is injected at link time with -ldflags "-X github.com/temirov/versionings/cmd/cli.buildVersion=v1.2.3".
var buildVersion string

// ApplicationConfiguration mirrors version.json together with the CLI-only common settings.
type ApplicationConfiguration struct {
	Common  ApplicationCommonConfiguration  `mapstructure:"common" yaml:"common"`
	Git     versioning.GitConfiguration     `mapstructure:"git" yaml:"git"`
	Package versioning.PackageConfiguration `mapstructure:"package" yaml:"package"`
}

// ApplicationCommonConfiguration stores logging, exit policy, project title, and user-facing messages.
type ApplicationCommonConfiguration struct {
	LogLevel          string                          `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string                          `mapstructure:"log_format" yaml:"log_format"`
	ZeroExitOnFailure bool                            `mapstructure:"zero_exit_on_failure" yaml:"zero_exit_on_failure"`
	Project           versioning.ProjectConfiguration `mapstructure:"project" yaml:"project"`
	Messages          versioning.Messages             `mapstructure:"messages" yaml:"messages"`
}

// Versioning extracts the configuration consumed by the version bump pipeline.
func (configuration ApplicationConfiguration) Versioning() versioning.Configuration {
	return versioning.Configuration{
		Project:  configuration.Common.Project,
		Messages: configuration.Common.Messages,
		Git:      configuration.Git,
		Package:  configuration.Package,
	}
}

func (configuration ApplicationConfiguration) withVersioning(versioningConfiguration versioning.Configuration) ApplicationConfiguration {
	updated := configuration
	updated.Common.Project = versioningConfiguration.Project
	updated.Common.Messages = versioningConfiguration.Messages
	updated.Git = versioningConfiguration.Git
	updated.Package = versioningConfiguration.Package
	return updated
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	workingDirectory       string
	commandContextAccessor utils.CommandContextAccessor
	pathResolver           *pathutils.ProjectDirectoryResolver
	versionResolver        func(context.Context) string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	application := &Application{
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		pathResolver:           pathutils.NewProjectDirectoryResolver(nil),
		versionResolver:        resolveBuildVersion,
	}
	if workingDirectory, workingDirectoryError := os.Getwd(); workingDirectoryError == nil {
		application.workingDirectory = workingDirectory
	}

	versionBuilder := versioning.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() versioning.Configuration {
			return application.configuration.Versioning()
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ColorProvider:                application.colorEnabled,
		WorkingDirectory:             application.workingDirectory,
	}
	rootCommand, buildError := versionBuilder.Build()
	if buildError != nil {
		rootCommand = &cobra.Command{Use: applicationNameConstant}
	}

	rootCommand.SilenceUsage = true
	rootCommand.SilenceErrors = true
	rootCommand.PersistentPreRunE = func(command *cobra.Command, arguments []string) error {
		return application.initializeConfiguration(command)
	}
	rootCommand.SetContext(context.Background())
	rootCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flags.FormatChoiceUsage("", logLevelChoices(), logLevelFlagDescriptionConstant))
	rootCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flags.FormatChoiceUsage("", logFormatChoices(), logFormatFlagDescriptionConstant))

	rootCommand.AddCommand(
		&cobra.Command{
			Use:   configCommandUseConstant,
			Short: configCommandShortDescriptionConstant,
			Args:  cobra.NoArgs,
			RunE:  application.runConfigCommand,
		},
		&cobra.Command{
			Use:   versionCommandUseConstant,
			Short: versionCommandShortDescriptionConstant,
			Args:  cobra.NoArgs,
			RunE:  application.runVersionCommand,
		},
	)

	application.rootCommand = rootCommand
	return application
}

// Execute runs the command hierarchy with the process arguments.
func (application *Application) Execute() error {
	return application.ExecuteWithArguments(os.Args[1:])
}

// ExecuteWithArguments runs the command hierarchy until completion or until SIGINT/SIGTERM cancels it, then flushes the logger.
func (application *Application) ExecuteWithArguments(arguments []string) error {
	executionContext, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	application.rootCommand.SetArgs(flags.NormalizeToggleArguments(arguments))
	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Run executes the application, reports a failure as a single status line, and returns the process exit code.
func (application *Application) Run(arguments []string) int {
	executionError := application.ExecuteWithArguments(arguments)
	if executionError == nil {
		return 0
	}
	application.ReportFailure(executionError)
	return application.ExitCode(executionError)
}

// ReportFailure prints the user-facing failure line: yellow for repository state problems, red otherwise.
func (application *Application) ReportFailure(failure error) {
	if failure == nil {
		return
	}
	category, message := versioning.DescribeFailure(failure)
	tone := ui.ToneFailure
	if category == versioning.ErrorCategoryRepositoryState {
		tone = ui.ToneWarning
	}
	reporter := ui.NewStatusReporter(application.rootCommand.OutOrStdout(), application.colorEnabled())
	if reportError := reporter.ReportLine(tone, message); reportError != nil {
		fmt.Fprintln(application.rootCommand.ErrOrStderr(), message)
	}
}

// ExitCode maps an execution outcome to the process exit status. common.zero_exit_on_failure forces 0.
func (application *Application) ExitCode(failure error) int {
	if failure == nil || application.configuration.Common.ZeroExitOnFailure {
		return 0
	}
	return failureExitCodeConstant
}

// Execute builds a fresh application instance and runs it with the process arguments.
// Browser launcher output goes to stderr for the whole process.
func Execute() int {
	browser.RedirectLauncherOutput(os.Stderr)
	return NewApplication().Run(os.Args[1:])
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	projectDirectory := application.pathResolver.Resolve(versioning.ResolveProjectDirectory(command, application.workingDirectory))
	configurationLoader := utils.NewConfigurationLoader(configurationNameConstant, "", environmentPrefixConstant, []string{projectDirectory})
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())
	configurationLoader.AddDecodeHook(hosting.StringToPlatformHookFunc())
	configurationLoader.RequireConfigurationFile(command == nil || command == command.Root())

	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}

	configurationFilePath := strings.TrimSpace(application.configurationFilePath)
	if len(configurationFilePath) > 0 {
		configurationFilePath = application.pathResolver.Resolve(configurationFilePath)
	}

	loadedConfiguration, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return versioning.NewConfigurationError(application.configuration.Common.Messages, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, loadedConfiguration.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithLoadedConfiguration(command.Context(), loadedConfiguration)
		command.SetContext(updatedContext)
	}

	return nil
}

func (application *Application) runConfigCommand(command *cobra.Command, arguments []string) error {
	loadedConfiguration, _ := application.commandContextAccessor.LoadedConfiguration(command.Context())

	sanitizedConfiguration := application.configuration.Versioning().Sanitize()
	if len(loadedConfiguration.ConfigFileUsed) > 0 {
		if validationError := sanitizedConfiguration.Validate(); validationError != nil {
			return versioning.NewConfigurationError(sanitizedConfiguration.Messages, validationError)
		}
	}

	renderedConfiguration, renderError := yaml.Marshal(application.configuration.withVersioning(sanitizedConfiguration))
	if renderError != nil {
		return fmt.Errorf(configRenderErrorTemplateConstant, renderError)
	}

	configurationSource := configSourceEmbeddedConstant
	if len(loadedConfiguration.ConfigFileUsed) > 0 {
		configurationSource = loadedConfiguration.ConfigFileUsed
	}

	output := command.OutOrStdout()
	if _, writeError := fmt.Fprintf(output, configSourceHeaderTemplateConstant, configurationSource); writeError != nil {
		return writeError
	}
	_, writeError := output.Write(renderedConfiguration)
	return writeError
}

func (application *Application) runVersionCommand(command *cobra.Command, arguments []string) error {
	_, writeError := fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, applicationNameConstant, application.versionResolver(command.Context()))
	return writeError
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

// colorEnabled allows ANSI colors only when status lines go to a terminal stdout.
func (application *Application) colorEnabled() bool {
	if application.rootCommand == nil || color.NoColor {
		return false
	}
	output, isFile := application.rootCommand.OutOrStdout().(*os.File)
	return isFile && output == os.Stdout
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

func resolveBuildVersion(context.Context) string {
	if len(buildVersion) > 0 {
		return buildVersion
	}
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(buildInformation.Main.Version) == 0 || buildInformation.Main.Version == moduleDevelopmentVersionConstant {
		return developmentVersionConstant
	}
	return buildInformation.Main.Version
}

func logLevelChoices() []string {
	return []string{
		string(utils.LogLevelDebug),
		string(utils.LogLevelInfo),
		string(utils.LogLevelWarn),
		string(utils.LogLevelError),
	}
}

func logFormatChoices() []string {
	return []string{string(utils.LogFormatStructured), string(utils.LogFormatConsole)}
}
