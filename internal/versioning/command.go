package versioning

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/versionings/internal/browser"
	"github.com/temirov/versionings/internal/execshell"
	"github.com/temirov/versionings/internal/gitrepo"
	"github.com/temirov/versionings/internal/packagemanager"
	"github.com/temirov/versionings/internal/semverkind"
	"github.com/temirov/versionings/internal/ui"
	"github.com/temirov/versionings/internal/utils/flags"
	pathutils "github.com/temirov/versionings/internal/utils/path"
)

const (
	commandUseConstant               = "versionings"
	commandShortDescriptionConstant  = "Bump the project version on a dedicated branch"
	commandLongDescriptionConstant   = "versionings bumps the package version, commits it on a version branch with an annotated tag, and optionally pushes the branch and opens a pull request."
	commandExampleConstant           = "  versionings --semver=patch --branch=fix-login\n  versionings --semver=prerelease --preid=beta --branch=checkout-redesign --push"
	flagSemverNameConstant           = "semver"
	flagSemverDescriptionConstant    = "Semantic version kind to bump"
	flagBranchNameConstant           = "branch"
	flagBranchDescriptionConstant    = "Comment appended to the version branch and tag names"
	flagPushNameConstant             = "push"
	flagPushDescriptionConstant      = "Push the version branch with its tag and open a pull request"
	flagPreidNameConstant            = "preid"
	flagPreidDescriptionConstant     = "Prerelease identifier forwarded for pre* kinds"
	flagDirectoryNameConstant        = "directory"
	flagDirectoryDescriptionConstant = "Project directory containing the package manifest (defaults to the working directory)"
	resolveDirectoryStepNameConstant = "resolve-project-directory"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the loaded configuration.
type ConfigurationProvider func() Configuration

// CommandExecutor runs git and package manager commands.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecutePackageManager(executionContext context.Context, managerName execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CommandBuilder assembles the Cobra command that performs version bumps.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	ColorProvider                func() bool
	Executor                     CommandExecutor
	Browser                      BrowserOpener
	WorkingDirectory             string
}

// Build constructs the version bump command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.run,
	}

	command.Flags().String(flagSemverNameConstant, "", flags.FormatChoiceUsage("", semverkind.Names(), flagSemverDescriptionConstant))
	command.Flags().String(flagBranchNameConstant, "", flagBranchDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), nil, flagPushNameConstant, false, flagPushDescriptionConstant)
	command.Flags().String(flagPreidNameConstant, "", flagPreidDescriptionConstant)
	command.Flags().String(flagDirectoryNameConstant, "", flagDirectoryDescriptionConstant)
	command.SetFlagErrorFunc(builder.flagError)

	return command, nil
}

// flagError reports a bare --semver or --branch with the same input message as an omitted flag.
func (builder *CommandBuilder) flagError(_ *cobra.Command, parseError error) error {
	var valueRequiredError *pflag.ValueRequiredError
	if !errors.As(parseError, &valueRequiredError) || valueRequiredError.GetFlag() == nil {
		return parseError
	}

	messages := builder.resolveConfiguration().Messages
	switch valueRequiredError.GetFlag().Name {
	case flagSemverNameConstant:
		return OperationError{Category: ErrorCategoryInput, Step: validateSemanticVersionStepNameConstant, Message: messages.UnavailableSemanticVersion, Cause: parseError}
	case flagBranchNameConstant:
		return OperationError{Category: ErrorCategoryInput, Step: validateCommentStepNameConstant, Message: messages.UndefinedVersionBranchName, Cause: parseError}
	default:
		return parseError
	}
}

// ResolveProjectDirectory returns the directory selected with --directory, falling back to fallback.
func ResolveProjectDirectory(command *cobra.Command, fallback string) string {
	if command != nil {
		if directoryFlag := command.Flags().Lookup(flagDirectoryNameConstant); directoryFlag != nil {
			if trimmedDirectory := strings.TrimSpace(directoryFlag.Value.String()); len(trimmedDirectory) > 0 {
				return trimmedDirectory
			}
		}
	}
	if trimmedFallback := strings.TrimSpace(fallback); len(trimmedFallback) > 0 {
		return trimmedFallback
	}
	return currentDirectoryConstant
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()

	configuration := builder.resolveConfiguration()
	if validationError := configuration.Validate(); validationError != nil {
		return NewConfigurationError(configuration.Messages, validationError)
	}

	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return OperationError{Category: ErrorCategoryRepositoryState, Step: resolveDirectoryStepNameConstant, Message: configuration.Messages.UnavailableVersioningDirectory, Cause: optionsError}
	}

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	dependencies, dependenciesError := builder.buildDependencies(configuration, logger, executor)
	if dependenciesError != nil {
		return dependenciesError
	}

	service, serviceError := NewService(configuration, dependencies)
	if serviceError != nil {
		return serviceError
	}

	result, bumpError := service.Bump(command.Context(), options)
	if bumpError != nil {
		return bumpError
	}

	reporter := ui.NewStatusReporter(command.OutOrStdout(), builder.colorEnabled())
	return reporter.ReportSummary(ui.VersionSummary{
		ProjectTitle:    result.ProjectTitle,
		Version:         result.Version,
		Branch:          result.Branch,
		Tag:             result.Tag,
		SemanticVersion: result.Kind,
		PullRequestURL:  result.PullRequestURL,
		Pushed:          result.Pushed,
	})
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, error) {
	kindValue, _ := command.Flags().GetString(flagSemverNameConstant)
	commentValue, _ := command.Flags().GetString(flagBranchNameConstant)
	pushValue, _ := command.Flags().GetBool(flagPushNameConstant)
	preidValue, _ := command.Flags().GetString(flagPreidNameConstant)

	repositoryPath, resolveError := pathutils.NewProjectDirectoryResolver(nil).ResolveExisting(ResolveProjectDirectory(command, builder.WorkingDirectory))
	if resolveError != nil {
		return Options{}, resolveError
	}

	return Options{
		Kind:                 kindValue,
		Comment:              commentValue,
		Push:                 pushValue,
		PrereleaseIdentifier: strings.TrimSpace(preidValue),
		RepositoryPath:       repositoryPath,
	}, nil
}

func (builder *CommandBuilder) buildDependencies(configuration Configuration, logger *zap.Logger, executor CommandExecutor) (Dependencies, error) {
	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	if managerError != nil {
		return Dependencies{}, managerError
	}

	var inspector RepositoryInspector = repositoryManager
	if configuration.Git.Backend == InspectorBackendGoGit {
		inspector = gitrepo.NewGoGitInspector()
	}

	packageClient, clientError := packagemanager.NewClient(executor, packagemanager.Settings{
		ManagerName:         configuration.Package.Manager,
		ManifestFileName:    configuration.Package.Manifest,
		FailOnStandardError: configuration.Package.FailOnStandardError,
	})
	if clientError != nil {
		return Dependencies{}, clientError
	}

	var opener BrowserOpener = builder.Browser
	if opener == nil {
		opener = browser.NewSystemOpener()
	}

	return Dependencies{
		Logger:         logger,
		Inspector:      inspector,
		Mutator:        repositoryManager,
		PackageManager: packageClient,
		Browser:        opener,
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	executorOptions := []execshell.ExecutorOption{}
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)))
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), executorOptions...)
	if creationError != nil {
		return nil, creationError
	}

	return shellExecutor, nil
}

func (builder *CommandBuilder) colorEnabled() bool {
	if builder.ColorProvider == nil {
		return false
	}
	return builder.ColorProvider()
}
