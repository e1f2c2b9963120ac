package versioning

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/versionings/internal/packagemanager"
)

const (
	inspectorNotConfiguredMessageConstant      = "repository inspector not configured"
	mutatorNotConfiguredMessageConstant        = "repository mutator not configured"
	packageManagerNotConfiguredMessageConstant = "package manager not configured"
	versionBumpStartedMessageConstant          = "version bump started"
	versionBumpCompletedMessageConstant        = "version bump completed"
	logFieldKindConstant                       = "kind"
	logFieldVersionConstant                    = "version"
	logFieldBranchConstant                     = "branch"
	logFieldTagConstant                        = "tag"
	logFieldPushConstant                       = "push"
	currentDirectoryConstant                   = "."
)

var (
	// ErrInspectorNotConfigured indicates NewService received no repository inspector.
	ErrInspectorNotConfigured = errors.New(inspectorNotConfiguredMessageConstant)
	// ErrMutatorNotConfigured indicates NewService received no repository mutator.
	ErrMutatorNotConfigured = errors.New(mutatorNotConfiguredMessageConstant)
	// ErrPackageManagerNotConfigured indicates NewService received no package manager.
	ErrPackageManagerNotConfigured = errors.New(packageManagerNotConfiguredMessageConstant)
)

// RepositoryInspector answers read-only questions about the repository.
type RepositoryInspector interface {
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
	ListTags(executionContext context.Context, repositoryPath string) ([]string, error)
	ListBranches(executionContext context.Context, repositoryPath string) ([]string, error)
	RemoteBranchExists(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (bool, error)
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
}

// RepositoryMutator changes the repository.
type RepositoryMutator interface {
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error
	CommitAll(executionContext context.Context, repositoryPath string, message string) error
	CreateAnnotatedTag(executionContext context.Context, repositoryPath string, tagName string, message string) error
	Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
	ResetHard(executionContext context.Context, repositoryPath string) error
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) error
}

// PackageManager reads and bumps the project version.
type PackageManager interface {
	ReadVersion(repositoryPath string) (string, error)
	Bump(executionContext context.Context, options packagemanager.BumpOptions) (string, error)
}

// BrowserOpener opens a URL for the user.
type BrowserOpener interface {
	Open(address string) error
}

// Dependencies wires the collaborators used by Service.
type Dependencies struct {
	Logger         *zap.Logger
	Inspector      RepositoryInspector
	Mutator        RepositoryMutator
	PackageManager PackageManager
	Browser        BrowserOpener
}

// Options are the per-invocation parameters.
type Options struct {
	Kind                 string
	Comment              string
	Push                 bool
	PrereleaseIdentifier string
	RepositoryPath       string
}

// Result summarizes a successful version bump.
type Result struct {
	ProjectTitle    string
	PreviousVersion string
	Version         string
	Kind            string
	Branch          string
	Tag             string
	CommitMessage   string
	PullRequestURL  string
	Pushed          bool
	CompletedSteps  []string
}

// Service bumps the project version and records it in the repository.
type Service struct {
	configuration Configuration
	dependencies  Dependencies
	pipeline      *Pipeline
}

// NewService sanitizes and validates the configuration and checks required collaborators.
// The browser is optional; without it the pull request URL is only reported.
func NewService(configuration Configuration, dependencies Dependencies) (*Service, error) {
	sanitizedConfiguration := configuration.Sanitize()
	if validationError := sanitizedConfiguration.Validate(); validationError != nil {
		return nil, NewConfigurationError(sanitizedConfiguration.Messages, validationError)
	}
	if dependencies.Inspector == nil {
		return nil, ErrInspectorNotConfigured
	}
	if dependencies.Mutator == nil {
		return nil, ErrMutatorNotConfigured
	}
	if dependencies.PackageManager == nil {
		return nil, ErrPackageManagerNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}

	return &Service{
		configuration: sanitizedConfiguration,
		dependencies:  dependencies,
		pipeline:      NewPipeline(DefaultStages()...),
	}, nil
}

// Configuration returns the sanitized configuration the service runs with.
func (service *Service) Configuration() Configuration {
	return service.configuration
}

// Bump runs the version pipeline for the provided options.
func (service *Service) Bump(executionContext context.Context, options Options) (Result, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		repositoryPath = currentDirectoryConstant
	}

	state := &State{
		RepositoryPath:       repositoryPath,
		RequestedKind:        options.Kind,
		RawComment:           options.Comment,
		PrereleaseIdentifier: options.PrereleaseIdentifier,
		Push:                 options.Push,
	}
	environment := &Environment{
		Configuration:  service.configuration,
		Inspector:      service.dependencies.Inspector,
		Mutator:        service.dependencies.Mutator,
		PackageManager: service.dependencies.PackageManager,
		Browser:        service.dependencies.Browser,
		Logger:         service.dependencies.Logger,
	}

	logger := service.dependencies.Logger
	logger.Debug(
		versionBumpStartedMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldKindConstant, options.Kind),
		zap.Bool(logFieldPushConstant, options.Push),
	)

	if executionError := service.pipeline.Execute(executionContext, environment, state); executionError != nil {
		return Result{}, executionError
	}

	logger.Info(
		versionBumpCompletedMessageConstant,
		zap.String(logFieldVersionConstant, state.NewVersion),
		zap.String(logFieldBranchConstant, state.BranchName),
		zap.String(logFieldTagConstant, state.TagName),
	)

	return Result{
		ProjectTitle:    service.configuration.Project.Title,
		PreviousVersion: state.CurrentVersion,
		Version:         state.NewVersion,
		Kind:            string(state.Kind),
		Branch:          state.BranchName,
		Tag:             state.TagName,
		CommitMessage:   state.CommitMessage,
		PullRequestURL:  state.PullRequestURL,
		Pushed:          state.Push,
		CompletedSteps:  append([]string{}, state.CompletedSteps...),
	}, nil
}
