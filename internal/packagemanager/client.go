package packagemanager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/versionings/internal/execshell"
	"github.com/temirov/versionings/internal/semverkind"
)

const (
	// DefaultManagerName is the package manager used when none is configured.
	DefaultManagerName = "npm"
	// DefaultManifestFileName is the manifest read when none is configured.
	DefaultManifestFileName = "package.json"

	executorNotConfiguredMessageConstant     = "package manager executor not configured"
	manifestUnreadableMessageConstant        = "package manifest unreadable"
	manifestVersionMissingMessageConstant    = "package manifest has no version"
	bumpOutputEmptyMessageConstant           = "package manager reported no version"
	manifestErrorTemplateConstant            = "%w: %s: %v"
	manifestVersionErrorTemplateConstant     = "%w: %s"
	bumpErrorTemplateConstant                = "%s version %s: %w"
	manifestVersionKeyConstant               = "version"
	versionSubcommandConstant                = "version"
	noGitTagVersionFlagConstant              = "--no-git-tag-version"
	prereleaseIdentifierFlagTemplateConstant = "--preid=%s"
	outputLineSeparatorConstant              = "\n"
	versionPrefixConstant                    = "v"
)

var (
	// ErrExecutorNotConfigured indicates NewClient received a nil executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrManifestUnreadable indicates the manifest is missing or malformed.
	ErrManifestUnreadable = errors.New(manifestUnreadableMessageConstant)
	// ErrManifestVersionMissing indicates the manifest has no version field.
	ErrManifestVersionMissing = errors.New(manifestVersionMissingMessageConstant)
	// ErrBumpOutputEmpty indicates the package manager succeeded without printing a version.
	ErrBumpOutputEmpty = errors.New(bumpOutputEmptyMessageConstant)
)

// Executor exposes the subset of shell execution used by the client.
type Executor interface {
	ExecutePackageManager(executionContext context.Context, managerName execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Settings selects the package manager executable and manifest.
type Settings struct {
	ManagerName         string
	ManifestFileName    string
	FailOnStandardError bool
}

// BumpOptions describe a single version bump.
type BumpOptions struct {
	RepositoryPath       string
	Kind                 semverkind.Kind
	PrereleaseIdentifier string
}

// Client reads and bumps the manifest version through an npm-compatible executable.
type Client struct {
	executor Executor
	settings Settings
}

// NewClient validates the executor and fills unset settings with npm defaults.
func NewClient(executor Executor, settings Settings) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	settings.ManagerName = strings.TrimSpace(settings.ManagerName)
	if len(settings.ManagerName) == 0 {
		settings.ManagerName = DefaultManagerName
	}
	settings.ManifestFileName = strings.TrimSpace(settings.ManifestFileName)
	if len(settings.ManifestFileName) == 0 {
		settings.ManifestFileName = DefaultManifestFileName
	}
	return &Client{executor: executor, settings: settings}, nil
}

// ReadVersion returns the version field of the manifest in repositoryPath.
func (client *Client) ReadVersion(repositoryPath string) (string, error) {
	manifestPath := filepath.Join(repositoryPath, client.settings.ManifestFileName)

	manifestReader := viper.New()
	manifestReader.SetConfigFile(manifestPath)
	if readError := manifestReader.ReadInConfig(); readError != nil {
		return "", fmt.Errorf(manifestErrorTemplateConstant, ErrManifestUnreadable, manifestPath, readError)
	}

	version := strings.TrimSpace(manifestReader.GetString(manifestVersionKeyConstant))
	if len(version) == 0 {
		return "", fmt.Errorf(manifestVersionErrorTemplateConstant, ErrManifestVersionMissing, manifestPath)
	}
	return version, nil
}

// Bump runs "{manager} version {kind} --no-git-tag-version" and returns the reported version without a leading v.
// The prerelease identifier is forwarded only for pre* kinds.
func (client *Client) Bump(executionContext context.Context, options BumpOptions) (string, error) {
	arguments := []string{versionSubcommandConstant, string(options.Kind), noGitTagVersionFlagConstant}
	prereleaseIdentifier := strings.TrimSpace(options.PrereleaseIdentifier)
	if options.Kind.IsPrerelease() && len(prereleaseIdentifier) > 0 {
		arguments = append(arguments, fmt.Sprintf(prereleaseIdentifierFlagTemplateConstant, prereleaseIdentifier))
	}

	result, executionError := client.executor.ExecutePackageManager(executionContext, execshell.CommandName(client.settings.ManagerName), execshell.CommandDetails{
		Arguments:           arguments,
		WorkingDirectory:    options.RepositoryPath,
		FailOnStandardError: client.settings.FailOnStandardError,
	})
	if executionError != nil {
		return "", fmt.Errorf(bumpErrorTemplateConstant, client.settings.ManagerName, options.Kind, executionError)
	}

	reportedVersion := lastOutputLine(result.StandardOutput)
	if len(reportedVersion) == 0 {
		return "", fmt.Errorf(bumpErrorTemplateConstant, client.settings.ManagerName, options.Kind, ErrBumpOutputEmpty)
	}
	return strings.TrimPrefix(reportedVersion, versionPrefixConstant), nil
}

// lastOutputLine skips lifecycle script chatter that precedes the version line.
func lastOutputLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), outputLineSeparatorConstant)
	for index := len(lines) - 1; index >= 0; index-- {
		trimmedLine := strings.TrimSpace(lines[index])
		if len(trimmedLine) > 0 {
			return trimmedLine
		}
	}
	return ""
}
