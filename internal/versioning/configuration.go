package versioning

import (
	"errors"
	"strings"

	"github.com/temirov/versionings/internal/hosting"
	"github.com/temirov/versionings/internal/packagemanager"
	"github.com/temirov/versionings/internal/semverkind"
)

const (
	defaultProjectTitleConstant         = "Project"
	defaultRemoteNameConstant           = "origin"
	defaultTargetBranchConstant         = "master"
	defaultVersionBranchPrefixConstant  = "version"
	defaultBranchMaxLengthConstant      = 100
	repositoryURLMissingMessageConstant = "git repository url is not configured"
	unsupportedBackendMessageConstant   = "unsupported repository inspector backend"
)

// InspectorBackend selects how the repository is inspected.
type InspectorBackend string

// Supported inspector backends.
const (
	InspectorBackendCLI   InspectorBackend = InspectorBackend("cli")
	InspectorBackendGoGit InspectorBackend = InspectorBackend("go-git")
)

var (
	// ErrRepositoryURLMissing indicates git.url is empty.
	ErrRepositoryURLMissing = errors.New(repositoryURLMissingMessageConstant)
	// ErrUnsupportedBackend indicates git.backend is neither cli nor go-git.
	ErrUnsupportedBackend = errors.New(unsupportedBackendMessageConstant)
)

// Configuration captures everything a version bump needs from version.json.
type Configuration struct {
	Project  ProjectConfiguration `mapstructure:"project" yaml:"project"`
	Messages Messages             `mapstructure:"messages" yaml:"messages"`
	Git      GitConfiguration     `mapstructure:"git" yaml:"git"`
	Package  PackageConfiguration `mapstructure:"package" yaml:"package"`
}

// ProjectConfiguration names the project in status output.
type ProjectConfiguration struct {
	Title string `mapstructure:"title" yaml:"title"`
}

// GitConfiguration describes the repository, its hosting platform, and naming rules.
type GitConfiguration struct {
	URL         string                   `mapstructure:"url" yaml:"url"`
	Platform    hosting.Platform         `mapstructure:"platform" yaml:"platform"`
	Remote      string                   `mapstructure:"remote" yaml:"remote"`
	Backend     InspectorBackend         `mapstructure:"backend" yaml:"backend"`
	BranchType  BranchTypeConfiguration  `mapstructure:"branchType" yaml:"branchType"`
	PullRequest PullRequestConfiguration `mapstructure:"pr" yaml:"pr"`
	Limits      LimitsConfiguration      `mapstructure:"limits" yaml:"limits"`
	Commit      CommitConfiguration      `mapstructure:"commit" yaml:"commit"`
}

// BranchTypeConfiguration holds branch name prefixes.
type BranchTypeConfiguration struct {
	Version string `mapstructure:"version" yaml:"version"`
}

// PullRequestConfiguration describes where version branches are merged.
type PullRequestConfiguration struct {
	Target      string `mapstructure:"target" yaml:"target"`
	OpenBrowser bool   `mapstructure:"openBrowser" yaml:"openBrowser"`
}

// LimitsConfiguration constrains the user-supplied comment.
type LimitsConfiguration struct {
	BranchMaxLength    int  `mapstructure:"branchMaxLength" yaml:"branchMaxLength"`
	ForbidTagSeparator bool `mapstructure:"forbidTagSeparator" yaml:"forbidTagSeparator"`
}

// CommitConfiguration holds commit message templates.
type CommitConfiguration struct {
	Message CommitMessageConfiguration `mapstructure:"message" yaml:"message"`
}

// CommitMessageConfiguration maps bump kinds to commit message templates containing a single %s.
type CommitMessageConfiguration struct {
	Semver map[string]string `mapstructure:"semver" yaml:"semver"`
}

// PackageConfiguration selects the package manager and the branch label per bump kind.
type PackageConfiguration struct {
	Manager             string            `mapstructure:"manager" yaml:"manager"`
	Manifest            string            `mapstructure:"manifest" yaml:"manifest"`
	FailOnStandardError bool              `mapstructure:"failOnStandardError" yaml:"failOnStandardError"`
	Semver              map[string]string `mapstructure:"semver" yaml:"semver"`
}

// DefaultCommitMessageTemplates returns the commit message template for every bump kind.
func DefaultCommitMessageTemplates() map[string]string {
	return map[string]string{
		string(semverkind.KindPrepatch):   "Patch version is preparing now: v%s.",
		string(semverkind.KindPatch):      "Patch: v%s. You SHOULD consider changes.",
		string(semverkind.KindPreminor):   "Minor version is preparing now: v%s.",
		string(semverkind.KindMinor):      "Minor: v%s. You MUST consider changes.",
		string(semverkind.KindPremajor):   "Release is preparing now: v%s.",
		string(semverkind.KindMajor):      "Release: v%s.",
		string(semverkind.KindPrerelease): "Preparing: v%s.",
	}
}

// DefaultBranchLabels maps every bump kind to itself.
func DefaultBranchLabels() map[string]string {
	labels := make(map[string]string, len(semverkind.All()))
	for _, kind := range semverkind.All() {
		labels[string(kind)] = string(kind)
	}
	return labels
}

// DefaultConfiguration returns the configuration used when version.json overrides nothing.
// The repository URL and platform have no defaults.
func DefaultConfiguration() Configuration {
	return Configuration{
		Project:  ProjectConfiguration{Title: defaultProjectTitleConstant},
		Messages: DefaultMessages(),
		Git: GitConfiguration{
			Remote:      defaultRemoteNameConstant,
			Backend:     InspectorBackendCLI,
			BranchType:  BranchTypeConfiguration{Version: defaultVersionBranchPrefixConstant},
			PullRequest: PullRequestConfiguration{Target: defaultTargetBranchConstant, OpenBrowser: true},
			Limits:      LimitsConfiguration{BranchMaxLength: defaultBranchMaxLengthConstant, ForbidTagSeparator: true},
			Commit:      CommitConfiguration{Message: CommitMessageConfiguration{Semver: DefaultCommitMessageTemplates()}},
		},
		Package: PackageConfiguration{
			Manager:             packagemanager.DefaultManagerName,
			Manifest:            packagemanager.DefaultManifestFileName,
			FailOnStandardError: true,
			Semver:              DefaultBranchLabels(),
		},
	}
}

// Sanitize trims string values and replaces empty strings, non-positive limits, and missing map entries with defaults.
// Boolean switches are kept as configured; their defaults come from DefaultConfiguration and the embedded file.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.Project.Title = stringOrDefault(configuration.Project.Title, defaults.Project.Title)
	sanitized.Messages = configuration.Messages.withDefaults(defaults.Messages)

	sanitized.Git.URL = strings.TrimSpace(configuration.Git.URL)
	sanitized.Git.Platform = hosting.NormalizePlatform(string(configuration.Git.Platform))
	sanitized.Git.Remote = stringOrDefault(configuration.Git.Remote, defaults.Git.Remote)
	sanitized.Git.Backend = InspectorBackend(strings.ToLower(stringOrDefault(string(configuration.Git.Backend), string(defaults.Git.Backend))))
	sanitized.Git.BranchType.Version = stringOrDefault(configuration.Git.BranchType.Version, defaults.Git.BranchType.Version)
	sanitized.Git.PullRequest.Target = stringOrDefault(configuration.Git.PullRequest.Target, defaults.Git.PullRequest.Target)
	if configuration.Git.Limits.BranchMaxLength <= 0 {
		sanitized.Git.Limits.BranchMaxLength = defaults.Git.Limits.BranchMaxLength
	}
	sanitized.Git.Commit.Message.Semver = mergeKindMap(configuration.Git.Commit.Message.Semver, defaults.Git.Commit.Message.Semver)

	sanitized.Package.Manager = stringOrDefault(configuration.Package.Manager, defaults.Package.Manager)
	sanitized.Package.Manifest = stringOrDefault(configuration.Package.Manifest, defaults.Package.Manifest)
	sanitized.Package.Semver = mergeKindMap(configuration.Package.Semver, defaults.Package.Semver)

	return sanitized
}

// Validate reports configuration problems that make a version bump impossible.
func (configuration Configuration) Validate() error {
	if len(strings.TrimSpace(configuration.Git.URL)) == 0 {
		return ErrRepositoryURLMissing
	}
	if !configuration.Git.Platform.IsSupported() {
		return hosting.UnsupportedPlatformError{Platform: string(configuration.Git.Platform)}
	}
	switch configuration.Git.Backend {
	case InspectorBackendCLI, InspectorBackendGoGit:
	default:
		return ErrUnsupportedBackend
	}
	return nil
}

// CommitMessageTemplate returns the configured template for kind, or an empty string when none exists.
func (configuration Configuration) CommitMessageTemplate(kind semverkind.Kind) string {
	return configuration.Git.Commit.Message.Semver[string(kind)]
}

// BranchLabel returns the configured branch label for kind, falling back to the kind itself.
func (configuration Configuration) BranchLabel(kind semverkind.Kind) string {
	label := strings.TrimSpace(configuration.Package.Semver[string(kind)])
	if len(label) == 0 {
		return string(kind)
	}
	return label
}

func stringOrDefault(value string, fallback string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallback
	}
	return trimmedValue
}

func mergeKindMap(configured map[string]string, defaults map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults))
	for key, value := range defaults {
		merged[key] = value
	}
	for key, value := range configured {
		normalizedKey := strings.ToLower(strings.TrimSpace(key))
		if len(strings.TrimSpace(value)) == 0 {
			continue
		}
		merged[normalizedKey] = value
	}
	return merged
}
