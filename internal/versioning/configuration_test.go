package versioning_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/versionings/internal/hosting"
	"github.com/temirov/versionings/internal/semverkind"
	"github.com/temirov/versionings/internal/versioning"
)

func TestSanitizeAppliesDefaults(testInstance *testing.T) {
	configuration := versioning.Configuration{
		Git: versioning.GitConfiguration{
			URL:      "  git@github.com:org/widget.git  ",
			Platform: "  GitHub ",
			Backend:  "GO-GIT",
			Limits:   versioning.LimitsConfiguration{BranchMaxLength: -4},
			Commit: versioning.CommitConfiguration{Message: versioning.CommitMessageConfiguration{
				Semver: map[string]string{" Major ": "Breaking: v%s.", "minor": "  "},
			}},
		},
		Messages: versioning.Messages{UntrackedGitFiles: "Stash your work first."},
	}

	sanitized := configuration.Sanitize()
	defaults := versioning.DefaultConfiguration()

	require.Equal(testInstance, "Project", sanitized.Project.Title)
	require.Equal(testInstance, "git@github.com:org/widget.git", sanitized.Git.URL)
	require.Equal(testInstance, hosting.PlatformGitHub, sanitized.Git.Platform)
	require.Equal(testInstance, versioning.InspectorBackendGoGit, sanitized.Git.Backend)
	require.Equal(testInstance, "origin", sanitized.Git.Remote)
	require.Equal(testInstance, "version", sanitized.Git.BranchType.Version)
	require.Equal(testInstance, "master", sanitized.Git.PullRequest.Target)
	require.Equal(testInstance, 100, sanitized.Git.Limits.BranchMaxLength)
	require.Equal(testInstance, "npm", sanitized.Package.Manager)
	require.Equal(testInstance, "package.json", sanitized.Package.Manifest)

	require.Equal(testInstance, "Breaking: v%s.", sanitized.CommitMessageTemplate(semverkind.KindMajor))
	require.Equal(testInstance, defaults.CommitMessageTemplate(semverkind.KindMinor), sanitized.CommitMessageTemplate(semverkind.KindMinor))
	require.Equal(testInstance, "patch", sanitized.BranchLabel(semverkind.KindPatch))

	require.Equal(testInstance, "Stash your work first.", sanitized.Messages.UntrackedGitFiles)
	require.Equal(testInstance, defaults.Messages.MismatchedGitRemote, sanitized.Messages.MismatchedGitRemote)

	require.False(testInstance, sanitized.Git.PullRequest.OpenBrowser)
	require.False(testInstance, sanitized.Git.Limits.ForbidTagSeparator)
}

func TestDefaultConfigurationCoversEveryKind(testInstance *testing.T) {
	configuration := versioning.DefaultConfiguration()
	for _, kind := range semverkind.All() {
		require.Contains(testInstance, configuration.CommitMessageTemplate(kind), "%s", string(kind))
		require.Equal(testInstance, string(kind), configuration.BranchLabel(kind))
	}
	require.True(testInstance, configuration.Git.PullRequest.OpenBrowser)
	require.True(testInstance, configuration.Git.Limits.ForbidTagSeparator)
	require.True(testInstance, configuration.Package.FailOnStandardError)
}

func TestValidateConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(configuration *versioning.Configuration)
		expectedError error
	}{
		{name: "valid", mutate: func(*versioning.Configuration) {}},
		{name: "bitbucket", mutate: func(configuration *versioning.Configuration) {
			configuration.Git.Platform = hosting.PlatformBitbucket
		}},
		{name: "missing_url", mutate: func(configuration *versioning.Configuration) {
			configuration.Git.URL = " "
		}, expectedError: versioning.ErrRepositoryURLMissing},
		{name: "missing_platform", mutate: func(configuration *versioning.Configuration) {
			configuration.Git.Platform = ""
		}, expectedError: hosting.UnsupportedPlatformError{Platform: ""}},
		{name: "unknown_backend", mutate: func(configuration *versioning.Configuration) {
			configuration.Git.Backend = "libgit2"
		}, expectedError: versioning.ErrUnsupportedBackend},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configuration := testConfiguration()
			testCase.mutate(&configuration)
			validationError := configuration.Validate()
			if testCase.expectedError == nil {
				require.NoError(testInstance, validationError)
				return
			}
			require.ErrorIs(testInstance, validationError, testCase.expectedError)
		})
	}
}
