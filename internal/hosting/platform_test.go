package hosting_test

import (
	"testing"

	"github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"

	"github.com/temirov/versionings/internal/hosting"
)

func TestParsePlatform(testInstance *testing.T) {
	testCases := []struct {
		name             string
		rawPlatform      string
		expectedPlatform hosting.Platform
		expectError      bool
	}{
		{name: "github", rawPlatform: "github", expectedPlatform: hosting.PlatformGitHub},
		{name: "bitbucket_mixed_case", rawPlatform: " BitBucket ", expectedPlatform: hosting.PlatformBitbucket},
		{name: "gitlab", rawPlatform: "gitlab", expectError: true},
		{name: "empty", rawPlatform: "", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			platform, parseError := hosting.ParsePlatform(testCase.rawPlatform)
			if testCase.expectError {
				require.IsType(testInstance, hosting.UnsupportedPlatformError{}, parseError)
				require.ErrorContains(testInstance, parseError, "github, bitbucket")
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedPlatform, platform)
		})
	}
}

func TestBuildPullRequestURL(testInstance *testing.T) {
	testCases := []struct {
		name        string
		platform    hosting.Platform
		browsingURL string
		expectedURL string
	}{
		{
			name:        "github",
			platform:    hosting.PlatformGitHub,
			browsingURL: "https://github.com/org/repo",
			expectedURL: "https://github.com/org/repo/compare/master...version/patch/1.0.1/fix?expand=1",
		},
		{
			name:        "github_trailing_slash",
			platform:    hosting.PlatformGitHub,
			browsingURL: "https://github.com/org/repo/",
			expectedURL: "https://github.com/org/repo/compare/master...version/patch/1.0.1/fix?expand=1",
		},
		{
			name:        "bitbucket",
			platform:    hosting.PlatformBitbucket,
			browsingURL: "https://bitbucket.org/team/service",
			expectedURL: "https://bitbucket.org/team/service/pull-requests?create=true&sourceBranch=refs%2Fheads%2Fversion%2Fpatch%2F1.0.1%2Ffix&targetBranch=master",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			pullRequestURL, buildError := testCase.platform.BuildPullRequestURL(testCase.browsingURL, "master", "version/patch/1.0.1/fix")
			require.NoError(testInstance, buildError)
			require.Equal(testInstance, testCase.expectedURL, pullRequestURL)

			repeatedURL, repeatedError := testCase.platform.BuildPullRequestURL(testCase.browsingURL, "master", "version/patch/1.0.1/fix")
			require.NoError(testInstance, repeatedError)
			require.Equal(testInstance, pullRequestURL, repeatedURL)
		})
	}

	_, unsupportedError := hosting.Platform("gitlab").BuildPullRequestURL("https://gitlab.com/org/repo", "main", "feature")
	require.IsType(testInstance, hosting.UnsupportedPlatformError{}, unsupportedError)
}

func TestStringToPlatformHookFuncNormalizes(testInstance *testing.T) {
	type fixture struct {
		Platform hosting.Platform `mapstructure:"platform"`
		Remote   string           `mapstructure:"remote"`
	}

	decoded := fixture{}
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: hosting.StringToPlatformHookFunc(),
		Result:     &decoded,
	})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(map[string]any{"platform": " GitHub ", "remote": " Origin "}))

	require.Equal(testInstance, hosting.PlatformGitHub, decoded.Platform)
	require.Equal(testInstance, " Origin ", decoded.Remote)
}
