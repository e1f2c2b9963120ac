package hosting

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	unsupportedPlatformErrorTemplateConstant = "unsupported hosting platform %q (available platforms: %s)"
	platformListSeparatorConstant            = ", "
	githubCompareTemplateConstant            = "%s/compare/%s...%s?%s"
	githubExpandQueryKeyConstant             = "expand"
	githubExpandQueryValueConstant           = "1"
	bitbucketPullRequestsTemplateConstant    = "%s/pull-requests?%s"
	bitbucketCreateQueryKeyConstant          = "create"
	bitbucketCreateQueryValueConstant        = "true"
	bitbucketSourceBranchQueryKeyConstant    = "sourceBranch"
	bitbucketTargetBranchQueryKeyConstant    = "targetBranch"
	branchReferencePrefixConstant            = "refs/heads/"
	trailingSlashConstant                    = "/"
)

// Platform identifies a supported source hosting service.
type Platform string

// Supported platforms.
const (
	PlatformGitHub    Platform = Platform("github")
	PlatformBitbucket Platform = Platform("bitbucket")
)

var supportedPlatforms = []Platform{PlatformGitHub, PlatformBitbucket}

// UnsupportedPlatformError reports a configured platform outside the supported set.
type UnsupportedPlatformError struct {
	Platform string
}

// Error lists the supported platforms alongside the rejected value.
func (platformError UnsupportedPlatformError) Error() string {
	return fmt.Sprintf(unsupportedPlatformErrorTemplateConstant, platformError.Platform, strings.Join(Names(), platformListSeparatorConstant))
}

// Names returns the supported platform names.
func Names() []string {
	names := make([]string, 0, len(supportedPlatforms))
	for _, platform := range supportedPlatforms {
		names = append(names, string(platform))
	}
	return names
}

// NormalizePlatform lowercases and trims a configured platform name without validating it.
func NormalizePlatform(rawPlatform string) Platform {
	return Platform(strings.ToLower(strings.TrimSpace(rawPlatform)))
}

// ParsePlatform resolves a configured platform name.
func ParsePlatform(rawPlatform string) (Platform, error) {
	platform := NormalizePlatform(rawPlatform)
	if !platform.IsSupported() {
		return "", UnsupportedPlatformError{Platform: rawPlatform}
	}
	return platform, nil
}

// IsSupported reports whether the platform belongs to the supported set.
func (platform Platform) IsSupported() bool {
	for _, supportedPlatform := range supportedPlatforms {
		if platform == supportedPlatform {
			return true
		}
	}
	return false
}

// PullRequestURLBuilder renders the page that opens a pull request from sourceBranch into targetBranch.
type PullRequestURLBuilder interface {
	BuildPullRequestURL(browsingURL string, targetBranch string, sourceBranch string) string
}

// GitHubPullRequestURLBuilder renders GitHub compare pages.
type GitHubPullRequestURLBuilder struct{}

// BuildPullRequestURL renders {browse}/compare/{target}...{source}?expand=1.
func (GitHubPullRequestURLBuilder) BuildPullRequestURL(browsingURL string, targetBranch string, sourceBranch string) string {
	query := url.Values{githubExpandQueryKeyConstant: []string{githubExpandQueryValueConstant}}
	return fmt.Sprintf(githubCompareTemplateConstant, strings.TrimSuffix(browsingURL, trailingSlashConstant), targetBranch, sourceBranch, query.Encode())
}

// BitbucketPullRequestURLBuilder renders Bitbucket pull request creation pages.
type BitbucketPullRequestURLBuilder struct{}

// BuildPullRequestURL renders {browse}/pull-requests?create=true&sourceBranch=refs/heads/{source}&targetBranch={target}, query-encoded.
func (BitbucketPullRequestURLBuilder) BuildPullRequestURL(browsingURL string, targetBranch string, sourceBranch string) string {
	query := url.Values{
		bitbucketCreateQueryKeyConstant:       []string{bitbucketCreateQueryValueConstant},
		bitbucketSourceBranchQueryKeyConstant: []string{branchReferencePrefixConstant + sourceBranch},
		bitbucketTargetBranchQueryKeyConstant: []string{targetBranch},
	}
	return fmt.Sprintf(bitbucketPullRequestsTemplateConstant, strings.TrimSuffix(browsingURL, trailingSlashConstant), query.Encode())
}

// Builder returns the pull request URL builder for the platform.
func (platform Platform) Builder() (PullRequestURLBuilder, error) {
	switch platform {
	case PlatformGitHub:
		return GitHubPullRequestURLBuilder{}, nil
	case PlatformBitbucket:
		return BitbucketPullRequestURLBuilder{}, nil
	default:
		return nil, UnsupportedPlatformError{Platform: string(platform)}
	}
}

// BuildPullRequestURL dispatches to the platform's builder.
func (platform Platform) BuildPullRequestURL(browsingURL string, targetBranch string, sourceBranch string) (string, error) {
	builder, builderError := platform.Builder()
	if builderError != nil {
		return "", builderError
	}
	return builder.BuildPullRequestURL(browsingURL, targetBranch, sourceBranch), nil
}

// StringToPlatformHookFunc normalizes platform strings while decoding configuration.
// Validation is left to the configuration so that unsupported values produce a descriptive error.
func StringToPlatformHookFunc() mapstructure.DecodeHookFuncType {
	return func(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
		if sourceType.Kind() != reflect.String || targetType != reflect.TypeOf(Platform("")) {
			return data, nil
		}
		return NormalizePlatform(data.(string)), nil
	}
}
