package versioning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/versionings/internal/gitrepo"
	"github.com/temirov/versionings/internal/naming"
	"github.com/temirov/versionings/internal/packagemanager"
	"github.com/temirov/versionings/internal/semverkind"
)

const (
	readCurrentVersionStepNameConstant      = "read-current-version"
	validateSemanticVersionStepNameConstant = "validate-semantic-version"
	validateCommentStepNameConstant         = "validate-comment"
	verifyRemoteURLStepNameConstant         = "verify-remote-url"
	verifyCleanWorktreeStepNameConstant     = "verify-clean-worktree"
	bumpVersionStepNameConstant             = "bump-version"
	readBumpedVersionStepNameConstant       = "read-bumped-version"
	ensureVersionUntaggedStepNameConstant   = "ensure-version-untagged"
	verifyTargetBranchStepNameConstant      = "verify-target-branch"
	ensureVersionUnbranchedStepNameConstant = "ensure-version-unbranched"
	createVersionBranchStepNameConstant     = "create-version-branch"
	commitVersionBumpStepNameConstant       = "commit-version-bump"
	createVersionTagStepNameConstant        = "create-version-tag"
	pushVersionStepNameConstant             = "push-version"
	openPullRequestStepNameConstant         = "open-pull-request"
	branchLengthMessageTemplateConstant     = "%s %d characters."
	detailedCauseTemplateConstant           = "%w: %s"
	versionPairTemplateConstant             = "%w: %s -> %s"
	browserLaunchFailedMessageConstant      = "pull request url could not be opened"
	logFieldPullRequestURLConstant          = "pull_request_url"
	logFieldMessageConstant                 = "message"
)

// DefaultStages returns the version bump pipeline in execution order.
func DefaultStages() []Stage {
	pushRequested := func(state *State) bool { return state.Push }
	return []Stage{
		{Operation: readCurrentVersionOperation{}},
		{Operation: validateSemanticVersionOperation{}},
		{Operation: validateCommentOperation{}},
		{Operation: verifyRemoteURLOperation{}},
		{Operation: verifyCleanWorktreeOperation{}},
		{Operation: bumpVersionOperation{}, RollbackOnFailure: true},
		{Operation: readBumpedVersionOperation{}, RollbackOnFailure: true},
		{Operation: ensureVersionUntaggedOperation{}, RollbackOnFailure: true},
		{Operation: verifyTargetBranchOperation{}, RollbackOnFailure: true},
		{Operation: ensureVersionUnbranchedOperation{}, RollbackOnFailure: true},
		{Operation: createVersionBranchOperation{}, RollbackOnFailure: true},
		{Operation: commitVersionBumpOperation{}, RollbackOnFailure: true},
		{Operation: createVersionTagOperation{}},
		{Operation: pushVersionOperation{}, Condition: pushRequested},
		{Operation: openPullRequestOperation{}, Condition: pushRequested},
	}
}

type readCurrentVersionOperation struct{}

func (readCurrentVersionOperation) Name() string {
	return readCurrentVersionStepNameConstant
}

func (operation readCurrentVersionOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	currentVersion, readError := environment.PackageManager.ReadVersion(state.RepositoryPath)
	if readError != nil {
		return operationFailure(ErrorCategoryRepositoryState, operation, environment.Configuration.Messages.UnavailableVersioningDirectory, readError)
	}
	state.CurrentVersion = semverkind.NormalizeVersion(currentVersion)
	return nil
}

type validateSemanticVersionOperation struct{}

func (validateSemanticVersionOperation) Name() string {
	return validateSemanticVersionStepNameConstant
}

func (operation validateSemanticVersionOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	message := environment.Configuration.Messages.UnavailableSemanticVersion
	if len(strings.TrimSpace(state.RequestedKind)) == 0 {
		return operationFailure(ErrorCategoryInput, operation, message, ErrSemanticVersionMissing)
	}

	kind, parseError := semverkind.Parse(state.RequestedKind)
	if parseError != nil {
		return operationFailure(ErrorCategoryInput, operation, message, parseError)
	}
	state.Kind = kind
	return nil
}

type validateCommentOperation struct{}

func (validateCommentOperation) Name() string {
	return validateCommentStepNameConstant
}

func (operation validateCommentOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	configuration := environment.Configuration
	comment, validationError := naming.ValidateComment(state.RawComment, naming.CommentRules{
		MaxLength:          configuration.Git.Limits.BranchMaxLength,
		ForbidTagSeparator: configuration.Git.Limits.ForbidTagSeparator,
	})
	if validationError == nil {
		state.Comment = comment
		return nil
	}

	messages := configuration.Messages
	message := messages.InvalidVersionBranchName
	switch {
	case errors.Is(validationError, naming.ErrCommentMissing):
		message = messages.UndefinedVersionBranchName
	case errors.Is(validationError, naming.ErrCommentTooLong):
		message = fmt.Sprintf(branchLengthMessageTemplateConstant, messages.IncorrectVersionBranchNameLength, configuration.Git.Limits.BranchMaxLength)
	case errors.Is(validationError, naming.ErrCommentContainsTagSeparator):
		message = messages.ReservedTagSeparator
	}
	return operationFailure(ErrorCategoryInput, operation, message, validationError)
}

type verifyRemoteURLOperation struct{}

func (verifyRemoteURLOperation) Name() string {
	return verifyRemoteURLStepNameConstant
}

func (operation verifyRemoteURLOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	configuration := environment.Configuration
	message := configuration.Messages.MismatchedGitRemote

	remoteURL, lookupError := environment.Inspector.GetRemoteURL(executionContext, state.RepositoryPath, configuration.Git.Remote)
	if lookupError != nil {
		return operationFailure(ErrorCategoryRepositoryState, operation, message, lookupError)
	}
	if !gitrepo.EquivalentRemoteURLs(remoteURL, configuration.Git.URL) {
		return operationFailure(ErrorCategoryRepositoryState, operation, message, fmt.Errorf(detailedCauseTemplateConstant, ErrRemoteMismatch, remoteURL))
	}
	return nil
}

type verifyCleanWorktreeOperation struct{}

func (verifyCleanWorktreeOperation) Name() string {
	return verifyCleanWorktreeStepNameConstant
}

func (operation verifyCleanWorktreeOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	message := environment.Configuration.Messages.UntrackedGitFiles
	clean, statusError := environment.Inspector.CheckCleanWorktree(executionContext, state.RepositoryPath)
	if statusError != nil {
		return operationFailure(ErrorCategoryRepositoryState, operation, message, statusError)
	}
	if !clean {
		return operationFailure(ErrorCategoryRepositoryState, operation, message, ErrWorktreeNotClean)
	}
	return nil
}

type bumpVersionOperation struct{}

func (bumpVersionOperation) Name() string {
	return bumpVersionStepNameConstant
}

func (operation bumpVersionOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	bumpedVersion, bumpError := environment.PackageManager.Bump(executionContext, packagemanager.BumpOptions{
		RepositoryPath:       state.RepositoryPath,
		Kind:                 state.Kind,
		PrereleaseIdentifier: state.PrereleaseIdentifier,
	})
	if bumpError != nil {
		return operationFailure(ErrorCategoryExternalCommand, operation, environment.Configuration.Messages.FailedVersionBump, bumpError)
	}
	state.BumpedVersion = bumpedVersion
	return nil
}

// readBumpedVersionOperation cross-checks the manifest with the package manager output and derives every name.
type readBumpedVersionOperation struct{}

func (readBumpedVersionOperation) Name() string {
	return readBumpedVersionStepNameConstant
}

func (operation readBumpedVersionOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	configuration := environment.Configuration
	message := configuration.Messages.UnavailableBumpedVersion

	manifestVersion, readError := environment.PackageManager.ReadVersion(state.RepositoryPath)
	if readError != nil {
		return operationFailure(ErrorCategoryExternalCommand, operation, message, readError)
	}

	newVersion, validationError := semverkind.ValidateVersion(manifestVersion)
	if validationError != nil {
		return operationFailure(ErrorCategoryExternalCommand, operation, message, validationError)
	}
	if len(state.BumpedVersion) > 0 && semverkind.NormalizeVersion(state.BumpedVersion) != newVersion {
		return operationFailure(ErrorCategoryExternalCommand, operation, message, fmt.Errorf(versionPairTemplateConstant, ErrVersionMismatch, state.BumpedVersion, newVersion))
	}
	if !semverkind.IsGreater(newVersion, state.CurrentVersion) {
		return operationFailure(ErrorCategoryExternalCommand, operation, message, fmt.Errorf(versionPairTemplateConstant, ErrVersionNotAdvanced, state.CurrentVersion, newVersion))
	}

	state.NewVersion = newVersion
	state.CommitMessage = naming.CommitMessage(configuration.CommitMessageTemplate(state.Kind), newVersion)
	state.BranchName = naming.BranchName(configuration.Git.BranchType.Version, configuration.BranchLabel(state.Kind), newVersion, state.Comment)
	state.TagName = naming.TagName(newVersion, state.Comment)
	return nil
}

type ensureVersionUntaggedOperation struct{}

func (ensureVersionUntaggedOperation) Name() string {
	return ensureVersionUntaggedStepNameConstant
}

func (operation ensureVersionUntaggedOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	message := environment.Configuration.Messages.ExistingVersionTag
	tags, listError := environment.Inspector.ListTags(executionContext, state.RepositoryPath)
	if listError != nil {
		return operationFailure(ErrorCategoryRepositoryState, operation, message, listError)
	}
	for _, tag := range tags {
		if naming.TagEncodesVersion(tag, state.NewVersion) {
			return operationFailure(ErrorCategoryRepositoryState, operation, message, fmt.Errorf(detailedCauseTemplateConstant, ErrVersionAlreadyTagged, tag))
		}
	}
	return nil
}

type verifyTargetBranchOperation struct{}

func (verifyTargetBranchOperation) Name() string {
	return verifyTargetBranchStepNameConstant
}

func (operation verifyTargetBranchOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	configuration := environment.Configuration
	message := configuration.Messages.UnavailableGitTargetBranch
	target := configuration.Git.PullRequest.Target

	exists, lookupError := environment.Inspector.RemoteBranchExists(executionContext, state.RepositoryPath, configuration.Git.Remote, target)
	if lookupError != nil {
		return operationFailure(ErrorCategoryRepositoryState, operation, message, lookupError)
	}
	if !exists {
		return operationFailure(ErrorCategoryRepositoryState, operation, message, fmt.Errorf(detailedCauseTemplateConstant, ErrTargetBranchMissing, target))
	}
	return nil
}

type ensureVersionUnbranchedOperation struct{}

func (ensureVersionUnbranchedOperation) Name() string {
	return ensureVersionUnbranchedStepNameConstant
}

func (operation ensureVersionUnbranchedOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	message := environment.Configuration.Messages.ExistingVersionBranch
	branches, listError := environment.Inspector.ListBranches(executionContext, state.RepositoryPath)
	if listError != nil {
		return operationFailure(ErrorCategoryRepositoryState, operation, message, listError)
	}
	for _, branch := range branches {
		if naming.BranchEncodesVersion(branch, state.NewVersion) {
			return operationFailure(ErrorCategoryRepositoryState, operation, message, fmt.Errorf(detailedCauseTemplateConstant, ErrVersionAlreadyBranched, branch))
		}
	}
	return nil
}

type createVersionBranchOperation struct{}

func (createVersionBranchOperation) Name() string {
	return createVersionBranchStepNameConstant
}

func (operation createVersionBranchOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	startingBranch, lookupError := environment.Inspector.CurrentBranch(executionContext, state.RepositoryPath)
	if lookupError != nil {
		return operationFailure(ErrorCategoryExternalCommand, operation, environment.Configuration.Messages.FailedVersionBranch, lookupError)
	}
	state.StartingBranch = startingBranch

	if creationError := environment.Mutator.CreateBranch(executionContext, state.RepositoryPath, state.BranchName); creationError != nil {
		return operationFailure(ErrorCategoryExternalCommand, operation, environment.Configuration.Messages.FailedVersionBranch, creationError)
	}
	state.BranchCreated = true
	return nil
}

type commitVersionBumpOperation struct{}

func (commitVersionBumpOperation) Name() string {
	return commitVersionBumpStepNameConstant
}

func (operation commitVersionBumpOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if commitError := environment.Mutator.CommitAll(executionContext, state.RepositoryPath, state.CommitMessage); commitError != nil {
		return operationFailure(ErrorCategoryExternalCommand, operation, environment.Configuration.Messages.FailedVersionCommit, commitError)
	}
	return nil
}

type createVersionTagOperation struct{}

func (createVersionTagOperation) Name() string {
	return createVersionTagStepNameConstant
}

func (operation createVersionTagOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if tagError := environment.Mutator.CreateAnnotatedTag(executionContext, state.RepositoryPath, state.TagName, state.CommitMessage); tagError != nil {
		return operationFailure(ErrorCategoryExternalCommand, operation, environment.Configuration.Messages.FailedVersionTag, tagError)
	}
	return nil
}

type pushVersionOperation struct{}

func (pushVersionOperation) Name() string {
	return pushVersionStepNameConstant
}

func (operation pushVersionOperation) Execute(executionContext context.Context, environment *Environment, state *State) error {
	if pushError := environment.Mutator.Push(executionContext, state.RepositoryPath, environment.Configuration.Git.Remote, state.BranchName); pushError != nil {
		return operationFailure(ErrorCategoryExternalCommand, operation, environment.Configuration.Messages.FailedVersionPush, pushError)
	}
	return nil
}

// openPullRequestOperation builds the pull request URL and hands it to the browser.
// A browser that cannot be launched is only logged because the URL is reported either way.
type openPullRequestOperation struct{}

func (openPullRequestOperation) Name() string {
	return openPullRequestStepNameConstant
}

func (operation openPullRequestOperation) Execute(_ context.Context, environment *Environment, state *State) error {
	configuration := environment.Configuration
	message := configuration.Messages.UnavailablePullRequestURL

	browsingURL, browsingError := gitrepo.BrowsingURL(configuration.Git.URL)
	if browsingError != nil {
		return operationFailure(ErrorCategoryExternalCommand, operation, message, browsingError)
	}
	pullRequestURL, buildError := configuration.Git.Platform.BuildPullRequestURL(browsingURL, configuration.Git.PullRequest.Target, state.BranchName)
	if buildError != nil {
		return operationFailure(ErrorCategoryExternalCommand, operation, message, buildError)
	}
	state.PullRequestURL = pullRequestURL

	if !configuration.Git.PullRequest.OpenBrowser || environment.Browser == nil {
		return nil
	}
	if openError := environment.Browser.Open(pullRequestURL); openError != nil && environment.Logger != nil {
		environment.Logger.Warn(
			browserLaunchFailedMessageConstant,
			zap.String(logFieldMessageConstant, configuration.Messages.FailedBrowserLaunch),
			zap.String(logFieldPullRequestURLConstant, pullRequestURL),
			zap.Error(openError),
		)
	}
	return nil
}

func operationFailure(category ErrorCategory, operation Operation, message string, cause error) error {
	return OperationError{Category: category, Step: operation.Name(), Message: message, Cause: cause}
}
