package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/versionings/internal/execshell"
)

const (
	gitExecutorNotConfiguredMessageConstant = "git executor not configured"
	repositoryPathRequiredMessageConstant   = "repository path required"
	referenceNameRequiredMessageConstant    = "reference name required"
	commitMessageRequiredMessageConstant    = "commit message required"
	headUnresolvedMessageConstant           = "HEAD does not resolve to a branch or commit"
	gitTerminalPromptEnvironmentConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant       = "0"
	gitStatusSubcommandConstant             = "status"
	gitPorcelainFlagConstant                = "--porcelain"
	gitRemoteSubcommandConstant             = "remote"
	gitGetURLSubcommandConstant             = "get-url"
	gitTagSubcommandConstant                = "tag"
	gitListFlagConstant                     = "--list"
	gitAnnotateFlagConstant                 = "-a"
	gitMessageFlagConstant                  = "-m"
	gitBranchSubcommandConstant             = "branch"
	gitAllFlagConstant                      = "--all"
	gitShortReferenceFormatFlagConstant     = "--format=%(refname:short)"
	gitLSRemoteSubcommandConstant           = "ls-remote"
	gitHeadsFlagConstant                    = "--heads"
	gitCheckoutSubcommandConstant           = "checkout"
	gitNewBranchFlagConstant                = "-b"
	gitAddSubcommandConstant                = "add"
	gitCommitSubcommandConstant             = "commit"
	gitPushSubcommandConstant               = "push"
	gitFollowTagsFlagConstant               = "--follow-tags"
	gitResetSubcommandConstant              = "reset"
	gitHardFlagConstant                     = "--hard"
	gitHeadReferenceConstant                = "HEAD"
	gitSymbolicReferenceSubcommandConstant  = "symbolic-ref"
	gitQuietFlagConstant                    = "--quiet"
	gitShortFlagConstant                    = "--short"
	gitRevParseSubcommandConstant           = "rev-parse"
	gitForceDeleteFlagConstant              = "-D"
	detachedHeadMarkerConstant              = "(HEAD"
	symbolicReferenceMarkerConstant         = " -> "
	remoteHeadSuffixConstant                = "/HEAD"
	lineSeparatorConstant                   = "\n"
	gitOperationErrorTemplateConstant       = "git %s: %w"
)

var (
	// ErrGitExecutorNotConfigured indicates NewRepositoryManager received a nil executor.
	ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessageConstant)
	// ErrRepositoryPathRequired indicates an operation was invoked without a repository path.
	ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)
	// ErrReferenceNameRequired indicates a branch, tag or remote name was empty.
	ErrReferenceNameRequired = errors.New(referenceNameRequiredMessageConstant)
	// ErrCommitMessageRequired indicates a commit or tag was requested without a message.
	ErrCommitMessageRequired = errors.New(commitMessageRequiredMessageConstant)
	// ErrHeadUnresolved indicates HEAD names neither a branch nor a commit.
	ErrHeadUnresolved = errors.New(headUnresolvedMessageConstant)
)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager inspects and mutates a repository through the git executable.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager validates the executor and constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CheckCleanWorktree reports whether git status shows neither tracked changes nor untracked files.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	result, executionError := manager.execute(executionContext, repositoryPath, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(result.StandardOutput)) == 0, nil
}

// GetRemoteURL returns the fetch URL configured for remoteName.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	if len(strings.TrimSpace(remoteName)) == 0 {
		return "", ErrReferenceNameRequired
	}
	result, executionError := manager.execute(executionContext, repositoryPath, gitRemoteSubcommandConstant, gitGetURLSubcommandConstant, remoteName)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// ListTags returns every local tag name.
func (manager *RepositoryManager) ListTags(executionContext context.Context, repositoryPath string) ([]string, error) {
	result, executionError := manager.execute(executionContext, repositoryPath, gitTagSubcommandConstant, gitListFlagConstant)
	if executionError != nil {
		return nil, executionError
	}
	return splitOutputLines(result.StandardOutput), nil
}

// ListBranches returns local branches and remote-tracking branches such as origin/master.
func (manager *RepositoryManager) ListBranches(executionContext context.Context, repositoryPath string) ([]string, error) {
	result, executionError := manager.execute(executionContext, repositoryPath, gitBranchSubcommandConstant, gitAllFlagConstant, gitShortReferenceFormatFlagConstant)
	if executionError != nil {
		return nil, executionError
	}

	branches := []string{}
	for _, line := range splitOutputLines(result.StandardOutput) {
		if strings.HasPrefix(line, detachedHeadMarkerConstant) || strings.Contains(line, symbolicReferenceMarkerConstant) || strings.HasSuffix(line, remoteHeadSuffixConstant) {
			continue
		}
		branches = append(branches, line)
	}
	return branches, nil
}

// RemoteBranchExists asks the remote whether branchName exists.
func (manager *RepositoryManager) RemoteBranchExists(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (bool, error) {
	if len(strings.TrimSpace(remoteName)) == 0 || len(strings.TrimSpace(branchName)) == 0 {
		return false, ErrReferenceNameRequired
	}
	result, executionError := manager.execute(executionContext, repositoryPath, gitLSRemoteSubcommandConstant, gitHeadsFlagConstant, remoteName, branchName)
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(result.StandardOutput)) > 0, nil
}

// CurrentBranch returns the checked out branch, or the HEAD commit hash when HEAD is detached.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	symbolicResult, symbolicError := manager.execute(executionContext, repositoryPath, gitSymbolicReferenceSubcommandConstant, gitQuietFlagConstant, gitShortFlagConstant, gitHeadReferenceConstant)
	if symbolicError == nil {
		if branchName := strings.TrimSpace(symbolicResult.StandardOutput); len(branchName) > 0 {
			return branchName, nil
		}
	}

	revisionResult, revisionError := manager.execute(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitHeadReferenceConstant)
	if revisionError != nil {
		return "", revisionError
	}
	revision := strings.TrimSpace(revisionResult.StandardOutput)
	if len(revision) == 0 {
		return "", fmt.Errorf(gitOperationErrorTemplateConstant, gitRevParseSubcommandConstant, ErrHeadUnresolved)
	}
	return revision, nil
}

// CreateBranch creates branchName from HEAD and checks it out.
func (manager *RepositoryManager) CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	if len(strings.TrimSpace(branchName)) == 0 {
		return ErrReferenceNameRequired
	}
	_, executionError := manager.execute(executionContext, repositoryPath, gitCheckoutSubcommandConstant, gitNewBranchFlagConstant, branchName)
	return executionError
}

// CheckoutBranch switches the working tree to an existing branch or commit.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	if len(strings.TrimSpace(branchName)) == 0 {
		return ErrReferenceNameRequired
	}
	_, executionError := manager.execute(executionContext, repositoryPath, gitCheckoutSubcommandConstant, branchName)
	return executionError
}

// DeleteBranch force-deletes a local branch that is not checked out.
func (manager *RepositoryManager) DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	if len(strings.TrimSpace(branchName)) == 0 {
		return ErrReferenceNameRequired
	}
	_, executionError := manager.execute(executionContext, repositoryPath, gitBranchSubcommandConstant, gitForceDeleteFlagConstant, branchName)
	return executionError
}

// CommitAll stages every change and commits it with message.
func (manager *RepositoryManager) CommitAll(executionContext context.Context, repositoryPath string, message string) error {
	if len(strings.TrimSpace(message)) == 0 {
		return ErrCommitMessageRequired
	}
	if _, addError := manager.execute(executionContext, repositoryPath, gitAddSubcommandConstant, gitAllFlagConstant); addError != nil {
		return addError
	}
	_, commitError := manager.execute(executionContext, repositoryPath, gitCommitSubcommandConstant, gitMessageFlagConstant, message)
	return commitError
}

// CreateAnnotatedTag tags HEAD with an annotated tag.
func (manager *RepositoryManager) CreateAnnotatedTag(executionContext context.Context, repositoryPath string, tagName string, message string) error {
	if len(strings.TrimSpace(tagName)) == 0 {
		return ErrReferenceNameRequired
	}
	if len(strings.TrimSpace(message)) == 0 {
		return ErrCommitMessageRequired
	}
	_, executionError := manager.execute(executionContext, repositoryPath, gitTagSubcommandConstant, gitAnnotateFlagConstant, tagName, gitMessageFlagConstant, message)
	return executionError
}

// Push publishes branchName to remoteName together with annotated tags reachable from it.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	if len(strings.TrimSpace(remoteName)) == 0 || len(strings.TrimSpace(branchName)) == 0 {
		return ErrReferenceNameRequired
	}
	_, executionError := manager.execute(executionContext, repositoryPath, gitPushSubcommandConstant, remoteName, branchName, gitFollowTagsFlagConstant)
	return executionError
}

// ResetHard discards every tracked change in the working tree.
func (manager *RepositoryManager) ResetHard(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.execute(executionContext, repositoryPath, gitResetSubcommandConstant, gitHardFlagConstant, gitHeadReferenceConstant)
	return executionError
}

func (manager *RepositoryManager) execute(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return execshell.ExecutionResult{}, ErrRepositoryPathRequired
	}

	result, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentConstant: gitTerminalPromptDisabledConstant},
	})
	if executionError != nil {
		return execshell.ExecutionResult{}, fmt.Errorf(gitOperationErrorTemplateConstant, arguments[0], executionError)
	}
	return result, nil
}

func splitOutputLines(output string) []string {
	lines := []string{}
	for _, line := range strings.Split(output, lineSeparatorConstant) {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 {
			continue
		}
		lines = append(lines, trimmedLine)
	}
	return lines
}
