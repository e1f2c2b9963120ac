package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	openRepositoryErrorTemplateConstant   = "opening git repository at %s: %w"
	worktreeErrorTemplateConstant         = "getting worktree: %w"
	worktreeStatusErrorTemplateConstant   = "reading worktree status: %w"
	remoteLookupErrorTemplateConstant     = "reading remote %s: %w"
	remoteWithoutURLErrorTemplateConstant = "remote %s has no URL"
	listTagsErrorTemplateConstant         = "listing tags: %w"
	listBranchesErrorTemplateConstant     = "listing branches: %w"
	listReferencesErrorTemplateConstant   = "listing references: %w"
	remoteReferenceErrorTemplateConstant  = "reading remote-tracking branch %s: %w"
	headReferenceErrorTemplateConstant    = "reading HEAD: %w"
)

// GoGitInspector reads repository state in-process through go-git.
// RemoteBranchExists consults remote-tracking references, so it reflects the last fetch rather than the live remote.
type GoGitInspector struct{}

// NewGoGitInspector constructs a GoGitInspector.
func NewGoGitInspector() *GoGitInspector {
	return &GoGitInspector{}
}

// CheckCleanWorktree reports whether the worktree has no modified, staged or untracked files.
func (inspector *GoGitInspector) CheckCleanWorktree(_ context.Context, repositoryPath string) (bool, error) {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return false, openError
	}

	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return false, fmt.Errorf(worktreeErrorTemplateConstant, worktreeError)
	}

	status, statusError := worktree.Status()
	if statusError != nil {
		return false, fmt.Errorf(worktreeStatusErrorTemplateConstant, statusError)
	}
	return status.IsClean(), nil
}

// GetRemoteURL returns the first URL configured for remoteName.
func (inspector *GoGitInspector) GetRemoteURL(_ context.Context, repositoryPath string, remoteName string) (string, error) {
	if len(strings.TrimSpace(remoteName)) == 0 {
		return "", ErrReferenceNameRequired
	}

	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return "", openError
	}

	remote, remoteError := repository.Remote(remoteName)
	if remoteError != nil {
		return "", fmt.Errorf(remoteLookupErrorTemplateConstant, remoteName, remoteError)
	}

	remoteURLs := remote.Config().URLs
	if len(remoteURLs) == 0 {
		return "", fmt.Errorf(remoteWithoutURLErrorTemplateConstant, remoteName)
	}
	return remoteURLs[0], nil
}

// ListTags returns every tag name.
func (inspector *GoGitInspector) ListTags(_ context.Context, repositoryPath string) ([]string, error) {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return nil, openError
	}

	tagIterator, tagsError := repository.Tags()
	if tagsError != nil {
		return nil, fmt.Errorf(listTagsErrorTemplateConstant, tagsError)
	}

	tags := []string{}
	iterationError := tagIterator.ForEach(func(reference *plumbing.Reference) error {
		tags = append(tags, reference.Name().Short())
		return nil
	})
	if iterationError != nil {
		return nil, fmt.Errorf(listTagsErrorTemplateConstant, iterationError)
	}
	return tags, nil
}

// ListBranches returns local branches followed by remote-tracking branches such as origin/master.
func (inspector *GoGitInspector) ListBranches(_ context.Context, repositoryPath string) ([]string, error) {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return nil, openError
	}

	branchIterator, branchesError := repository.Branches()
	if branchesError != nil {
		return nil, fmt.Errorf(listBranchesErrorTemplateConstant, branchesError)
	}

	branches := []string{}
	iterationError := branchIterator.ForEach(func(reference *plumbing.Reference) error {
		branches = append(branches, reference.Name().Short())
		return nil
	})
	if iterationError != nil {
		return nil, fmt.Errorf(listBranchesErrorTemplateConstant, iterationError)
	}

	referenceIterator, referencesError := repository.References()
	if referencesError != nil {
		return nil, fmt.Errorf(listReferencesErrorTemplateConstant, referencesError)
	}
	iterationError = referenceIterator.ForEach(func(reference *plumbing.Reference) error {
		if !reference.Name().IsRemote() || reference.Type() == plumbing.SymbolicReference {
			return nil
		}
		branches = append(branches, reference.Name().Short())
		return nil
	})
	if iterationError != nil {
		return nil, fmt.Errorf(listReferencesErrorTemplateConstant, iterationError)
	}

	return branches, nil
}

// RemoteBranchExists reports whether refs/remotes/{remoteName}/{branchName} is present locally.
func (inspector *GoGitInspector) RemoteBranchExists(_ context.Context, repositoryPath string, remoteName string, branchName string) (bool, error) {
	if len(strings.TrimSpace(remoteName)) == 0 || len(strings.TrimSpace(branchName)) == 0 {
		return false, ErrReferenceNameRequired
	}

	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return false, openError
	}

	referenceName := plumbing.NewRemoteReferenceName(remoteName, branchName)
	_, referenceError := repository.Reference(referenceName, true)
	switch {
	case referenceError == nil:
		return true, nil
	case errors.Is(referenceError, plumbing.ErrReferenceNotFound):
		return false, nil
	default:
		return false, fmt.Errorf(remoteReferenceErrorTemplateConstant, referenceName.Short(), referenceError)
	}
}

// CurrentBranch returns the short name of the checked out branch, or the HEAD commit hash when HEAD is detached.
func (inspector *GoGitInspector) CurrentBranch(_ context.Context, repositoryPath string) (string, error) {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return "", openError
	}

	headReference, headError := repository.Head()
	if headError != nil {
		return "", fmt.Errorf(headReferenceErrorTemplateConstant, headError)
	}
	if headReference.Name().IsBranch() {
		return headReference.Name().Short(), nil
	}
	return headReference.Hash().String(), nil
}

func openRepository(repositoryPath string) (*gogit.Repository, error) {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return nil, ErrRepositoryPathRequired
	}

	repository, openError := gogit.PlainOpenWithOptions(repositoryPath, &gogit.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, repositoryPath, openError)
	}
	return repository, nil
}
