package versioning_test

import (
	"context"
	"strings"

	"github.com/temirov/versionings/internal/packagemanager"
	"github.com/temirov/versionings/internal/versioning"
)

const (
	testRepositoryPathConstant = "/workspace/widget"
	testRepositoryURLConstant  = "git@github.com:org/widget.git"
	testCurrentVersionConstant = "1.0.0"
	testBumpedVersionConstant  = "1.0.1"
	testCommentConstant        = "fix-login"
)

type stubInspector struct {
	clean              bool
	remoteURL          string
	tags               []string
	branches           []string
	targetBranchExists bool
	currentBranch      string
	statusError        error
	remoteError        error
	tagsError          error
	branchesError      error
	lookupError        error
	currentBranchError error
	calls              []string
}

func newHealthyInspector() *stubInspector {
	return &stubInspector{
		clean:              true,
		remoteURL:          "https://github.com/org/widget.git",
		tags:               []string{"0.9.0--initial", "1.0.0--launch"},
		branches:           []string{"master", "origin/master", "origin/version/minor/1.0.0/launch"},
		targetBranchExists: true,
		currentBranch:      "master",
	}
}

func (inspector *stubInspector) CheckCleanWorktree(context.Context, string) (bool, error) {
	inspector.calls = append(inspector.calls, "status")
	return inspector.clean, inspector.statusError
}

func (inspector *stubInspector) GetRemoteURL(context.Context, string, string) (string, error) {
	inspector.calls = append(inspector.calls, "remote")
	return inspector.remoteURL, inspector.remoteError
}

func (inspector *stubInspector) ListTags(context.Context, string) ([]string, error) {
	inspector.calls = append(inspector.calls, "tags")
	return append([]string{}, inspector.tags...), inspector.tagsError
}

func (inspector *stubInspector) ListBranches(context.Context, string) ([]string, error) {
	inspector.calls = append(inspector.calls, "branches")
	return append([]string{}, inspector.branches...), inspector.branchesError
}

func (inspector *stubInspector) RemoteBranchExists(_ context.Context, _ string, remoteName string, branchName string) (bool, error) {
	inspector.calls = append(inspector.calls, "ls-remote "+remoteName+" "+branchName)
	return inspector.targetBranchExists, inspector.lookupError
}

func (inspector *stubInspector) CurrentBranch(context.Context, string) (string, error) {
	inspector.calls = append(inspector.calls, "current-branch")
	return inspector.currentBranch, inspector.currentBranchError
}

type recordingMutator struct {
	branchError   error
	commitError   error
	tagError      error
	pushError     error
	resetError    error
	checkoutError error
	deleteError   error
	calls         []string
	resetCount    int
}

func (mutator *recordingMutator) CreateBranch(_ context.Context, _ string, branchName string) error {
	mutator.calls = append(mutator.calls, "checkout -b "+branchName)
	return mutator.branchError
}

func (mutator *recordingMutator) CommitAll(_ context.Context, _ string, message string) error {
	mutator.calls = append(mutator.calls, "commit "+message)
	return mutator.commitError
}

func (mutator *recordingMutator) CreateAnnotatedTag(_ context.Context, _ string, tagName string, message string) error {
	mutator.calls = append(mutator.calls, "tag "+tagName+" "+message)
	return mutator.tagError
}

func (mutator *recordingMutator) Push(_ context.Context, _ string, remoteName string, branchName string) error {
	mutator.calls = append(mutator.calls, "push "+remoteName+" "+branchName)
	return mutator.pushError
}

func (mutator *recordingMutator) ResetHard(executionContext context.Context, _ string) error {
	mutator.resetCount++
	mutator.calls = append(mutator.calls, "reset")
	if executionContext.Err() != nil {
		return executionContext.Err()
	}
	return mutator.resetError
}

func (mutator *recordingMutator) CheckoutBranch(_ context.Context, _ string, branchName string) error {
	mutator.calls = append(mutator.calls, "checkout "+branchName)
	return mutator.checkoutError
}

func (mutator *recordingMutator) DeleteBranch(_ context.Context, _ string, branchName string) error {
	mutator.calls = append(mutator.calls, "branch -D "+branchName)
	return mutator.deleteError
}

func (mutator *recordingMutator) performed(prefix string) bool {
	for _, call := range mutator.calls {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

// scriptedPackageManager reports the current version until Bump runs and the bumped version afterwards.
type scriptedPackageManager struct {
	currentVersion  string
	bumpedVersion   string
	manifestVersion string
	readError       error
	bumpError       error
	bumped          bool
	bumpOptions     []packagemanager.BumpOptions
}

func newScriptedPackageManager() *scriptedPackageManager {
	return &scriptedPackageManager{currentVersion: testCurrentVersionConstant, bumpedVersion: testBumpedVersionConstant}
}

func (manager *scriptedPackageManager) ReadVersion(string) (string, error) {
	if manager.readError != nil {
		return "", manager.readError
	}
	if !manager.bumped {
		return manager.currentVersion, nil
	}
	if len(manager.manifestVersion) > 0 {
		return manager.manifestVersion, nil
	}
	return manager.bumpedVersion, nil
}

func (manager *scriptedPackageManager) Bump(_ context.Context, options packagemanager.BumpOptions) (string, error) {
	manager.bumpOptions = append(manager.bumpOptions, options)
	if manager.bumpError != nil {
		return "", manager.bumpError
	}
	manager.bumped = true
	return manager.bumpedVersion, nil
}

type recordingBrowser struct {
	openError error
	opened    []string
}

func (browser *recordingBrowser) Open(address string) error {
	browser.opened = append(browser.opened, address)
	return browser.openError
}

func testConfiguration() versioning.Configuration {
	configuration := versioning.DefaultConfiguration()
	configuration.Project.Title = "Widget"
	configuration.Git.URL = testRepositoryURLConstant
	configuration.Git.Platform = "github"
	return configuration
}
