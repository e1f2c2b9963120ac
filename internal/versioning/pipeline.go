package versioning

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/versionings/internal/semverkind"
)

const (
	stageStartedMessageConstant        = "version pipeline step started"
	stageCompletedMessageConstant      = "version pipeline step completed"
	stageSkippedMessageConstant        = "version pipeline step skipped"
	stageFailedMessageConstant         = "version pipeline step failed"
	rollbackStartedMessageConstant     = "discarding version bump after failure"
	rollbackFailedMessageConstant      = "unable to discard version bump"
	branchCleanupFailedMessageConstant = "unable to remove version branch"
	logFieldStepConstant               = "step"
	logFieldRepositoryPathConstant     = "repository_path"
)

// Operation is a single step of the version bump pipeline.
type Operation interface {
	Name() string
	Execute(executionContext context.Context, environment *Environment, state *State) error
}

// Environment exposes shared collaborators to pipeline operations.
type Environment struct {
	Configuration  Configuration
	Inspector      RepositoryInspector
	Mutator        RepositoryMutator
	PackageManager PackageManager
	Browser        BrowserOpener
	Logger         *zap.Logger
}

// State carries invocation parameters and the values produced by earlier steps.
type State struct {
	RepositoryPath       string
	RequestedKind        string
	RawComment           string
	PrereleaseIdentifier string
	Push                 bool

	Kind           semverkind.Kind
	Comment        string
	CurrentVersion string
	BumpedVersion  string
	NewVersion     string
	CommitMessage  string
	BranchName     string
	TagName        string
	PullRequestURL string
	CompletedSteps []string

	// StartingBranch is the branch (or detached commit) checked out before the version branch was created.
	StartingBranch string
	// BranchCreated is set once the version branch exists locally and must be removed on rollback.
	BranchCreated bool
}

// Stage wraps an operation with its failure policy.
type Stage struct {
	Operation Operation
	// RollbackOnFailure discards working tree changes with a hard reset when the operation fails.
	RollbackOnFailure bool
	// Condition, when set, must hold for the operation to run.
	Condition func(state *State) bool
}

// Pipeline runs stages in order and stops at the first failure.
type Pipeline struct {
	stages []Stage
}

// NewPipeline constructs a pipeline from the provided stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: append([]Stage{}, stages...)}
}

// Execute runs every applicable stage. A failure in a stage marked for rollback returns a RollbackError.
func (pipeline *Pipeline) Execute(executionContext context.Context, environment *Environment, state *State) error {
	logger := environment.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for stageIndex := range pipeline.stages {
		stage := pipeline.stages[stageIndex]
		if stage.Operation == nil {
			continue
		}

		stepField := zap.String(logFieldStepConstant, stage.Operation.Name())
		if stage.Condition != nil && !stage.Condition(state) {
			logger.Debug(stageSkippedMessageConstant, stepField)
			continue
		}

		logger.Debug(stageStartedMessageConstant, stepField)
		executeError := stage.Operation.Execute(executionContext, environment, state)
		if executeError == nil {
			state.CompletedSteps = append(state.CompletedSteps, stage.Operation.Name())
			logger.Debug(stageCompletedMessageConstant, stepField)
			continue
		}

		logger.Debug(stageFailedMessageConstant, stepField, zap.Error(executeError))
		if !stage.RollbackOnFailure {
			return executeError
		}
		return pipeline.rollback(executionContext, environment, state, stage.Operation.Name(), executeError, logger)
	}

	return nil
}

func (pipeline *Pipeline) rollback(executionContext context.Context, environment *Environment, state *State, step string, cause error, logger *zap.Logger) error {
	repositoryField := zap.String(logFieldRepositoryPathConstant, state.RepositoryPath)
	logger.Debug(rollbackStartedMessageConstant, zap.String(logFieldStepConstant, step), repositoryField)

	// Cleanup must run even when the failure was a cancellation.
	cleanupContext := context.WithoutCancel(executionContext)
	resetError := environment.Mutator.ResetHard(cleanupContext, state.RepositoryPath)
	if resetError != nil {
		logger.Warn(rollbackFailedMessageConstant, zap.String(logFieldStepConstant, step), repositoryField, zap.Error(resetError))
		return RollbackError{Step: step, Cause: cause, ResetError: resetError}
	}

	branchCleanupError := pipeline.removeVersionBranch(cleanupContext, environment, state)
	if branchCleanupError != nil {
		logger.Warn(branchCleanupFailedMessageConstant, zap.String(logFieldStepConstant, step), repositoryField, zap.String(logFieldBranchConstant, state.BranchName), zap.Error(branchCleanupError))
	}

	return RollbackError{Step: step, Cause: cause, BranchCleanupError: branchCleanupError}
}

// removeVersionBranch returns to the starting branch and deletes the version branch when this run created it.
func (pipeline *Pipeline) removeVersionBranch(cleanupContext context.Context, environment *Environment, state *State) error {
	if !state.BranchCreated || len(state.StartingBranch) == 0 {
		return nil
	}
	if checkoutError := environment.Mutator.CheckoutBranch(cleanupContext, state.RepositoryPath, state.StartingBranch); checkoutError != nil {
		return checkoutError
	}
	if deleteError := environment.Mutator.DeleteBranch(cleanupContext, state.RepositoryPath, state.BranchName); deleteError != nil {
		return deleteError
	}
	state.BranchCreated = false
	return nil
}
