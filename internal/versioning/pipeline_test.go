package versioning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/versionings/internal/versioning"
)

type recordedOperation struct {
	name      string
	failure   error
	journal   *[]string
	onExecute func(executionContext context.Context)
}

func (operation recordedOperation) Name() string {
	return operation.name
}

func (operation recordedOperation) Execute(executionContext context.Context, _ *versioning.Environment, _ *versioning.State) error {
	*operation.journal = append(*operation.journal, operation.name)
	if operation.onExecute != nil {
		operation.onExecute(executionContext)
	}
	return operation.failure
}

func TestPipelineRunsStagesInOrder(testInstance *testing.T) {
	journal := []string{}
	mutator := &recordingMutator{}
	state := &versioning.State{RepositoryPath: testRepositoryPathConstant}

	pipeline := versioning.NewPipeline(
		versioning.Stage{Operation: recordedOperation{name: "first", journal: &journal}},
		versioning.Stage{Operation: nil},
		versioning.Stage{Operation: recordedOperation{name: "skipped", journal: &journal}, Condition: func(*versioning.State) bool { return false }},
		versioning.Stage{Operation: recordedOperation{name: "second", journal: &journal}, RollbackOnFailure: true},
	)

	require.NoError(testInstance, pipeline.Execute(context.Background(), &versioning.Environment{Mutator: mutator}, state))
	require.Equal(testInstance, []string{"first", "second"}, journal)
	require.Equal(testInstance, []string{"first", "second"}, state.CompletedSteps)
	require.Zero(testInstance, mutator.resetCount)
}

func TestPipelineFailurePolicies(testInstance *testing.T) {
	stepFailure := errors.New("step failed")

	testCases := []struct {
		name               string
		rollbackOnFailure  bool
		resetError         error
		expectedResetCount int
		expectRollback     bool
	}{
		{name: "without_rollback", rollbackOnFailure: false, expectedResetCount: 0},
		{name: "with_rollback", rollbackOnFailure: true, expectedResetCount: 1, expectRollback: true},
		{name: "with_failed_rollback", rollbackOnFailure: true, resetError: errors.New("reset failed"), expectedResetCount: 1, expectRollback: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			journal := []string{}
			mutator := &recordingMutator{resetError: testCase.resetError}
			state := &versioning.State{RepositoryPath: testRepositoryPathConstant}

			pipeline := versioning.NewPipeline(
				versioning.Stage{Operation: recordedOperation{name: "prepare", journal: &journal}},
				versioning.Stage{Operation: recordedOperation{name: "mutate", journal: &journal, failure: stepFailure}, RollbackOnFailure: testCase.rollbackOnFailure},
				versioning.Stage{Operation: recordedOperation{name: "never", journal: &journal}, RollbackOnFailure: true},
			)

			executeError := pipeline.Execute(context.Background(), &versioning.Environment{Mutator: mutator}, state)
			require.ErrorIs(testInstance, executeError, stepFailure)
			require.Equal(testInstance, []string{"prepare", "mutate"}, journal)
			require.Equal(testInstance, []string{"prepare"}, state.CompletedSteps)
			require.Equal(testInstance, testCase.expectedResetCount, mutator.resetCount)

			var rollbackError versioning.RollbackError
			require.Equal(testInstance, testCase.expectRollback, errors.As(executeError, &rollbackError))
			if testCase.expectRollback {
				require.Equal(testInstance, "mutate", rollbackError.Step)
				require.Equal(testInstance, testCase.resetError, rollbackError.ResetError)
			}
			if testCase.resetError != nil {
				require.ErrorIs(testInstance, executeError, testCase.resetError)
			}
		})
	}
}

func TestPipelineResetsAfterCancellation(testInstance *testing.T) {
	journal := []string{}
	mutator := &recordingMutator{}
	executionContext, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipeline := versioning.NewPipeline(versioning.Stage{
		Operation: recordedOperation{
			name:    "bump",
			journal: &journal,
			failure: context.Canceled,
			onExecute: func(context.Context) {
				cancel()
			},
		},
		RollbackOnFailure: true,
	})

	executeError := pipeline.Execute(executionContext, &versioning.Environment{Mutator: mutator}, &versioning.State{})
	require.ErrorIs(testInstance, executeError, context.Canceled)
	require.Equal(testInstance, 1, mutator.resetCount)

	var rollbackError versioning.RollbackError
	require.ErrorAs(testInstance, executeError, &rollbackError)
	require.NoError(testInstance, rollbackError.ResetError)
}

func TestPipelineRollbackRemovesCreatedBranch(testInstance *testing.T) {
	stepFailure := errors.New("commit failed")

	testCases := []struct {
		name          string
		branchCreated bool
		resetError    error
		expectedCalls []string
	}{
		{name: "branch_created", branchCreated: true, expectedCalls: []string{"reset", "checkout develop", "branch -D version/patch/1.0.1/fix"}},
		{name: "branch_not_created", expectedCalls: []string{"reset"}},
		{name: "reset_failed", branchCreated: true, resetError: errors.New("index.lock exists"), expectedCalls: []string{"reset"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			journal := []string{}
			mutator := &recordingMutator{resetError: testCase.resetError}
			state := &versioning.State{
				RepositoryPath: testRepositoryPathConstant,
				BranchName:     "version/patch/1.0.1/fix",
				StartingBranch: "develop",
				BranchCreated:  testCase.branchCreated,
			}

			pipeline := versioning.NewPipeline(versioning.Stage{
				Operation:         recordedOperation{name: "commit", journal: &journal, failure: stepFailure},
				RollbackOnFailure: true,
			})

			executeError := pipeline.Execute(context.Background(), &versioning.Environment{Mutator: mutator}, state)
			require.ErrorIs(testInstance, executeError, stepFailure)
			require.Equal(testInstance, testCase.expectedCalls, mutator.calls)

			var rollbackError versioning.RollbackError
			require.ErrorAs(testInstance, executeError, &rollbackError)
			require.NoError(testInstance, rollbackError.BranchCleanupError)
		})
	}
}

func TestDefaultStagesOrder(testInstance *testing.T) {
	stageNames := []string{}
	rollbackStages := []string{}
	conditionalStages := []string{}
	for _, stage := range versioning.DefaultStages() {
		stageNames = append(stageNames, stage.Operation.Name())
		if stage.RollbackOnFailure {
			rollbackStages = append(rollbackStages, stage.Operation.Name())
		}
		if stage.Condition != nil {
			conditionalStages = append(conditionalStages, stage.Operation.Name())
		}
	}

	require.Equal(testInstance, []string{
		"read-current-version",
		"validate-semantic-version",
		"validate-comment",
		"verify-remote-url",
		"verify-clean-worktree",
		"bump-version",
		"read-bumped-version",
		"ensure-version-untagged",
		"verify-target-branch",
		"ensure-version-unbranched",
		"create-version-branch",
		"commit-version-bump",
		"create-version-tag",
		"push-version",
		"open-pull-request",
	}, stageNames)
	require.Equal(testInstance, []string{
		"bump-version",
		"read-bumped-version",
		"ensure-version-untagged",
		"verify-target-branch",
		"ensure-version-unbranched",
		"create-version-branch",
		"commit-version-bump",
	}, rollbackStages)
	require.Equal(testInstance, []string{"push-version", "open-pull-request"}, conditionalStages)
}
