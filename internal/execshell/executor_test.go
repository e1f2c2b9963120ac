package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/versionings/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant               = "success"
	testExecutionFailureCaseNameConstant               = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant           = "runner_error"
	testExecutionStandardErrorCaseNameConstant         = "standard_error_with_strict_mode"
	testExecutionStandardErrorTolerantCaseNameConstant = "standard_error_tolerated"
	testGitWrapperCaseNameConstant                     = "git_wrapper"
	testPackageManagerWrapperCaseNameConstant          = "package_manager_wrapper"
	testPackageManagerDefaultWrapperCaseNameConstant   = "package_manager_default_wrapper"
	testCommandArgumentConstant                        = "--version"
	testWorkingDirectoryConstant                       = "."
	testStandardErrorOutputConstant                    = "failure"
	testLoggerInitializationCaseNameConstant           = "logger_validation"
	testRunnerInitializationCaseNameConstant           = "runner_validation"
	testSuccessfulInitializationCaseNameConstant       = "successful_initialization"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

type recordingEventObserver struct {
	started   int
	completed int
	failed    int
}

func (recorder *recordingEventObserver) CommandStarted(execshell.ShellCommand) {
	recorder.started++
}

func (recorder *recordingEventObserver) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {
	recorder.completed++
}

func (recorder *recordingEventObserver) CommandExecutionFailed(execshell.ShellCommand, error) {
	recorder.failed++
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name                string
		runnerResult        execshell.ExecutionResult
		runnerError         error
		failOnStandardError bool
		expectErrorType     any
		expectedLogCount    int
		expectedCompleted   int
		expectedFailed      int
	}{
		{
			name: testExecutionSuccessCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardOutput: "ok",
				ExitCode:       0,
			},
			expectedLogCount:  2,
			expectedCompleted: 1,
		},
		{
			name: testExecutionFailureCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardError: testStandardErrorOutputConstant,
				ExitCode:      1,
			},
			expectErrorType:   execshell.CommandFailedError{},
			expectedLogCount:  2,
			expectedCompleted: 1,
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			runnerError:      errors.New("runner failure"),
			expectErrorType:  execshell.CommandExecutionError{},
			expectedLogCount: 2,
			expectedFailed:   1,
		},
		{
			name: testExecutionStandardErrorCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardOutput: "1.0.1",
				StandardError:  "npm WARN config",
			},
			failOnStandardError: true,
			expectErrorType:     execshell.CommandFailedError{},
			expectedLogCount:    2,
			expectedCompleted:   1,
		},
		{
			name: testExecutionStandardErrorTolerantCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardOutput: "1.0.1",
				StandardError:  "npm WARN config",
			},
			expectedLogCount:  2,
			expectedCompleted: 1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}
			eventRecorder := &recordingEventObserver{}

			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner, execshell.WithCommandEventObserver(eventRecorder))
			require.NoError(testInstance, creationError)

			commandDetails := execshell.CommandDetails{
				Arguments:           []string{testCommandArgumentConstant},
				WorkingDirectory:    testWorkingDirectoryConstant,
				FailOnStandardError: testCase.failOnStandardError,
			}
			executionResult, executionError := shellExecutor.ExecuteGit(context.Background(), commandDetails)

			if testCase.expectErrorType != nil {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, testCase.expectErrorType, executionError)
				require.Empty(testInstance, executionResult.StandardOutput)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult.StandardOutput, executionResult.StandardOutput)
			}

			require.Len(testInstance, observerLogs.All(), testCase.expectedLogCount)
			require.Equal(testInstance, 1, eventRecorder.started)
			require.Equal(testInstance, testCase.expectedCompleted, eventRecorder.completed)
			require.Equal(testInstance, testCase.expectedFailed, eventRecorder.failed)
		})
	}
}

func TestCommandExecutionErrorUnwrapsCause(testInstance *testing.T) {
	cause := errors.New("executable file not found")
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), &recordingCommandRunner{executionError: cause})
	require.NoError(testInstance, creationError)

	_, executionError := shellExecutor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"status"}})
	require.ErrorIs(testInstance, executionError, cause)
	require.Contains(testInstance, executionError.Error(), "git status")
}

func TestShellExecutorWrappersSetCommandNames(testInstance *testing.T) {
	observerCore, _ := observer.New(zap.DebugLevel)
	logger := zap.New(observerCore)

	testCases := []struct {
		name            string
		invoke          func(executor *execshell.ShellExecutor) error
		expectedCommand execshell.CommandName
	}{
		{
			name: testGitWrapperCaseNameConstant,
			invoke: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand: execshell.CommandGit,
		},
		{
			name: testPackageManagerWrapperCaseNameConstant,
			invoke: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecutePackageManager(context.Background(), execshell.CommandName("pnpm"), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand: execshell.CommandName("pnpm"),
		},
		{
			name: testPackageManagerDefaultWrapperCaseNameConstant,
			invoke: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecutePackageManager(context.Background(), execshell.CommandName(" "), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand: execshell.CommandNPM,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			recordingRunner := &recordingCommandRunner{
				executionResult: execshell.ExecutionResult{ExitCode: 1},
			}

			executor, creationError := execshell.NewShellExecutor(logger, recordingRunner)
			require.NoError(testInstance, creationError)

			executionError := testCase.invoke(executor)
			require.Error(testInstance, executionError)
			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			recordedCommand := recordingRunner.recordedCommands[0]
			require.Equal(testInstance, testCase.expectedCommand, recordedCommand.Name)
		})
	}
}
