package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitStatusSubcommandNameConstant       = "status"
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
	gitTagSubcommandNameConstant          = "tag"
	gitAnnotateFlagConstant               = "-a"
	gitBranchSubcommandNameConstant       = "branch"
	gitLSRemoteSubcommandNameConstant     = "ls-remote"
	gitCheckoutSubcommandNameConstant     = "checkout"
	gitNewBranchFlagConstant              = "-b"
	gitForceDeleteFlagConstant            = "-D"
	gitAddSubcommandNameConstant          = "add"
	gitCommitSubcommandNameConstant       = "commit"
	gitMessageFlagConstant                = "-m"
	gitPushSubcommandNameConstant         = "push"
	gitResetSubcommandNameConstant        = "reset"
	packageVersionSubcommandNameConstant  = "version"
)

const (
	gitStatusStartTemplateConstant            = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant          = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant          = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant = "Unable to review working tree status in %s: %s"

	gitRemoteLookupStartTemplateConstant            = "Checking %s remote for %s"
	gitRemoteLookupSuccessTemplateConstant          = "%s remote for %s points to %s"
	gitRemoteLookupFailureTemplateConstant          = "Failed to read %s remote for %s (exit code %d%s)"
	gitRemoteLookupExecutionFailureTemplateConstant = "Unable to read %s remote for %s: %s"

	gitTagListStartTemplateConstant              = "Listing tags in %s"
	gitTagListSuccessTemplateConstant            = "Listed tags in %s"
	gitTagListFailureTemplateConstant            = "Failed to list tags in %s (exit code %d%s)"
	gitTagListExecutionFailureTemplateConstant   = "Unable to list tags in %s: %s"
	gitTagCreateStartTemplateConstant            = "Creating annotated tag %s in %s"
	gitTagCreateSuccessTemplateConstant          = "Created annotated tag %s in %s"
	gitTagCreateFailureTemplateConstant          = "Failed to create annotated tag %s in %s (exit code %d%s)"
	gitTagCreateExecutionFailureTemplateConstant = "Unable to create annotated tag %s in %s: %s"

	gitBranchListStartTemplateConstant            = "Listing branches in %s"
	gitBranchListSuccessTemplateConstant          = "Listed branches in %s"
	gitBranchListFailureTemplateConstant          = "Failed to list branches in %s (exit code %d%s)"
	gitBranchListExecutionFailureTemplateConstant = "Unable to list branches in %s: %s"

	gitLSRemoteStartTemplateConstant            = "Looking up %s on %s from %s"
	gitLSRemoteSuccessTemplateConstant          = "Looked up %s on %s from %s"
	gitLSRemoteFailureTemplateConstant          = "Failed to look up %s on %s from %s (exit code %d%s)"
	gitLSRemoteExecutionFailureTemplateConstant = "Unable to look up %s on %s from %s: %s"

	gitBranchCreationStartTemplateConstant            = "Creating branch %s in %s"
	gitBranchCreationSuccessTemplateConstant          = "Created branch %s in %s"
	gitBranchCreationFailureTemplateConstant          = "Failed to create branch %s in %s (exit code %d%s)"
	gitBranchCreationExecutionFailureTemplateConstant = "Unable to create branch %s in %s: %s"

	gitBranchDeletionStartTemplateConstant            = "Deleting branch %s in %s"
	gitBranchDeletionSuccessTemplateConstant          = "Deleted branch %s in %s"
	gitBranchDeletionFailureTemplateConstant          = "Failed to delete branch %s in %s (exit code %d%s)"
	gitBranchDeletionExecutionFailureTemplateConstant = "Unable to delete branch %s in %s: %s"

	gitCheckoutStartTemplateConstant            = "Switching to %s in %s"
	gitCheckoutSuccessTemplateConstant          = "Switched to %s in %s"
	gitCheckoutFailureTemplateConstant          = "Failed to switch to %s in %s (exit code %d%s)"
	gitCheckoutExecutionFailureTemplateConstant = "Unable to switch to %s in %s: %s"

	gitAddStartTemplateConstant            = "Staging changes in %s"
	gitAddSuccessTemplateConstant          = "Staged changes in %s"
	gitAddFailureTemplateConstant          = "Failed to stage changes in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant = "Unable to stage changes in %s: %s"

	gitCommitStartTemplateConstant            = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant          = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant          = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant = "Unable to create commit in %s with message %q: %s"

	gitPushStartTemplateConstant            = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant          = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant          = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant = "Unable to push %s to %s from %s: %s"

	gitResetStartTemplateConstant            = "Discarding working tree changes in %s"
	gitResetSuccessTemplateConstant          = "Discarded working tree changes in %s"
	gitResetFailureTemplateConstant          = "Failed to discard working tree changes in %s (exit code %d%s)"
	gitResetExecutionFailureTemplateConstant = "Unable to discard working tree changes in %s: %s"

	packageVersionStartTemplateConstant            = "Bumping %s version with %s in %s"
	packageVersionSuccessTemplateConstant          = "Bumped %s version with %s in %s"
	packageVersionFailureTemplateConstant          = "Failed to bump %s version with %s in %s (exit code %d%s)"
	packageVersionExecutionFailureTemplateConstant = "Unable to bump %s version with %s in %s: %s"
)

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit {
		return formatter.describeGitMessage(command, result, failure, stage)
	}
	if formatter.argumentAtIndex(command.Details.Arguments, 0) == packageVersionSubcommandNameConstant {
		kind := formatter.ensureValue(formatter.argumentAtIndex(command.Details.Arguments, 1))
		return formatter.render(stageTemplates{
			start:            packageVersionStartTemplateConstant,
			success:          packageVersionSuccessTemplateConstant,
			failure:          packageVersionFailureTemplateConstant,
			executionFailure: packageVersionExecutionFailureTemplateConstant,
		}, []any{kind, string(command.Name), formatter.describeWorkingDirectory(command)}, result, failure, stage)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)

	switch strings.TrimSpace(arguments[0]) {
	case gitStatusSubcommandNameConstant:
		return formatter.render(stageTemplates{
			start:            gitStatusStartTemplateConstant,
			success:          gitStatusSuccessTemplateConstant,
			failure:          gitStatusFailureTemplateConstant,
			executionFailure: gitStatusExecutionFailureTemplateConstant,
		}, []any{workingDirectory}, result, failure, stage)
	case gitRemoteSubcommandNameConstant:
		if formatter.argumentAtIndex(arguments, 1) != gitRemoteGetURLSubcommandNameConstant {
			break
		}
		remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
		if stage == messageStageSuccess {
			return fmt.Sprintf(gitRemoteLookupSuccessTemplateConstant, remoteName, workingDirectory, formatter.ensureValue(strings.TrimSpace(result.StandardOutput)))
		}
		return formatter.render(stageTemplates{
			start:            gitRemoteLookupStartTemplateConstant,
			failure:          gitRemoteLookupFailureTemplateConstant,
			executionFailure: gitRemoteLookupExecutionFailureTemplateConstant,
		}, []any{remoteName, workingDirectory}, result, failure, stage)
	case gitTagSubcommandNameConstant:
		if containsArgument(arguments, gitAnnotateFlagConstant) {
			tagName := formatter.ensureValue(findFlagValue(arguments, gitAnnotateFlagConstant))
			return formatter.render(stageTemplates{
				start:            gitTagCreateStartTemplateConstant,
				success:          gitTagCreateSuccessTemplateConstant,
				failure:          gitTagCreateFailureTemplateConstant,
				executionFailure: gitTagCreateExecutionFailureTemplateConstant,
			}, []any{tagName, workingDirectory}, result, failure, stage)
		}
		return formatter.render(stageTemplates{
			start:            gitTagListStartTemplateConstant,
			success:          gitTagListSuccessTemplateConstant,
			failure:          gitTagListFailureTemplateConstant,
			executionFailure: gitTagListExecutionFailureTemplateConstant,
		}, []any{workingDirectory}, result, failure, stage)
	case gitBranchSubcommandNameConstant:
		if containsArgument(arguments, gitForceDeleteFlagConstant) {
			branchName := formatter.ensureValue(findFlagValue(arguments, gitForceDeleteFlagConstant))
			return formatter.render(stageTemplates{
				start:            gitBranchDeletionStartTemplateConstant,
				success:          gitBranchDeletionSuccessTemplateConstant,
				failure:          gitBranchDeletionFailureTemplateConstant,
				executionFailure: gitBranchDeletionExecutionFailureTemplateConstant,
			}, []any{branchName, workingDirectory}, result, failure, stage)
		}
		return formatter.render(stageTemplates{
			start:            gitBranchListStartTemplateConstant,
			success:          gitBranchListSuccessTemplateConstant,
			failure:          gitBranchListFailureTemplateConstant,
			executionFailure: gitBranchListExecutionFailureTemplateConstant,
		}, []any{workingDirectory}, result, failure, stage)
	case gitLSRemoteSubcommandNameConstant:
		remoteName, references := formatter.extractRemoteAndReferences(arguments[1:])
		return formatter.render(stageTemplates{
			start:            gitLSRemoteStartTemplateConstant,
			success:          gitLSRemoteSuccessTemplateConstant,
			failure:          gitLSRemoteFailureTemplateConstant,
			executionFailure: gitLSRemoteExecutionFailureTemplateConstant,
		}, []any{formatter.ensureValue(formatter.joinReferences(references)), formatter.ensureValue(remoteName), workingDirectory}, result, failure, stage)
	case gitCheckoutSubcommandNameConstant:
		if !containsArgument(arguments, gitNewBranchFlagConstant) {
			return formatter.render(stageTemplates{
				start:            gitCheckoutStartTemplateConstant,
				success:          gitCheckoutSuccessTemplateConstant,
				failure:          gitCheckoutFailureTemplateConstant,
				executionFailure: gitCheckoutExecutionFailureTemplateConstant,
			}, []any{formatter.ensureValue(formatter.argumentAtIndex(arguments, 1)), workingDirectory}, result, failure, stage)
		}
		branchName := formatter.ensureValue(findFlagValue(arguments, gitNewBranchFlagConstant))
		return formatter.render(stageTemplates{
			start:            gitBranchCreationStartTemplateConstant,
			success:          gitBranchCreationSuccessTemplateConstant,
			failure:          gitBranchCreationFailureTemplateConstant,
			executionFailure: gitBranchCreationExecutionFailureTemplateConstant,
		}, []any{branchName, workingDirectory}, result, failure, stage)
	case gitAddSubcommandNameConstant:
		return formatter.render(stageTemplates{
			start:            gitAddStartTemplateConstant,
			success:          gitAddSuccessTemplateConstant,
			failure:          gitAddFailureTemplateConstant,
			executionFailure: gitAddExecutionFailureTemplateConstant,
		}, []any{workingDirectory}, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		commitMessage := formatter.ensureValue(findFlagValue(arguments, gitMessageFlagConstant))
		return formatter.render(stageTemplates{
			start:            gitCommitStartTemplateConstant,
			success:          gitCommitSuccessTemplateConstant,
			failure:          gitCommitFailureTemplateConstant,
			executionFailure: gitCommitExecutionFailureTemplateConstant,
		}, []any{workingDirectory, commitMessage}, result, failure, stage)
	case gitPushSubcommandNameConstant:
		remoteName, references := formatter.extractRemoteAndReferences(arguments[1:])
		return formatter.render(stageTemplates{
			start:            gitPushStartTemplateConstant,
			success:          gitPushSuccessTemplateConstant,
			failure:          gitPushFailureTemplateConstant,
			executionFailure: gitPushExecutionFailureTemplateConstant,
		}, []any{formatter.ensureValue(formatter.joinReferences(references)), formatter.ensureValue(remoteName), workingDirectory}, result, failure, stage)
	case gitResetSubcommandNameConstant:
		return formatter.render(stageTemplates{
			start:            gitResetStartTemplateConstant,
			success:          gitResetSuccessTemplateConstant,
			failure:          gitResetFailureTemplateConstant,
			executionFailure: gitResetExecutionFailureTemplateConstant,
		}, []any{workingDirectory}, result, failure, stage)
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) render(templates stageTemplates, subjects []any, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subjects...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subjects...)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, append(subjects, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))...)
	default:
		return fmt.Sprintf(templates.executionFailure, append(subjects, formatter.describeFailure(failure))...)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[index])
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

func (formatter CommandMessageFormatter) extractRemoteAndReferences(arguments []string) (string, []string) {
	remoteName := emptyStringConstant
	references := []string{}
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		if len(remoteName) == 0 {
			remoteName = trimmed
			continue
		}
		references = append(references, trimmed)
	}
	return remoteName, references
}

func (formatter CommandMessageFormatter) joinReferences(references []string) string {
	cleaned := make([]string, 0, len(references))
	for _, reference := range references {
		trimmed := strings.TrimSpace(reference)
		if len(trimmed) == 0 {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	return strings.Join(cleaned, ", ")
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}
