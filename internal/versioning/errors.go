package versioning

import (
	"errors"
	"fmt"

	"github.com/temirov/versionings/internal/hosting"
	"github.com/temirov/versionings/internal/utils"
)

const (
	semanticVersionMissingMessageConstant   = "semantic version kind is required"
	remoteMismatchMessageConstant           = "remote url does not match the configured repository url"
	worktreeNotCleanMessageConstant         = "working tree has uncommitted changes"
	versionNotAdvancedMessageConstant       = "bumped version does not advance the current version"
	versionMismatchMessageConstant          = "package manager output disagrees with the manifest"
	versionAlreadyTaggedMessageConstant     = "version is already tagged"
	targetBranchMissingMessageConstant      = "target branch does not exist on the remote"
	versionAlreadyBranchedMessageConstant   = "version already has a branch"
	operationErrorWithCauseTemplateConstant = "%s: %v"
	rollbackSucceededTemplateConstant       = "%v (working tree reset after %s)"
	rollbackFailedTemplateConstant          = "%v (working tree reset after %s failed: %v)"
	resetFailureSuffixTemplateConstant      = "%s Working tree reset failed: %v"
	branchCleanupFailedTemplateConstant     = "%v (working tree reset after %s, version branch cleanup failed: %v)"
	branchCleanupSuffixTemplateConstant     = "%s Version branch cleanup failed: %v"
	configurationStepNameConstant           = "load-configuration"
)

var (
	// ErrSemanticVersionMissing indicates --semver was not supplied.
	ErrSemanticVersionMissing = errors.New(semanticVersionMissingMessageConstant)
	// ErrRemoteMismatch indicates the local remote points somewhere other than git.url.
	ErrRemoteMismatch = errors.New(remoteMismatchMessageConstant)
	// ErrWorktreeNotClean indicates uncommitted or untracked changes.
	ErrWorktreeNotClean = errors.New(worktreeNotCleanMessageConstant)
	// ErrVersionNotAdvanced indicates the bumped version does not order after the current one.
	ErrVersionNotAdvanced = errors.New(versionNotAdvancedMessageConstant)
	// ErrVersionMismatch indicates the manifest and the package manager report different versions.
	ErrVersionMismatch = errors.New(versionMismatchMessageConstant)
	// ErrVersionAlreadyTagged indicates an existing tag encodes the bumped version.
	ErrVersionAlreadyTagged = errors.New(versionAlreadyTaggedMessageConstant)
	// ErrTargetBranchMissing indicates the pull request target branch is absent on the remote.
	ErrTargetBranchMissing = errors.New(targetBranchMissingMessageConstant)
	// ErrVersionAlreadyBranched indicates an existing local or remote branch encodes the bumped version.
	ErrVersionAlreadyBranched = errors.New(versionAlreadyBranchedMessageConstant)
)

// ErrorCategory classifies failures for reporting.
type ErrorCategory string

// Error categories.
const (
	ErrorCategoryConfiguration   ErrorCategory = ErrorCategory("configuration")
	ErrorCategoryInput           ErrorCategory = ErrorCategory("input")
	ErrorCategoryRepositoryState ErrorCategory = ErrorCategory("repository_state")
	ErrorCategoryExternalCommand ErrorCategory = ErrorCategory("external_command")
)

// OperationError reports a failed pipeline step with a user-facing message.
type OperationError struct {
	Category ErrorCategory
	Step     string
	Message  string
	Cause    error
}

// Error describes the failure including its cause.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return operationError.Message
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Message, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// RollbackError records that a failed step triggered a hard reset of the working tree.
// ResetError is nil when the reset succeeded. BranchCleanupError is set when returning to the
// starting branch or deleting the version branch failed after a successful reset.
type RollbackError struct {
	Step               string
	Cause              error
	ResetError         error
	BranchCleanupError error
}

// Error describes the original failure and the outcome of the cleanup.
func (rollbackError RollbackError) Error() string {
	switch {
	case rollbackError.ResetError != nil:
		return fmt.Sprintf(rollbackFailedTemplateConstant, rollbackError.Cause, rollbackError.Step, rollbackError.ResetError)
	case rollbackError.BranchCleanupError != nil:
		return fmt.Sprintf(branchCleanupFailedTemplateConstant, rollbackError.Cause, rollbackError.Step, rollbackError.BranchCleanupError)
	default:
		return fmt.Sprintf(rollbackSucceededTemplateConstant, rollbackError.Cause, rollbackError.Step)
	}
}

// Unwrap exposes the original failure and any cleanup failures.
func (rollbackError RollbackError) Unwrap() []error {
	causes := make([]error, 0, 3)
	for _, candidate := range []error{rollbackError.Cause, rollbackError.ResetError, rollbackError.BranchCleanupError} {
		if candidate != nil {
			causes = append(causes, candidate)
		}
	}
	return causes
}

// NewConfigurationError maps configuration loading and validation failures to their user-facing messages.
func NewConfigurationError(messages Messages, cause error) OperationError {
	resolvedMessages := messages.withDefaults(DefaultMessages())
	message := cause.Error()

	var platformError hosting.UnsupportedPlatformError
	switch {
	case errors.Is(cause, utils.ErrConfigurationFileNotFound):
		message = resolvedMessages.VersionConfigDoesNotExist
	case errors.Is(cause, ErrRepositoryURLMissing):
		message = resolvedMessages.UndefinedGitRepositoryURL
	case errors.As(cause, &platformError):
		message = resolvedMessages.UnavailableGitPlatform
	case errors.Is(cause, ErrUnsupportedBackend):
		message = resolvedMessages.UnsupportedGitBackend
	}

	return OperationError{Category: ErrorCategoryConfiguration, Step: configurationStepNameConstant, Message: message, Cause: cause}
}

// DescribeFailure returns the category and the single line shown to the user for err.
// Errors produced outside the pipeline are reported as external command failures with their own text.
func DescribeFailure(failure error) (ErrorCategory, string) {
	if failure == nil {
		return "", ""
	}

	var operationError OperationError
	if !errors.As(failure, &operationError) {
		return ErrorCategoryExternalCommand, failure.Error()
	}

	message := operationError.Message
	if operationError.Category == ErrorCategoryExternalCommand && operationError.Cause != nil {
		message = operationError.Error()
	}

	var rollbackError RollbackError
	if errors.As(failure, &rollbackError) {
		switch {
		case rollbackError.ResetError != nil:
			message = fmt.Sprintf(resetFailureSuffixTemplateConstant, message, rollbackError.ResetError)
		case rollbackError.BranchCleanupError != nil:
			message = fmt.Sprintf(branchCleanupSuffixTemplateConstant, message, rollbackError.BranchCleanupError)
		}
	}

	return operationError.Category, message
}
