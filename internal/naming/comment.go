package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// TagSeparator joins the version and the comment in tag names.
	TagSeparator = "--"

	commentMissingMessageConstant           = "comment is required"
	commentTooLongMessageConstant           = "comment is too long"
	commentTagSeparatorMessageConstant      = "comment contains the reserved tag separator"
	commentInvalidCharactersMessageConstant = "comment contains characters not allowed in branch names"
	commentInvalidShapeMessageConstant      = "comment is not a valid branch name segment"
	commentTooLongErrorTemplateConstant     = "%w: %d characters, must be less than %d"
	commentQuotedErrorTemplateConstant      = "%w: %q"
	referencePathSeparatorConstant          = "/"
	parentReferenceSequenceConstant         = ".."
	lockSuffixConstant                      = ".lock"
	hiddenSegmentPrefixConstant             = "."
	trailingDotConstant                     = "."
	hyphenConstant                          = "-"
)

var (
	// ErrCommentMissing indicates an empty comment.
	ErrCommentMissing = errors.New(commentMissingMessageConstant)
	// ErrCommentTooLong indicates a comment at or above the configured length limit.
	ErrCommentTooLong = errors.New(commentTooLongMessageConstant)
	// ErrCommentContainsTagSeparator indicates a comment containing "--" while the separator is reserved.
	ErrCommentContainsTagSeparator = errors.New(commentTagSeparatorMessageConstant)
	// ErrCommentInvalidCharacters indicates characters outside [A-Za-z0-9._/-].
	ErrCommentInvalidCharacters = errors.New(commentInvalidCharactersMessageConstant)
	// ErrCommentInvalidShape indicates a comment git would reject as part of a ref name.
	ErrCommentInvalidShape = errors.New(commentInvalidShapeMessageConstant)
)

var commentCharacterPattern = regexp.MustCompile(`^[A-Za-z0-9._/-]+$`)

// CommentRules configures comment validation.
type CommentRules struct {
	MaxLength          int
	ForbidTagSeparator bool
}

// ValidateComment trims the comment and checks it against the rules, returning the trimmed value.
func ValidateComment(rawComment string, rules CommentRules) (string, error) {
	comment := strings.TrimSpace(rawComment)
	if len(comment) == 0 {
		return "", ErrCommentMissing
	}

	if rules.MaxLength > 0 && len(comment) >= rules.MaxLength {
		return "", fmt.Errorf(commentTooLongErrorTemplateConstant, ErrCommentTooLong, len(comment), rules.MaxLength)
	}

	if rules.ForbidTagSeparator && strings.Contains(comment, TagSeparator) {
		return "", fmt.Errorf(commentQuotedErrorTemplateConstant, ErrCommentContainsTagSeparator, comment)
	}

	if !commentCharacterPattern.MatchString(comment) {
		return "", fmt.Errorf(commentQuotedErrorTemplateConstant, ErrCommentInvalidCharacters, comment)
	}

	if !hasValidShape(comment) {
		return "", fmt.Errorf(commentQuotedErrorTemplateConstant, ErrCommentInvalidShape, comment)
	}

	return comment, nil
}

// hasValidShape applies git's ref component rules and keeps the comment from touching the tag separator.
func hasValidShape(comment string) bool {
	if strings.HasPrefix(comment, hyphenConstant) ||
		strings.HasSuffix(comment, hyphenConstant) ||
		strings.HasSuffix(comment, trailingDotConstant) ||
		strings.Contains(comment, parentReferenceSequenceConstant) {
		return false
	}

	for _, segment := range strings.Split(comment, referencePathSeparatorConstant) {
		if len(segment) == 0 ||
			strings.HasPrefix(segment, hiddenSegmentPrefixConstant) ||
			strings.HasSuffix(segment, lockSuffixConstant) {
			return false
		}
	}
	return true
}
