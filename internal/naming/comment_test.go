package naming_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/versionings/internal/naming"
)

func TestValidateComment(testInstance *testing.T) {
	strictRules := naming.CommentRules{MaxLength: 100, ForbidTagSeparator: true}
	lenientRules := naming.CommentRules{MaxLength: 100}

	testCases := []struct {
		name            string
		comment         string
		rules           naming.CommentRules
		expectedComment string
		expectedError   error
	}{
		{name: "hyphen_case", comment: "fix-login-redirect", rules: strictRules, expectedComment: "fix-login-redirect"},
		{name: "trimmed", comment: "  docs  ", rules: strictRules, expectedComment: "docs"},
		{name: "nested_path", comment: "auth/fix.token_refresh", rules: strictRules, expectedComment: "auth/fix.token_refresh"},
		{name: "empty", comment: "   ", rules: strictRules, expectedError: naming.ErrCommentMissing},
		{name: "limit_reached", comment: strings.Repeat("a", 100), rules: strictRules, expectedError: naming.ErrCommentTooLong},
		{name: "below_limit", comment: strings.Repeat("a", 99), rules: strictRules, expectedComment: strings.Repeat("a", 99)},
		{name: "tag_separator_strict", comment: "fix--login", rules: strictRules, expectedError: naming.ErrCommentContainsTagSeparator},
		{name: "tag_separator_lenient", comment: "fix--login", rules: lenientRules, expectedComment: "fix--login"},
		{name: "whitespace_inside", comment: "fix login", rules: strictRules, expectedError: naming.ErrCommentInvalidCharacters},
		{name: "shell_characters", comment: "fix;rm", rules: strictRules, expectedError: naming.ErrCommentInvalidCharacters},
		{name: "leading_slash", comment: "/fix", rules: strictRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "trailing_slash", comment: "fix/", rules: strictRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "double_dot", comment: "fix..login", rules: strictRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "double_slash", comment: "fix//login", rules: strictRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "lock_suffix", comment: "index.lock", rules: strictRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "nested_lock_suffix", comment: "index.lock/fix", rules: strictRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "trailing_dot", comment: "foo.", rules: strictRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "hidden_segment", comment: ".hidden", rules: strictRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "nested_hidden_segment", comment: "a/.b", rules: strictRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "leading_hyphen", comment: "-x", rules: strictRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "leading_hyphen_lenient", comment: "-x", rules: lenientRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "trailing_hyphen", comment: "x-", rules: strictRules, expectedError: naming.ErrCommentInvalidShape},
		{name: "inner_dot_and_hyphen", comment: "v2.fix-login/a.b", rules: strictRules, expectedComment: "v2.fix-login/a.b"},
		{name: "no_limit", comment: strings.Repeat("b", 300), rules: naming.CommentRules{}, expectedComment: strings.Repeat("b", 300)},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			comment, validationError := naming.ValidateComment(testCase.comment, testCase.rules)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, validationError, testCase.expectedError)
				require.Empty(testInstance, comment)
				return
			}
			require.NoError(testInstance, validationError)
			require.Equal(testInstance, testCase.expectedComment, comment)
		})
	}
}
