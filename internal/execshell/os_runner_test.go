package execshell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeEnvironmentAppendsOverridesInKeyOrder(t *testing.T) {
	merged := mergeEnvironment([]string{"PATH=/usr/bin"}, map[string]string{
		"GIT_TERMINAL_PROMPT": "0",
		"CI":                  "true",
	})

	require.Equal(t, []string{"PATH=/usr/bin", "CI=true", "GIT_TERMINAL_PROMPT=0"}, merged)
}
