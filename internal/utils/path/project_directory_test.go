package pathutils_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/versionings/internal/utils/path"
)

const (
	testHomeDirectoryConstant = "/home/builder"
)

func newTestResolver() *pathutils.ProjectDirectoryResolver {
	return pathutils.NewProjectDirectoryResolver(pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	}))
}

func TestProjectDirectoryResolverSelectsFirstCandidate(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	testCases := []struct {
		name         string
		candidates   []string
		expectedPath string
	}{
		{name: "absolute", candidates: []string{"/srv/widget"}, expectedPath: "/srv/widget"},
		{name: "blank_skipped", candidates: []string{"  ", "/srv/fallback"}, expectedPath: "/srv/fallback"},
		{name: "home_shortcut", candidates: []string{"~/projects/widget"}, expectedPath: "/home/builder/projects/widget"},
		{name: "home_only", candidates: []string{"~"}, expectedPath: testHomeDirectoryConstant},
		{name: "other_user_untouched", candidates: []string{"/srv/~other"}, expectedPath: "/srv/~other"},
		{name: "relative", candidates: []string{"widget"}, expectedPath: filepath.Join(workingDirectory, "widget")},
		{name: "nothing", candidates: nil, expectedPath: workingDirectory},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, newTestResolver().Resolve(testCase.candidates...))
		})
	}
}

func TestProjectDirectoryResolverRequiresDirectory(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	manifestPath := filepath.Join(projectDirectory, "package.json")
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte("{}"), 0o644))

	resolvedPath, resolveError := newTestResolver().ResolveExisting(projectDirectory)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, projectDirectory, resolvedPath)

	_, fileError := newTestResolver().ResolveExisting(manifestPath)
	require.ErrorIs(testInstance, fileError, pathutils.ErrProjectDirectoryNotDirectory)

	_, missingError := newTestResolver().ResolveExisting(filepath.Join(projectDirectory, "missing"))
	require.ErrorIs(testInstance, missingError, pathutils.ErrProjectDirectoryMissing)
}

func TestHomeExpanderKeepsPathWhenHomeUnknown(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/widget", expander.Expand("~/widget"))
}
