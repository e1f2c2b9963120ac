package pathutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	currentDirectoryConstant            = "."
	projectDirectoryMissingMessage      = "project directory does not exist"
	projectDirectoryNotDirectoryMessage = "project path is not a directory"
	projectDirectoryErrorTemplate       = "%w: %s"
)

var (
	// ErrProjectDirectoryMissing indicates the resolved project directory does not exist.
	ErrProjectDirectoryMissing = errors.New(projectDirectoryMissingMessage)
	// ErrProjectDirectoryNotDirectory indicates the resolved project path is a file.
	ErrProjectDirectoryNotDirectory = errors.New(projectDirectoryNotDirectoryMessage)
)

// ProjectDirectoryResolver turns the user-supplied project directory into an absolute path.
type ProjectDirectoryResolver struct {
	homeExpander *HomeExpander
}

// NewProjectDirectoryResolver constructs a resolver that expands ~ through homeExpander.
func NewProjectDirectoryResolver(homeExpander *HomeExpander) *ProjectDirectoryResolver {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &ProjectDirectoryResolver{homeExpander: homeExpander}
}

// Resolve picks the first non-blank candidate, expands ~, and returns its absolute form.
// An empty candidate list resolves the current directory.
func (resolver *ProjectDirectoryResolver) Resolve(candidates ...string) string {
	selectedPath := currentDirectoryConstant
	for _, candidate := range candidates {
		if trimmedCandidate := strings.TrimSpace(candidate); len(trimmedCandidate) > 0 {
			selectedPath = trimmedCandidate
			break
		}
	}

	expandedPath := resolver.homeExpander.Expand(selectedPath)
	absolutePath, absoluteError := filepath.Abs(expandedPath)
	if absoluteError != nil {
		return filepath.Clean(expandedPath)
	}
	return absolutePath
}

// ResolveExisting resolves the candidates and requires the result to be an existing directory.
func (resolver *ProjectDirectoryResolver) ResolveExisting(candidates ...string) (string, error) {
	resolvedPath := resolver.Resolve(candidates...)
	fileInfo, statError := os.Stat(resolvedPath)
	if statError != nil {
		return "", fmt.Errorf(projectDirectoryErrorTemplate, ErrProjectDirectoryMissing, resolvedPath)
	}
	if !fileInfo.IsDir() {
		return "", fmt.Errorf(projectDirectoryErrorTemplate, ErrProjectDirectoryNotDirectory, resolvedPath)
	}
	return resolvedPath, nil
}
