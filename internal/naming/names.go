package naming

import (
	"strings"
)

const (
	branchSegmentSeparatorConstant = "/"
	versionPrefixConstant          = "v"
	versionPlaceholderConstant     = "%s"
	// FallbackCommitMessage is used when no commit template is configured for a kind.
	FallbackCommitMessage = "Read documentation and try to use versioning tool according to the standard."
)

// BranchName composes {prefix}/{label}/{version}/{comment}.
func BranchName(prefix string, label string, version string, comment string) string {
	return strings.Join([]string{prefix, label, version, comment}, branchSegmentSeparatorConstant)
}

// TagName composes {version}--{comment}.
func TagName(version string, comment string) string {
	return version + TagSeparator + comment
}

// CommitMessage substitutes the first %s in the template with the version.
func CommitMessage(template string, version string) string {
	if len(strings.TrimSpace(template)) == 0 {
		return FallbackCommitMessage
	}
	return strings.Replace(template, versionPlaceholderConstant, version, 1)
}

// TagEncodesVersion reports whether tag is version, v{version}, or begins with {version}--.
func TagEncodesVersion(tag string, version string) bool {
	trimmedTag := strings.TrimSpace(tag)
	if len(trimmedTag) == 0 || len(version) == 0 {
		return false
	}
	if trimmedTag == version || trimmedTag == versionPrefixConstant+version {
		return true
	}
	return strings.HasPrefix(trimmedTag, version+TagSeparator) ||
		strings.HasPrefix(trimmedTag, versionPrefixConstant+version+TagSeparator)
}

// BranchEncodesVersion reports whether any slash-separated segment of branch equals version.
func BranchEncodesVersion(branch string, version string) bool {
	if len(version) == 0 {
		return false
	}
	for _, segment := range strings.Split(strings.TrimSpace(branch), branchSegmentSeparatorConstant) {
		if segment == version {
			return true
		}
	}
	return false
}
