package semverkind

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	versionPrefixConstant               = "v"
	invalidVersionMessageConstant       = "invalid semantic version"
	invalidVersionErrorTemplateConstant = "%w: %q"
)

// ErrInvalidVersion indicates a version string that is not a full MAJOR.MINOR.PATCH semantic version.
var ErrInvalidVersion = errors.New(invalidVersionMessageConstant)

// NormalizeVersion trims whitespace and a single leading "v".
func NormalizeVersion(rawVersion string) string {
	return strings.TrimPrefix(strings.TrimSpace(rawVersion), versionPrefixConstant)
}

// ValidateVersion accepts only complete versions such as 1.2.3 or 1.2.3-beta.0, with or without a leading "v".
func ValidateVersion(rawVersion string) (string, error) {
	normalizedVersion := NormalizeVersion(rawVersion)
	prefixedVersion := versionPrefixConstant + normalizedVersion
	if !semver.IsValid(prefixedVersion) {
		return "", fmt.Errorf(invalidVersionErrorTemplateConstant, ErrInvalidVersion, rawVersion)
	}
	// semver.IsValid accepts shorthands like v1.2, which package managers never emit.
	if semver.Canonical(prefixedVersion)+semver.Build(prefixedVersion) != prefixedVersion {
		return "", fmt.Errorf(invalidVersionErrorTemplateConstant, ErrInvalidVersion, rawVersion)
	}
	return normalizedVersion, nil
}

// IsGreater reports whether candidate orders strictly after baseline. Both must be valid.
func IsGreater(candidate string, baseline string) bool {
	return semver.Compare(versionPrefixConstant+NormalizeVersion(candidate), versionPrefixConstant+NormalizeVersion(baseline)) > 0
}

// IsPrereleaseVersion reports whether the version carries a prerelease suffix.
func IsPrereleaseVersion(version string) bool {
	return len(semver.Prerelease(versionPrefixConstant+NormalizeVersion(version))) > 0
}
