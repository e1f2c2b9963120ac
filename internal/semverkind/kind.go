package semverkind

import (
	"errors"
	"fmt"
	"strings"
)

const (
	unsupportedKindMessageConstant       = "unsupported semantic version kind"
	unsupportedKindErrorTemplateConstant = "%w: %q"
	prereleaseKindPrefixConstant         = "pre"
)

// Kind names a package-manager bump strategy.
type Kind string

// Supported bump kinds, in the order the package manager documents them.
const (
	KindPatch      Kind = Kind("patch")
	KindPrepatch   Kind = Kind("prepatch")
	KindMinor      Kind = Kind("minor")
	KindPreminor   Kind = Kind("preminor")
	KindPremajor   Kind = Kind("premajor")
	KindPrerelease Kind = Kind("prerelease")
	KindMajor      Kind = Kind("major")
)

// ErrUnsupportedKind indicates a kind outside the supported set.
var ErrUnsupportedKind = errors.New(unsupportedKindMessageConstant)

var supportedKinds = []Kind{
	KindPatch,
	KindPrepatch,
	KindMinor,
	KindPreminor,
	KindPremajor,
	KindPrerelease,
	KindMajor,
}

// All returns every supported kind.
func All() []Kind {
	return append([]Kind{}, supportedKinds...)
}

// Names returns every supported kind as a string.
func Names() []string {
	names := make([]string, 0, len(supportedKinds))
	for _, kind := range supportedKinds {
		names = append(names, string(kind))
	}
	return names
}

// Parse resolves a user-supplied kind. Matching ignores case and surrounding whitespace.
func Parse(rawKind string) (Kind, error) {
	candidate := Kind(strings.ToLower(strings.TrimSpace(rawKind)))
	if candidate.IsSupported() {
		return candidate, nil
	}
	return "", fmt.Errorf(unsupportedKindErrorTemplateConstant, ErrUnsupportedKind, rawKind)
}

// IsSupported reports whether the kind belongs to the supported set.
func (kind Kind) IsSupported() bool {
	for _, supportedKind := range supportedKinds {
		if kind == supportedKind {
			return true
		}
	}
	return false
}

// IsPrerelease reports whether the kind produces a prerelease version and accepts a prerelease identifier.
func (kind Kind) IsPrerelease() bool {
	return kind.IsSupported() && strings.HasPrefix(string(kind), prereleaseKindPrefixConstant)
}

// String returns the kind name.
func (kind Kind) String() string {
	return string(kind)
}
