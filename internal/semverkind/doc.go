// Package semverkind defines the closed set of semantic version bump kinds and validates version strings.
package semverkind
