// Package versioning bumps a project's semantic version and records it in git.
//
// A run is an ordered pipeline of operations: it validates the invocation and
// the repository, asks the package manager for the new version, and then
// creates a version branch, a commit, and an annotated tag. Pushing and opening
// a pull request are optional final steps. Steps that fail after the manifest
// was modified discard the change with a hard reset.
package versioning
