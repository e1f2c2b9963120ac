// Package naming composes version branch names, tag names and commit messages, and validates the user comment embedded in them.
package naming
