// Package packagemanager reads the project manifest version and bumps it through an npm-compatible executable.
package packagemanager
