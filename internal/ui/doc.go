// Package ui provides helpers for formatting human-readable console output.
//
// StatusReporter prints the colored lines a user reads after every run, while
// ConsoleCommandEventLogger narrates the git and package-manager commands the
// tool executes. Detailed telemetry continues to flow through structured loggers.
package ui
