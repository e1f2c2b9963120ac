// Package cli constructs the versionings command-line interface. It loads
// version.json through the configuration loader, builds the structured logger,
// and wires the version bump command together with the config and version
// subcommands.
package cli
