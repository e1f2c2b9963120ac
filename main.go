package main

import (
	"os"

	"github.com/temirov/versionings/cmd/cli"
)

// main executes the versionings command-line application.
func main() {
	os.Exit(cli.Execute())
}
