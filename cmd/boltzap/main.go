// Package main is the entry point for the boltzap CLI.
package main

import (
	"os"

	"github.com/boltzap/boltzap/internal/cli"
)

// Injected at build time via -ldflags.
//
//nolint:gochecknoglobals // build metadata must be package-level for ldflags
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	cli.SetBuildInfo(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
