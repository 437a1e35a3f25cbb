package main

import (
	"os"

	"github.com/codex-labs/create-codex-app/internal/cli"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		os.Exit(cli.Report(os.Stderr, err))
	}
}
