// Package main provides the entry point for the rthealth CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/rthealth/internal/cli"
	"github.com/mrz1836/rthealth/internal/signal"
)

// Set via ldflags at build time.
//
//nolint:gochecknoglobals // Build-time version injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	h := signal.NewHandler(context.Background())
	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	h.Stop()
	os.Exit(cli.ExitCodeForError(err))
}
