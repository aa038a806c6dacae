// Package main provides the entry point for the taskschema CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/taskschema/internal/cli"
	"github.com/mrz1836/taskschema/internal/signal"
)

// Set at build time via ldflags.
//
//nolint:gochecknoglobals // Build metadata injected by the linker
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	h := signal.NewHandler(context.Background())
	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	h.Stop()
	os.Exit(cli.ExitCodeForError(err))
}
