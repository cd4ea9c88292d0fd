// Package main is the entry point for the stackup CLI.
//
// stackup provisions a self-hosted proxy stack on a single Linux host:
// container runtime, private network, firewall, TLS certificates,
// proxy key material, outbound tunnel, DNS filtering, and a management
// panel. Every run is idempotent and resumable; a failed run undoes
// its own changes.
//
// Commands: install, uninstall, status, version.
//
// For detailed usage information, run:
//
//	stackup --help
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bertffff/stackup/cmd/stackup/commands"
	"github.com/bertffff/stackup/internal/provisioning"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		// A declined pre-mutation gate is a clean exit: nothing changed.
		if errors.Is(err, provisioning.ErrUserAbort) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
