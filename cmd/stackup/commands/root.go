// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the stackup CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stackup",
		Short: "Provision a self-hosted proxy stack on a single Linux host",
		// Errors are reported once, by main.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(Install())
	cmd.AddCommand(Uninstall())
	cmd.AddCommand(Status())
	cmd.AddCommand(Version())

	return cmd
}
