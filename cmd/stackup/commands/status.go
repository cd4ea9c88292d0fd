package commands

import (
	"github.com/spf13/cobra"

	"github.com/bertffff/stackup/cmd/stackup/handlers"
)

// Status returns the command that reports installation progress.
func Status() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recorded milestones and live component state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackup.yaml)")

	return cmd
}
