package commands

import (
	"github.com/spf13/cobra"

	"github.com/bertffff/stackup/cmd/stackup/handlers"
)

// Install returns the command that provisions the full stack.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: stackup.yaml)
//	--yes, -y:    Answer yes to all prompts (required for unattended runs)
//	--debug:      Enable debug logging
func Install() *cobra.Command {
	var (
		configPath string
		assumeYes  bool
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the proxy stack on this host",
		Long: `Install the full proxy stack on this host.

The installation is ordered and resumable: each completed step records a
milestone, and re-running the command skips work that is already done.
If a step fails, everything the run created is removed again.

Examples:
  # Install using stackup.yaml in the current directory
  stackup install

  # Install using a specific config file, unattended
  stackup install -c production.yaml --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Install(cmd.Context(), handlers.InstallOptions{
				ConfigPath: configPath,
				AssumeYes:  assumeYes,
				Debug:      debug,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackup.yaml)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to all prompts")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}
