package commands

import (
	"github.com/spf13/cobra"

	"github.com/bertffff/stackup/cmd/stackup/handlers"
)

// Uninstall returns the command that removes installed components.
func Uninstall() *cobra.Command {
	var (
		configPath string
		assumeYes  bool
	)

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the installed proxy stack",
		Long: `Remove the components a previous install created.

Teardown is driven by the persisted state file: only components whose
milestones were recorded are touched. The SSH access rule and the
firewall itself are left in place.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Uninstall(cmd.Context(), configPath, assumeYes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackup.yaml)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to all prompts")

	return cmd
}
