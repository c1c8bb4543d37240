package cli

import (
	"github.com/spf13/cobra"
)

// setupCmd is a placeholder for first-run host setup (config scaffolding,
// blueprint directory creation). Not implemented in this build.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initialize devrs's user config and blueprint directory (not implemented in this build)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Println("setup: not implemented in this build")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
