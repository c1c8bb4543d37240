package cli

import (
	"github.com/spf13/cobra"
)

// blueprintCmd is a placeholder for project scaffolding from templates.
// Not implemented in this build.
var blueprintCmd = &cobra.Command{
	Use:   "blueprint",
	Short: "Scaffold a new project from a blueprint template (not implemented in this build)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Println("blueprint: not implemented in this build")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(blueprintCmd)
}
