// Package cli implements the devrs command-line interface using Cobra. It
// provides the env, container, and srv command groups, plus placeholder
// stubs for blueprint and setup.
package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devrs/devrs/internal/log"
)

var (
	debug   bool
	jsonOut bool

	appCtx    context.Context
	appCancel context.CancelFunc = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "devrs",
	Short: "devrs - a containerized developer workstation",
	Long: `devrs manages a containerized development workflow: a persistent
core environment container shared across projects, per-project application
containers, and an ad-hoc static file server for local previews.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		debugDir := ""
		if err == nil {
			debugDir = filepath.Join(home, ".config", "devrs", "debug")
		}

		interactive := cmd.Name() == "shell"

		if err := log.Init(log.Options{
			Verbose:       debug,
			JSONFormat:    jsonOut,
			Interactive:   interactive,
			DebugDir:      debugDir,
			RetentionDays: 14,
		}); err != nil {
			cmd.PrintErrf("warning: failed to initialize debug logging: %v\n", err)
		}

		appCtx, appCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		appCancel()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging (env: DEVRS_DEBUG)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit structured logs as JSON")

	if os.Getenv("DEVRS_DEBUG") != "" {
		debug = true
	}
}
