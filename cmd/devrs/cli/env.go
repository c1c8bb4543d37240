package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/devrs/devrs/internal/config"
	"github.com/devrs/devrs/internal/devrserr"
	"github.com/devrs/devrs/internal/docker"
	"github.com/devrs/devrs/internal/log"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage the core development environment container",
}

func init() {
	rootCmd.AddCommand(envCmd)
}

// coreEnvSpec builds the CreateSpec for the core environment container from
// the resolved project config, under the given (possibly --name-overridden)
// container name.
func coreEnvSpec(cfg *config.Config, name string) docker.CreateSpec {
	mounts := make([]docker.MountSpec, len(cfg.CoreEnv.Mounts))
	for i, m := range cfg.CoreEnv.Mounts {
		mounts[i] = docker.MountSpec{HostPath: m.HostPath, ContainerPath: m.ContainerPath, ReadOnly: m.ReadOnly}
	}
	return docker.CreateSpec{
		Name:          name,
		Image:         cfg.CoreImageRef(),
		Workdir:       cfg.CoreEnv.DefaultWorkdir,
		Env:           cfg.CoreEnv.EnvVars,
		Mounts:        mounts,
		Ports:         cfg.CoreEnv.Ports,
		AttachStreams: false,
	}
}

// coreContainerName resolves the core environment container name for cmd,
// honoring an explicit --name override over the config-derived default.
func coreContainerName(cmd *cobra.Command, cfg *config.Config) string {
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		return name
	}
	return cfg.CoreContainerName()
}

var envBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the core environment image",
	RunE: func(cmd *cobra.Command, args []string) error {
		noCache, _ := cmd.Flags().GetBool("no-cache")
		// --stage is accepted for CLI-surface parity but not threaded through
		// to the builder; informational only.
		_, _ = cmd.Flags().GetString("stage")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		fmt.Printf("Building %s...\n", cfg.CoreImageRef())
		return cli.BuildImage(rootContext(), cfg.CoreImageRef(), docker.BuildOptions{
			DockerfilePath: "Dockerfile",
			ContextDir:     wd,
			NoCache:        noCache,
		})
	},
}

var envShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open an interactive shell in the core environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		name := coreContainerName(cmd, cfg)
		if _, err := cli.EnsureCoreEnvRunning(rootContext(), name, coreEnvSpec(cfg, name)); err != nil {
			return err
		}

		code, err := cli.Exec(rootContext(), name, docker.ExecOptions{
			Cmd:         []string{"/bin/bash"},
			Interactive: true,
			TTY:         true,
			Workdir:     cfg.CoreEnv.DefaultWorkdir,
			Stdin:       os.Stdin,
			Stdout:      os.Stdout,
			Stderr:      os.Stderr,
		})
		if err != nil {
			return err
		}
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

var envExecCmd = &cobra.Command{
	Use:   "exec -- <cmd> [args...]",
	Short: "Run a command in the core environment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interactive, _ := cmd.Flags().GetBool("interactive")
		tty, _ := cmd.Flags().GetBool("tty")
		if !cmd.Flags().Changed("interactive") {
			interactive = stdinIsTTY()
		}
		if !cmd.Flags().Changed("tty") {
			tty = stdoutIsTTY()
		}
		user, _ := cmd.Flags().GetString("user")
		workdir, _ := cmd.Flags().GetString("workdir")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if workdir == "" {
			workdir = cfg.CoreEnv.DefaultWorkdir
		}

		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		name := cfg.CoreContainerName()
		if _, err := cli.EnsureCoreEnvRunning(rootContext(), name, coreEnvSpec(cfg, name)); err != nil {
			return err
		}

		code, err := cli.Exec(rootContext(), name, docker.ExecOptions{
			Cmd:         args,
			Interactive: interactive,
			TTY:         tty,
			Workdir:     workdir,
			User:        user,
			Stdin:       os.Stdin,
			Stdout:      os.Stdout,
			Stderr:      os.Stderr,
		})
		if err != nil {
			return err
		}
		if code != 0 {
			fmt.Fprintf(os.Stderr, "command exited with exit code %d\n", code)
			os.Exit(code)
		}
		return nil
	},
}

var envLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Stream logs from the core environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		tail, _ := cmd.Flags().GetString("tail")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		return cli.Logs(rootContext(), coreContainerName(cmd, cfg), docker.LogsOptions{
			Follow: follow,
			Tail:   tail,
			Stdout: os.Stdout,
		})
	},
}

var envStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the core environment's container state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		name := coreContainerName(cmd, cfg)
		info, err := cli.InspectContainer(rootContext(), name)
		if err != nil {
			if devrserr.Is(err, devrserr.ContainerNotFound) {
				fmt.Printf("%s: not created\n", name)
				return nil
			}
			return err
		}
		printContainerStatus(name, info)
		return nil
	},
}

var envStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the core environment container",
	RunE: func(cmd *cobra.Command, args []string) error {
		timeoutSecs, _ := cmd.Flags().GetInt("timeout")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		name := coreContainerName(cmd, cfg)
		if err := cli.Stop(rootContext(), name, time.Duration(timeoutSecs)*time.Second); err != nil && !devrserr.Is(err, devrserr.ContainerNotFound) {
			return err
		}
		fmt.Printf("%s stopped\n", name)
		return nil
	},
}

var envRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Stop, remove, and rebuild the core environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		noCache, _ := cmd.Flags().GetBool("no-cache")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		name := coreContainerName(cmd, cfg)
		ctx := rootContext()

		if err := cli.Stop(ctx, name, 10*time.Second); err != nil && !devrserr.Is(err, devrserr.ContainerNotFound) {
			log.Warn("stop before rebuild failed, continuing", "error", err)
		}
		if err := cli.Remove(ctx, name, true); err != nil && !devrserr.Is(err, devrserr.ContainerNotFound) {
			log.Warn("remove before rebuild failed, continuing", "error", err)
		}

		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		fmt.Printf("Rebuilding %s...\n", cfg.CoreImageRef())
		if err := cli.BuildImage(ctx, cfg.CoreImageRef(), docker.BuildOptions{
			DockerfilePath: "Dockerfile",
			ContextDir:     wd,
			NoCache:        noCache,
		}); err != nil {
			return err
		}
		fmt.Println("Rebuilt. Run `env shell` or `env exec` to start it.")
		return nil
	},
}

var envPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stopped core environment containers",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		ctx := rootContext()
		containers, err := cli.ListContainers(ctx, true)
		if err != nil {
			return err
		}

		prefix := cfg.CoreContainerName()
		var targets []docker.ContainerSummary
		for _, c := range containers {
			if !c.State.IsLive() && hasNamePrefix(c.Names, prefix) {
				targets = append(targets, c)
			}
		}

		if len(targets) == 0 {
			fmt.Println("No stopped core environment containers to prune.")
			return nil
		}

		fmt.Println("Candidates for removal:")
		for _, c := range targets {
			fmt.Printf("  %s (%s)\n", firstName(c.Names), c.ID[:12])
		}

		if !force {
			fmt.Println("Dry run - pass --force to remove these containers.")
			return nil
		}

		var g errgroup.Group
		for _, c := range targets {
			id := c.ID
			g.Go(func() error {
				if err := cli.Remove(ctx, id, false); err != nil {
					log.Error("failed to remove container during prune", "id", id, "error", err)
					return err
				}
				fmt.Printf("Removed %s\n", id[:12])
				return nil
			})
		}
		return g.Wait()
	},
}

func hasNamePrefix(names []string, prefix string) bool {
	for _, n := range names {
		n = trimLeadingSlash(n)
		if len(n) >= len(prefix) && n[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func firstName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return trimLeadingSlash(names[0])
}

func trimLeadingSlash(s string) string {
	if len(s) > 0 && s[0] == '/' {
		return s[1:]
	}
	return s
}

func init() {
	envBuildCmd.Flags().Bool("no-cache", false, "build without using the layer cache")
	envBuildCmd.Flags().String("stage", "", "build target stage (informational only)")

	envShellCmd.Flags().String("name", "", "core environment container name (defaults to the configured name)")

	envExecCmd.Flags().BoolP("interactive", "i", false, "attach stdin")
	envExecCmd.Flags().BoolP("tty", "t", false, "allocate a TTY")
	envExecCmd.Flags().String("user", "", "user to run the command as")
	envExecCmd.Flags().StringP("workdir", "w", "", "working directory inside the container")

	envLogsCmd.Flags().BoolP("follow", "f", false, "follow the log output")
	envLogsCmd.Flags().StringP("tail", "n", "100", `number of lines to show from the end, or "all"`)
	envLogsCmd.Flags().String("name", "", "core environment container name (defaults to the configured name)")

	envStatusCmd.Flags().String("name", "", "core environment container name (defaults to the configured name)")

	envStopCmd.Flags().IntP("timeout", "t", 10, "seconds to wait before killing the container")
	envStopCmd.Flags().String("name", "", "core environment container name (defaults to the configured name)")

	envRebuildCmd.Flags().Bool("no-cache", false, "build without using the layer cache")
	envRebuildCmd.Flags().String("name", "", "core environment container name (defaults to the configured name)")

	envPruneCmd.Flags().BoolP("force", "f", false, "actually remove the matched containers")

	envCmd.AddCommand(envBuildCmd, envShellCmd, envExecCmd, envLogsCmd, envStatusCmd, envStopCmd, envRebuildCmd, envPruneCmd)
}
