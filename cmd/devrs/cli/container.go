package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/devrs/devrs/internal/devrserr"
	"github.com/devrs/devrs/internal/docker"
)

var containerCmd = &cobra.Command{
	Use:   "container",
	Short: "Manage per-project application containers",
}

func init() {
	rootCmd.AddCommand(containerCmd)
}

func defaultAppNames() (image, name string, err error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", "", err
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", "", err
	}
	return cfg.DefaultAppImageTag(wd), cfg.DefaultAppContainerName(wd), nil
}

var containerBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the application image for the current project",
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		dockerfile, _ := cmd.Flags().GetString("file")
		noCache, _ := cmd.Flags().GetBool("no-cache")

		if tag == "" {
			defaultTag, _, err := defaultAppNames()
			if err != nil {
				return err
			}
			tag = defaultTag
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

		fmt.Printf("Building %s...\n", tag)
		return cli.BuildImage(rootContext(), tag, docker.BuildOptions{
			DockerfilePath: dockerfile,
			ContextDir:     wd,
			NoCache:        noCache,
		})
	},
}

var containerRunCmd = &cobra.Command{
	Use:   "run [-- cmd args...]",
	Short: "Create and start an application container",
	RunE: func(cmd *cobra.Command, args []string) error {
		image, _ := cmd.Flags().GetString("image")
		name, _ := cmd.Flags().GetString("name")
		ports, _ := cmd.Flags().GetStringArray("port")
		envPairs, _ := cmd.Flags().GetStringArray("env")
		detach, _ := cmd.Flags().GetBool("detach")
		autoRemove, _ := cmd.Flags().GetBool("rm")

		defaultImage, defaultName, err := defaultAppNames()
		if err != nil {
			return err
		}
		if image == "" {
			image = defaultImage
		}
		if name == "" {
			name = defaultName
		}

		env := map[string]string{}
		for _, pair := range envPairs {
			for i := 0; i < len(pair); i++ {
				if pair[i] == '=' {
					env[pair[:i]] = pair[i+1:]
					break
				}
			}
		}

		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		spec := docker.CreateSpec{
			Name:          name,
			Image:         image,
			Cmd:           args,
			Env:           env,
			Ports:         ports,
			AutoRemove:    autoRemove,
			AttachStreams: !detach,
		}

		id, err := cli.Run(rootContext(), spec)
		if err != nil {
			return err
		}
		if detach {
			fmt.Println(id)
			return nil
		}
		fmt.Printf("%s started (%s)\n", name, id[:12])
		return nil
	},
}

var containerLogsCmd = &cobra.Command{
	Use:   "logs <name>",
	Short: "Stream logs from an application container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		tail, _ := cmd.Flags().GetString("tail")

		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		return cli.Logs(rootContext(), args[0], docker.LogsOptions{
			Follow: follow,
			Tail:   tail,
			Stdout: os.Stdout,
		})
	},
}

var containerStopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop an application container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timeoutSecs, _ := cmd.Flags().GetInt("timeout")

		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		if err := cli.Stop(rootContext(), args[0], time.Duration(timeoutSecs)*time.Second); err != nil && !devrserr.Is(err, devrserr.ContainerNotFound) {
			return err
		}
		fmt.Printf("%s stopped\n", args[0])
		return nil
	},
}

var containerRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove an application container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		if err := cli.Remove(rootContext(), args[0], force); err != nil {
			return err
		}
		fmt.Printf("%s removed\n", args[0])
		return nil
	},
}

var containerRmiCmd = &cobra.Command{
	Use:   "rmi <ref>",
	Short: "Remove an application image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		if err := cli.RemoveImage(rootContext(), args[0], force); err != nil {
			return err
		}
		fmt.Printf("%s removed\n", args[0])
		return nil
	},
}

var containerStatusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show an application container's state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		info, err := cli.InspectContainer(rootContext(), args[0])
		if err != nil {
			if devrserr.Is(err, devrserr.ContainerNotFound) {
				fmt.Printf("%s: not created\n", args[0])
				return nil
			}
			return err
		}
		printContainerStatus(args[0], info)
		return nil
	},
}

var containerShellCmd = &cobra.Command{
	Use:   "shell <name>",
	Short: "Open an interactive shell in a running application container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newDockerClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		code, err := cli.Exec(rootContext(), args[0], docker.ExecOptions{
			Cmd:         []string{"/bin/sh"},
			Interactive: true,
			TTY:         true,
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

func init() {
	containerBuildCmd.Flags().StringP("tag", "t", "", "image tag (defaults to <prefix>-<dir>:latest)")
	containerBuildCmd.Flags().StringP("file", "f", "Dockerfile", "path to the Dockerfile")
	containerBuildCmd.Flags().Bool("no-cache", false, "build without using the layer cache")

	containerRunCmd.Flags().StringP("image", "i", "", "image to run (defaults to the project's build tag)")
	containerRunCmd.Flags().String("name", "", "container name (defaults to devrs-app-<dir>)")
	containerRunCmd.Flags().StringArrayP("port", "p", nil, `port mapping "HOST:CONTAINER[/proto]"`)
	containerRunCmd.Flags().StringArrayP("env", "e", nil, `environment variable "KEY=VALUE"`)
	containerRunCmd.Flags().BoolP("detach", "d", false, "run in the background")
	containerRunCmd.Flags().Bool("rm", false, "remove the container automatically when it exits")

	containerLogsCmd.Flags().BoolP("follow", "f", false, "follow the log output")
	containerLogsCmd.Flags().StringP("tail", "n", "100", `number of lines to show from the end, or "all"`)

	containerStopCmd.Flags().IntP("timeout", "t", 10, "seconds to wait before killing the container")

	containerRmCmd.Flags().BoolP("force", "f", false, "remove even if running")
	containerRmiCmd.Flags().BoolP("force", "f", false, "remove even if in use")

	containerCmd.AddCommand(
		containerBuildCmd, containerRunCmd, containerLogsCmd, containerStopCmd,
		containerRmCmd, containerRmiCmd, containerStatusCmd, containerShellCmd,
	)
}
