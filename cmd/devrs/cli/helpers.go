package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/docker/docker/api/types/container"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/devrs/devrs/internal/config"
	"github.com/devrs/devrs/internal/docker"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func newDockerClient() (*docker.Client, error) {
	return docker.NewClient()
}

// stdinIsTTY reports whether stdin is an interactive terminal, used to
// default -i on env exec when the flag isn't explicit.
func stdinIsTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd())
}

// stdoutIsTTY reports whether stdout is an interactive terminal, used to
// default -t on env exec when the flag isn't explicit.
func stdoutIsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// rootContext returns the command's cancellation context, canceled on
// SIGINT/SIGTERM so in-flight daemon requests (exec, logs, build) stop
// promptly rather than leaving the process to be killed outright. Falls
// back to a plain background context if called outside of Execute (e.g.
// from a test that invokes a RunE function directly).
func rootContext() context.Context {
	if appCtx != nil {
		return appCtx
	}
	return context.Background()
}

// printContainerStatus pretty-prints name's inspect output: state, image,
// published ports, and bind mounts. A nil info.State prints as "unknown".
func printContainerStatus(name string, info container.InspectResponse) {
	status := "unknown"
	if info.State != nil {
		status = info.State.Status
	}
	image := name
	if info.Config != nil {
		image = info.Config.Image
	}
	fmt.Printf("%s: %s (image %s)\n", name, status, image)

	var ports []string
	if info.NetworkSettings != nil {
		for containerPort, bindings := range info.NetworkSettings.Ports {
			if len(bindings) == 0 {
				continue
			}
			for _, b := range bindings {
				ports = append(ports, fmt.Sprintf("%s:%s -> %s", b.HostIP, b.HostPort, containerPort))
			}
		}
	}
	if len(ports) > 0 {
		sort.Strings(ports)
		fmt.Println("  ports:")
		for _, p := range ports {
			fmt.Printf("    %s\n", p)
		}
	}

	if len(info.Mounts) > 0 {
		fmt.Println("  mounts:")
		for _, m := range info.Mounts {
			rw := "ro"
			if m.RW {
				rw = "rw"
			}
			fmt.Printf("    %s -> %s (%s)\n", m.Source, m.Destination, rw)
		}
	}
}
