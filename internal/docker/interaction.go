package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/devrs/devrs/internal/devrserr"
	"github.com/devrs/devrs/internal/log"
)

// ExecOptions configures an interactive or batch command run inside an
// already-running (or startable) container.
type ExecOptions struct {
	Cmd         []string
	Interactive bool // attach stdin
	TTY         bool
	Workdir     string
	User        string
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
}

// Exec starts the target container if it isn't already running, then runs
// Cmd inside it, streaming stdin/stdout/stderr concurrently until the
// command finishes or ctx is canceled. It returns the command's exit code.
//
// Two goroutines cooperate here: one copies host stdin into the exec's
// input stream (only when Interactive), the other demultiplexes the
// daemon's output stream onto host stdout/stderr. Exec returns once the
// output stream ends and does not wait for the stdin copier. A stdin copy
// error (such as a broken pipe, when the command stopped reading input
// before stdin reached EOF) is logged, not returned.
func (c *Client) Exec(ctx context.Context, containerName string, opts ExecOptions) (exitCode int, err error) {
	state, err := c.ContainerState(ctx, containerName)
	if err != nil {
		return -1, err
	}
	if state == StateMissing {
		return -1, devrserr.NewContainerNotFound(containerName)
	}
	if state != StateRunning {
		if err := c.Start(ctx, containerName); err != nil {
			return -1, err
		}
		running, err := c.ContainerRunning(ctx, containerName)
		if err != nil {
			return -1, err
		}
		if !running {
			return -1, devrserr.NewStartedButNotRunning()
		}
	}

	execID, err := c.cli.ContainerExecCreate(ctx, containerName, container.ExecOptions{
		Cmd:          opts.Cmd,
		AttachStdin:  opts.Interactive,
		AttachStdout: true,
		AttachStderr: true,
		Tty:          opts.TTY,
		WorkingDir:   opts.Workdir,
		User:         opts.User,
	})
	if err != nil {
		return -1, devrserr.NewDaemonOperation(fmt.Errorf("creating exec: %w", err))
	}

	resp, err := c.cli.ContainerExecAttach(ctx, execID.ID, container.ExecAttachOptions{Tty: opts.TTY})
	if err != nil {
		return -1, devrserr.NewDaemonOperation(fmt.Errorf("attaching to exec: %w", err))
	}
	defer resp.Close()

	outputDone := make(chan error, 1)
	stdinDone := make(chan error, 1)

	go func() {
		var err error
		if opts.TTY {
			_, err = io.Copy(opts.Stdout, resp.Reader)
		} else {
			_, err = stdcopy.StdCopy(opts.Stdout, opts.Stderr, resp.Reader)
		}
		outputDone <- err
	}()

	if opts.Interactive && opts.Stdin != nil {
		go func() {
			_, err := io.Copy(resp.Conn, opts.Stdin)
			if closer, ok := resp.Conn.(interface{ CloseWrite() error }); ok {
				if cerr := closer.CloseWrite(); cerr != nil && err == nil {
					err = cerr
				}
			}
			stdinDone <- err
		}()
	} else {
		close(stdinDone)
	}

	for {
		select {
		case <-ctx.Done():
			return -1, ctx.Err()
		case err := <-stdinDone:
			if err != nil && err != io.EOF {
				log.Debug("exec stdin copy ended with an error", "error", err)
			}
			stdinDone = nil
		case err := <-outputDone:
			if err != nil && err != io.EOF {
				return -1, devrserr.NewDaemonOperation(fmt.Errorf("reading exec output: %w", err))
			}
			return c.execExitCode(ctx, execID.ID)
		}
	}
}

func (c *Client) execExitCode(ctx context.Context, execID string) (int, error) {
	inspect, err := c.cli.ContainerExecInspect(ctx, execID)
	if err != nil {
		return -1, nil // exit code unavailable; not fatal to the caller
	}
	return inspect.ExitCode, nil
}

// LogsOptions configures a log stream.
type LogsOptions struct {
	Follow bool
	Tail   string // "all" or a decimal count; Logs normalizes it via NormalizeTail
	Stdout io.Writer
}

// NormalizeTail validates a user-supplied --tail value, replacing anything
// that isn't "all" or a positive integer with the default of "100".
func NormalizeTail(tail string) string {
	if tail == "" || tail == "all" {
		if tail == "" {
			return "100"
		}
		return tail
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return "100"
		}
	}
	if tail == "0" {
		return "100"
	}
	return tail
}

// Logs streams containerName's stdout/stderr to opts.Stdout. When Follow is
// true, it blocks until the daemon closes the stream (the container
// stopped) or ctx is canceled; either is a normal return, not an error.
//
// The daemon frames a non-TTY container's log stream with the stdcopy
// header (multiplexing stdout/stderr) but writes a TTY-allocated
// container's stream as raw combined bytes, so which one to use is
// determined from the container's own Config.Tty rather than assumed.
func (c *Client) Logs(ctx context.Context, containerName string, opts LogsOptions) error {
	info, err := c.InspectContainer(ctx, containerName)
	if err != nil {
		return err
	}

	tail := NormalizeTail(opts.Tail)
	if tail != opts.Tail {
		log.Warn("invalid log tail value, using the default", "tail", opts.Tail, "using", tail)
	}

	reader, err := c.cli.ContainerLogs(ctx, containerName, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: true,
		Follow:     opts.Follow,
		Tail:       tail,
	})
	if err != nil {
		if errdefs.IsNotFound(err) {
			return devrserr.NewContainerNotFound(containerName)
		}
		return devrserr.NewDaemonOperation(fmt.Errorf("streaming logs for %s: %w", containerName, err))
	}
	defer reader.Close()

	tty := info.Config != nil && info.Config.Tty

	done := make(chan error, 1)
	go func() {
		var err error
		if tty {
			_, err = io.Copy(opts.Stdout, reader)
		} else {
			_, err = stdcopy.StdCopy(opts.Stdout, opts.Stdout, reader)
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-done:
		if err != nil && err != io.EOF {
			return devrserr.NewDaemonOperation(fmt.Errorf("reading logs for %s: %w", containerName, err))
		}
		return nil
	}
}
