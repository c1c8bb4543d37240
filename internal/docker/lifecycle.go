package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"

	"github.com/devrs/devrs/internal/devrserr"
	"github.com/devrs/devrs/internal/log"
)

// Start starts name. Starting an already-running container is a success,
// matching the daemon's own 304 response for that case.
func (c *Client) Start(ctx context.Context, name string) error {
	err := c.cli.ContainerStart(ctx, name, container.StartOptions{})
	if err == nil {
		return nil
	}
	if errdefs.IsNotModified(err) {
		return nil
	}
	if errdefs.IsNotFound(err) {
		return devrserr.NewContainerNotFound(name)
	}
	return devrserr.NewDaemonOperation(fmt.Errorf("starting container %s: %w", name, err))
}

// Stop stops name, sending SIGTERM and waiting up to timeout before
// SIGKILL. Stopping an already-stopped container is a success.
func (c *Client) Stop(ctx context.Context, name string, timeout time.Duration) error {
	secs := int(timeout.Seconds())
	err := c.cli.ContainerStop(ctx, name, container.StopOptions{Timeout: &secs})
	if err == nil {
		return nil
	}
	if errdefs.IsNotModified(err) {
		return nil
	}
	if errdefs.IsNotFound(err) {
		return devrserr.NewContainerNotFound(name)
	}
	return devrserr.NewDaemonOperation(fmt.Errorf("stopping container %s: %w", name, err))
}

// Remove removes name. With force=false, a running container is refused
// with ContainerRunning rather than relying on the daemon's own 409, so the
// error message can name the offending container up front; an absent
// container is treated as already-removed success. With force=true, the
// probe is skipped and the daemon's own semantics apply.
func (c *Client) Remove(ctx context.Context, name string, force bool) error {
	if !force {
		running, err := c.ContainerRunning(ctx, name)
		if err != nil {
			return err
		}
		if running {
			return devrserr.NewContainerRunning(name)
		}
	}

	err := c.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: force})
	if err == nil {
		return nil
	}
	if errdefs.IsNotFound(err) {
		return nil
	}
	if errdefs.IsConflict(err) {
		return devrserr.NewRemovalConflict(err.Error())
	}
	return devrserr.NewDaemonOperation(fmt.Errorf("removing container %s: %w", name, err))
}

// EnsureCoreEnvRunning reconciles the core environment container against
// the declared image, creating and/or starting it as needed, and returns
// whether it created the container on this call (as opposed to finding it
// already present). It never returns with the container in an
// indeterminate state: either the returned error is nil and the container
// is observed running, or an error describes exactly what went wrong.
func (c *Client) EnsureCoreEnvRunning(ctx context.Context, name string, spec CreateSpec) (createdNow bool, err error) {
	state, err := c.ContainerState(ctx, name)
	if err != nil {
		return false, err
	}

	switch state {
	case StateMissing:
		if _, err := c.Create(ctx, spec); err != nil {
			return false, err
		}
		if err := c.Start(ctx, name); err != nil {
			return false, err
		}
		createdNow = true
	case StateRunning:
		// already in the desired state
	default:
		if err := c.Start(ctx, name); err != nil {
			return false, err
		}
	}

	running, err := c.ContainerRunning(ctx, name)
	if err != nil {
		return createdNow, err
	}
	if !running {
		return createdNow, devrserr.NewStartedButNotRunning()
	}

	if createdNow {
		log.Info("core environment container created", "name", name)
	}
	return createdNow, nil
}
