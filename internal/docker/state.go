package docker

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"

	"github.com/devrs/devrs/internal/devrserr"
)

// State is one of the fixed container lifecycle states a devrs operation
// might observe. "Live" states are running, restarting, and paused.
type State string

const (
	StateMissing    State = "missing"
	StateCreated    State = "created"
	StateRunning    State = "running"
	StatePaused     State = "paused"
	StateRestarting State = "restarting"
	StateExited     State = "exited"
	StateDead       State = "dead"
)

// IsLive reports whether s counts as "live" for lifecycle predicates like
// prune's "don't touch running containers" filter.
func (s State) IsLive() bool {
	return s == StateRunning || s == StateRestarting || s == StatePaused
}

// ContainerSummary is a trimmed view of the daemon's container listing.
type ContainerSummary struct {
	ID    string
	Names []string
	State State
	Image string
}

// ContainerExists reports whether name resolves to any container,
// regardless of its state.
func (c *Client) ContainerExists(ctx context.Context, name string) (bool, error) {
	_, err := c.cli.ContainerInspect(ctx, name)
	if err == nil {
		return true, nil
	}
	if errdefs.IsNotFound(err) {
		return false, nil
	}
	return false, devrserr.NewDaemonOperation(fmt.Errorf("inspecting container %s: %w", name, err))
}

// InspectContainer returns the daemon's full inspect response for name.
// A 404 is classified as ContainerNotFound.
func (c *Client) InspectContainer(ctx context.Context, name string) (container.InspectResponse, error) {
	info, err := c.cli.ContainerInspect(ctx, name)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return container.InspectResponse{}, devrserr.NewContainerNotFound(name)
		}
		return container.InspectResponse{}, devrserr.NewDaemonOperation(fmt.Errorf("inspecting container %s: %w", name, err))
	}
	return info, nil
}

// ContainerState returns name's current State. A missing container yields
// StateMissing, not an error: absence is a valid observation here.
func (c *Client) ContainerState(ctx context.Context, name string) (State, error) {
	info, err := c.cli.ContainerInspect(ctx, name)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return StateMissing, nil
		}
		return "", devrserr.NewDaemonOperation(fmt.Errorf("inspecting container %s: %w", name, err))
	}
	if info.State == nil {
		return StateMissing, nil
	}
	return State(info.State.Status), nil
}

// ContainerRunning reports whether name is in the running state. Absence is
// reported as false, not an error.
func (c *Client) ContainerRunning(ctx context.Context, name string) (bool, error) {
	state, err := c.ContainerState(ctx, name)
	if err != nil {
		return false, err
	}
	return state == StateRunning, nil
}

// ListContainers returns the daemon's containers: running ones only, or
// every container when all is true. It applies no name filter; Names are
// returned as Docker reports them, with a leading "/".
func (c *Client) ListContainers(ctx context.Context, all bool) ([]ContainerSummary, error) {
	containers, err := c.cli.ContainerList(ctx, container.ListOptions{All: all})
	if err != nil {
		return nil, devrserr.NewDaemonOperation(fmt.Errorf("listing containers: %w", err))
	}

	result := make([]ContainerSummary, 0, len(containers))
	for _, item := range containers {
		result = append(result, ContainerSummary{
			ID:    item.ID,
			Names: item.Names,
			State: State(item.State),
			Image: item.Image,
		})
	}
	return result, nil
}
