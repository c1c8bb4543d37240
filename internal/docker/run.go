package docker

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"

	"github.com/devrs/devrs/internal/devrserr"
)

// MountSpec is a bind mount to attach when creating a container.
type MountSpec struct {
	HostPath      string
	ContainerPath string
	ReadOnly      bool
}

// CreateSpec describes the container a caller wants created.
type CreateSpec struct {
	Name           string
	Image          string
	Cmd            []string
	Workdir        string
	Env            map[string]string
	Mounts         []MountSpec
	Ports          []string // "HOST:CONTAINER[/proto]"
	AutoRemove     bool
	AttachStreams  bool // true unless Detach
}

func (s CreateSpec) validate() error {
	for _, m := range s.Mounts {
		if !filepath.IsAbs(m.HostPath) {
			return devrserr.NewConfig(fmt.Sprintf("mount host path %q must be absolute", m.HostPath))
		}
		if !filepath.IsAbs(m.ContainerPath) || m.ContainerPath == "" {
			return devrserr.NewConfig(fmt.Sprintf("mount container path %q must be absolute", m.ContainerPath))
		}
	}
	return nil
}

func envList(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	return out
}

// Create creates (but does not start) a container per spec. A name
// collision is reported as NameConflict; a missing image as ImageNotFound.
func (c *Client) Create(ctx context.Context, spec CreateSpec) (string, error) {
	if err := spec.validate(); err != nil {
		return "", err
	}

	mounts := make([]mount.Mount, len(spec.Mounts))
	for i, m := range spec.Mounts {
		mounts[i] = mount.Mount{
			Type:     mount.TypeBind,
			Source:   m.HostPath,
			Target:   m.ContainerPath,
			ReadOnly: m.ReadOnly,
		}
	}

	parsed := ParsePorts(spec.Ports)

	resp, err := c.cli.ContainerCreate(ctx,
		&container.Config{
			Image:        spec.Image,
			Cmd:          spec.Cmd,
			WorkingDir:   spec.Workdir,
			Env:          envList(spec.Env),
			Tty:          spec.AttachStreams,
			OpenStdin:    spec.AttachStreams,
			AttachStdin:  spec.AttachStreams,
			AttachStdout: spec.AttachStreams,
			AttachStderr: spec.AttachStreams,
			ExposedPorts: parsed.Exposed,
		},
		&container.HostConfig{
			Mounts:       mounts,
			PortBindings: parsed.Bindings,
			AutoRemove:   spec.AutoRemove,
		},
		nil,
		nil,
		spec.Name,
	)
	if err != nil {
		if errdefs.IsConflict(err) {
			return "", devrserr.NewNameConflict(spec.Name)
		}
		if errdefs.IsNotFound(err) {
			return "", devrserr.NewImageNotFound(spec.Image)
		}
		return "", devrserr.NewDaemonOperation(fmt.Errorf("creating container %s: %w", spec.Name, err))
	}
	return resp.ID, nil
}

// Run creates and starts a container, refusing up front if spec.Name is
// already taken. It returns once the start call completes; it does not
// wait for the container to exit or stream its output — interactive use
// goes through Exec/Logs instead.
func (c *Client) Run(ctx context.Context, spec CreateSpec) (string, error) {
	exists, err := c.ContainerExists(ctx, spec.Name)
	if err != nil {
		return "", err
	}
	if exists {
		return "", devrserr.NewNameConflict(spec.Name)
	}

	id, err := c.Create(ctx, spec)
	if err != nil {
		return "", err
	}
	if err := c.Start(ctx, id); err != nil {
		return id, err
	}
	return id, nil
}
