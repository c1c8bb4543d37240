// Package docker wraps the Docker Engine API client with devrs's lifecycle,
// build, and interaction operations. Every daemon error is classified into
// an *devrserr.Error via github.com/containerd/errdefs rather than matched
// on string content.
package docker

import (
	"context"

	"github.com/devrs/devrs/internal/devrserr"
	"github.com/docker/docker/client"
)

// Client wraps a Docker Engine API client with devrs's operations.
type Client struct {
	cli *client.Client
}

// NewClient connects to the Docker daemon using the standard environment
// configuration (DOCKER_HOST and friends), negotiating the API version.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, devrserr.NewDaemonUnreachable(err)
	}
	return &Client{cli: cli}, nil
}

// Close releases the underlying HTTP transport.
func (c *Client) Close() error {
	return c.cli.Close()
}

// Ping verifies the daemon is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.cli.Ping(ctx); err != nil {
		return devrserr.NewDaemonUnreachable(err)
	}
	return nil
}
