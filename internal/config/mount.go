package config

import (
	"fmt"
	"path/filepath"
)

// Mount describes a single bind mount from the host into a container.
type Mount struct {
	HostPath      string `toml:"host_path"`
	ContainerPath string `toml:"container_path"`
	ReadOnly      bool   `toml:"read_only"`
}

// Validate checks that both sides of the mount are well formed. It does not
// check that HostPath exists on disk; Docker itself reports that failure
// when the container is created.
func (m Mount) Validate() error {
	if m.HostPath == "" {
		return fmt.Errorf("mount has empty host_path")
	}
	if m.ContainerPath == "" {
		return fmt.Errorf("mount %q has empty container_path", m.HostPath)
	}
	if !filepath.IsAbs(m.HostPath) {
		return fmt.Errorf("mount host_path %q must be absolute after expansion", m.HostPath)
	}
	if !filepath.IsAbs(m.ContainerPath) {
		return fmt.Errorf("mount %q: container_path %q must be absolute", m.HostPath, m.ContainerPath)
	}
	return nil
}
