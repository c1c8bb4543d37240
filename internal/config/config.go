// Package config loads devrs's project configuration: the core environment
// image/mounts/ports, default env vars, and blueprint directory. Loading
// follows the override precedence of the original devrs CLI: a user-level
// config under ~/.config/devrs, then a project-level .devrs.toml found by
// walking up from the working directory to the nearest .git, with
// non-empty collections in the project file replacing (not merging with)
// the user file's.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/devrs/devrs/internal/devrserr"
)

// CoreEnv describes the single persistent development container.
type CoreEnv struct {
	ImageName      string            `toml:"image_name"`
	ImageTag       string            `toml:"image_tag"`
	DefaultWorkdir string            `toml:"default_workdir"`
	Mounts         []Mount           `toml:"mounts"`
	Ports          []string          `toml:"ports"`
	EnvVars        map[string]string `toml:"env_vars"`
}

// ApplicationDefaults configures naming for project ("application") images.
type ApplicationDefaults struct {
	ImagePrefix string `toml:"image_prefix"`
}

// Blueprints locates scaffold templates consumed by the (out of scope)
// blueprint subcommands. The core only needs the path to exist.
type Blueprints struct {
	Directory string `toml:"directory"`
}

// Config is devrs's fully resolved project configuration.
type Config struct {
	CoreEnv              CoreEnv              `toml:"core_env"`
	ApplicationDefaults  ApplicationDefaults  `toml:"application_defaults"`
	Blueprints           Blueprints           `toml:"blueprints"`
}

func defaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		CoreEnv: CoreEnv{
			ImageName:      "devrs-core-env",
			ImageTag:       "latest",
			DefaultWorkdir: "/home/me/code",
			EnvVars:        map[string]string{},
		},
		Blueprints: Blueprints{
			Directory: filepath.Join(home, ".config", "devrs", "blueprints"),
		},
	}
}

// UserConfigPath returns the path to the user-level config file.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "devrs", "config.toml")
	}
	return filepath.Join(home, ".config", "devrs", "config.toml")
}

// Load resolves the effective Config for the current working directory:
// defaults, overlaid by the user config (if present), overlaid by the
// nearest project .devrs.toml (if present).
func Load() (*Config, error) {
	cfg := defaultConfig()

	if err := mergeFile(cfg, UserConfigPath()); err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, devrserr.NewConfig(fmt.Sprintf("determining working directory: %v", err))
	}
	if projectPath := findProjectConfig(wd); projectPath != "" {
		if err := mergeFile(cfg, projectPath); err != nil {
			return nil, err
		}
	}

	expandConfigPaths(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findProjectConfig walks up from dir looking for .devrs.toml, stopping
// once a .git directory is found (inclusive: .devrs.toml alongside .git
// still counts) or the filesystem root is reached.
func findProjectConfig(dir string) string {
	for {
		candidate := filepath.Join(dir, ".devrs.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeFile decodes path into an overlay and merges non-zero fields over
// cfg. A missing file is not an error. Unknown keys are rejected.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return devrserr.NewConfig(fmt.Sprintf("reading %s: %v", path, err))
	}

	var overlay Config
	meta, err := toml.Decode(string(data), &overlay)
	if err != nil {
		return devrserr.NewConfig(fmt.Sprintf("parsing %s: %v", path, err))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return devrserr.NewConfig(fmt.Sprintf("%s: unknown field %q", path, undecoded[0].String()))
	}

	mergeInto(cfg, &overlay)
	return nil
}

func mergeInto(cfg *Config, overlay *Config) {
	if overlay.CoreEnv.ImageName != "" {
		cfg.CoreEnv.ImageName = overlay.CoreEnv.ImageName
	}
	if overlay.CoreEnv.ImageTag != "" {
		cfg.CoreEnv.ImageTag = overlay.CoreEnv.ImageTag
	}
	if overlay.CoreEnv.DefaultWorkdir != "" {
		cfg.CoreEnv.DefaultWorkdir = overlay.CoreEnv.DefaultWorkdir
	}
	if len(overlay.CoreEnv.Mounts) > 0 {
		cfg.CoreEnv.Mounts = overlay.CoreEnv.Mounts
	}
	if len(overlay.CoreEnv.Ports) > 0 {
		cfg.CoreEnv.Ports = overlay.CoreEnv.Ports
	}
	if len(overlay.CoreEnv.EnvVars) > 0 {
		cfg.CoreEnv.EnvVars = overlay.CoreEnv.EnvVars
	}
	if overlay.ApplicationDefaults.ImagePrefix != "" {
		cfg.ApplicationDefaults.ImagePrefix = overlay.ApplicationDefaults.ImagePrefix
	}
	if overlay.Blueprints.Directory != "" {
		cfg.Blueprints.Directory = overlay.Blueprints.Directory
	}
}

// expandConfigPaths resolves leading "~" in every path-valued field.
func expandConfigPaths(cfg *Config) {
	cfg.Blueprints.Directory = expandTilde(cfg.Blueprints.Directory)
	cfg.CoreEnv.DefaultWorkdir = expandTilde(cfg.CoreEnv.DefaultWorkdir)
	for i := range cfg.CoreEnv.Mounts {
		cfg.CoreEnv.Mounts[i].HostPath = expandTilde(cfg.CoreEnv.Mounts[i].HostPath)
	}
}

func expandTilde(path string) string {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func validate(cfg *Config) error {
	if info, err := os.Stat(cfg.Blueprints.Directory); err != nil || !info.IsDir() {
		return devrserr.NewConfig(fmt.Sprintf("blueprint directory %q does not exist", cfg.Blueprints.Directory))
	}
	for _, m := range cfg.CoreEnv.Mounts {
		if err := m.Validate(); err != nil {
			return devrserr.NewConfig(err.Error())
		}
	}
	for _, p := range cfg.CoreEnv.Ports {
		if strings.Count(p, ":") != 1 {
			return devrserr.NewConfig(fmt.Sprintf("port %q must contain exactly one ':'", p))
		}
	}
	return nil
}

// CoreImageRef returns "<imageName>:<imageTag>".
func (c *Config) CoreImageRef() string {
	return fmt.Sprintf("%s:%s", c.CoreEnv.ImageName, c.CoreEnv.ImageTag)
}

// CoreContainerName returns "<imageName>-instance".
func (c *Config) CoreContainerName() string {
	return c.CoreEnv.ImageName + "-instance"
}

// DefaultAppImageTag returns "<prefix>-<cwdBasename>:latest", eliding the
// hyphen when no prefix is configured.
func (c *Config) DefaultAppImageTag(cwd string) string {
	base := filepath.Base(cwd)
	if c.ApplicationDefaults.ImagePrefix == "" {
		return fmt.Sprintf("%s:latest", base)
	}
	return fmt.Sprintf("%s-%s:latest", c.ApplicationDefaults.ImagePrefix, base)
}

// DefaultAppContainerName returns "devrs-app-<cwdBasename>".
func (c *Config) DefaultAppContainerName(cwd string) string {
	return "devrs-app-" + filepath.Base(cwd)
}
