// Package srv implements devrs's ad-hoc static file server: config
// resolution (defaults overridden by an optional .devrs-srv.toml found in
// the served directory, which explicitly set CLI flags override in turn),
// port fallback, hidden-file/index-aware routing,
// optional CORS, and graceful shutdown.
package srv

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/devrs/devrs/internal/devrserr"
)

// Args is the CLI-flag surface for the srv command, before file-based
// overrides are applied.
type Args struct {
	Directory  string
	Port       uint16
	Host       net.IP
	NoCORS     bool
	ShowHidden bool
	Index      string
}

// DefaultArgs returns Args as they are before any user-supplied flag is
// applied — used both as the actual default and as the "was this flag left
// at its default" comparison basis for the file-override precedence rule.
func DefaultArgs() Args {
	return Args{
		Directory: ".",
		Port:      8000,
		Host:      net.ParseIP("127.0.0.1"),
		Index:     "index.html",
	}
}

// Config is the fully resolved server configuration.
type Config struct {
	Directory  string
	Port       uint16
	Host       net.IP
	EnableCORS bool
	ShowHidden bool
	IndexFile  string
}

func configFromArgs(args Args) Config {
	return Config{
		Directory:  args.Directory,
		Port:       args.Port,
		Host:       args.Host,
		EnableCORS: !args.NoCORS,
		ShowHidden: args.ShowHidden,
		IndexFile:  args.Index,
	}
}

// fileConfig mirrors .devrs-srv.toml; every field is optional so the file
// can override just the settings it cares about.
type fileConfig struct {
	Port       *uint16 `toml:"port"`
	Host       *string `toml:"host"`
	Directory  *string `toml:"directory"`
	EnableCORS *bool   `toml:"enable_cors"`
	ShowHidden *bool   `toml:"show_hidden"`
	IndexFile  *string `toml:"index_file"`
}

const configFileName = ".devrs-srv.toml"

// LoadAndMergeConfig resolves the effective Config for args: start from the
// CLI arguments, then if a .devrs-srv.toml is found in the directory the
// caller asked to serve, overlay it field by field — but only where the
// corresponding CLI value was left at its default (for scalars) or its
// flag wasn't explicitly set (for the boolean negation flags). The
// directory named in the file, if any, replaces the CLI directory
// entirely and is resolved relative to the config file's own location, not
// the working directory. The final directory is canonicalized and
// validated to exist.
func LoadAndMergeConfig(args Args, cliSetNoCORS, cliSetShowHidden bool) (*Config, error) {
	cfg := configFromArgs(args)
	defaults := DefaultArgs()

	searchDir := args.Directory
	if !filepath.IsAbs(searchDir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, devrserr.NewConfig(fmt.Sprintf("determining working directory: %v", err))
		}
		searchDir = filepath.Join(wd, searchDir)
	}

	fc, fileDir, err := loadConfigFromDir(searchDir)
	if err != nil {
		return nil, err
	}
	if fc != nil {
		if fc.Port != nil && args.Port == defaults.Port {
			cfg.Port = *fc.Port
		}
		if fc.Host != nil && args.Host.Equal(defaults.Host) {
			if ip := net.ParseIP(*fc.Host); ip != nil {
				cfg.Host = ip
			}
		}
		if fc.IndexFile != nil && args.Index == defaults.Index {
			cfg.IndexFile = *fc.IndexFile
		}
		if fc.EnableCORS != nil && !cliSetNoCORS {
			cfg.EnableCORS = *fc.EnableCORS
		}
		if fc.ShowHidden != nil && !cliSetShowHidden {
			cfg.ShowHidden = *fc.ShowHidden
		}
		if fc.Directory != nil {
			dir := *fc.Directory
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(fileDir, dir)
			}
			cfg.Directory = dir
		}
	}

	if err := resolveDirectory(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromDir reads dir/.devrs-srv.toml if present. It returns nil,
// "", nil when no file exists.
func loadConfigFromDir(dir string) (*fileConfig, string, error) {
	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, "", devrserr.NewConfig(fmt.Sprintf("reading %s: %v", path, err))
	}

	var fc fileConfig
	meta, err := toml.Decode(string(data), &fc)
	if err != nil {
		return nil, "", devrserr.NewConfig(fmt.Sprintf("parsing %s: %v", path, err))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, "", devrserr.NewConfig(fmt.Sprintf("%s: unknown field %q", path, undecoded[0].String()))
	}
	return &fc, dir, nil
}

// resolveDirectory makes cfg.Directory absolute (relative to the working
// directory, if it isn't already) and canonicalizes it, erroring if the
// result doesn't exist or isn't a directory.
func resolveDirectory(cfg *Config) error {
	dir := cfg.Directory
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return devrserr.NewConfig(fmt.Sprintf("determining working directory: %v", err))
		}
		dir = filepath.Join(wd, dir)
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return devrserr.NewConfig(fmt.Sprintf("directory %q does not exist", dir))
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return devrserr.NewConfig(fmt.Sprintf("%q is not a directory", resolved))
	}

	cfg.Directory = resolved
	return nil
}
