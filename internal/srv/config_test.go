package srv

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAndMergeConfig_ArgsOnlyNoFile(t *testing.T) {
	dir := t.TempDir()
	args := DefaultArgs()
	args.Directory = dir

	cfg, err := LoadAndMergeConfig(args, false, false)
	require.NoError(t, err)
	require.Equal(t, uint16(8000), cfg.Port)
	require.True(t, cfg.EnableCORS)
	require.Equal(t, "index.html", cfg.IndexFile)
}

func TestLoadAndMergeConfig_FileOverridesDefaultedScalars(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(`
port = 9000
show_hidden = true
`), 0o644))

	args := DefaultArgs()
	args.Directory = dir

	cfg, err := LoadAndMergeConfig(args, false, false)
	require.NoError(t, err)
	require.Equal(t, uint16(9000), cfg.Port)
	require.True(t, cfg.ShowHidden)
}

func TestLoadAndMergeConfig_ExplicitCLIPortWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(`port = 9000`), 0o644))

	args := DefaultArgs()
	args.Directory = dir
	args.Port = 8888 // explicitly non-default

	cfg, err := LoadAndMergeConfig(args, false, false)
	require.NoError(t, err)
	require.Equal(t, uint16(8888), cfg.Port)
}

func TestLoadAndMergeConfig_ExplicitNoCORSFlagWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(`enable_cors = true`), 0o644))

	args := DefaultArgs()
	args.Directory = dir
	args.NoCORS = true

	cfg, err := LoadAndMergeConfig(args, true, false)
	require.NoError(t, err)
	require.False(t, cfg.EnableCORS)
}

func TestLoadAndMergeConfig_FileDirectoryResolvedRelativeToFile(t *testing.T) {
	root := t.TempDir()
	served := filepath.Join(root, "public")
	require.NoError(t, os.Mkdir(served, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, configFileName), []byte(`directory = "public"`), 0o644))

	args := DefaultArgs()
	args.Directory = root

	cfg, err := LoadAndMergeConfig(args, false, false)
	require.NoError(t, err)

	resolvedServed, err := filepath.EvalSymlinks(served)
	require.NoError(t, err)
	require.Equal(t, resolvedServed, cfg.Directory)
}

func TestLoadAndMergeConfig_NonexistentDirectoryErrors(t *testing.T) {
	args := DefaultArgs()
	args.Directory = filepath.Join(t.TempDir(), "does-not-exist")

	_, err := LoadAndMergeConfig(args, false, false)
	require.Error(t, err)
}

func TestLoadAndMergeConfig_RejectsUnknownFileField(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(`bogus_field = 1`), 0o644))

	args := DefaultArgs()
	args.Directory = dir

	_, err := LoadAndMergeConfig(args, false, false)
	require.Error(t, err)
}

func TestDefaultArgs_HostIsLoopback(t *testing.T) {
	require.True(t, DefaultArgs().Host.Equal(net.ParseIP("127.0.0.1")))
}
