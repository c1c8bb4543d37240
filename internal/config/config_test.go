package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig_DerivedIdentifiers(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, "devrs-core-env:latest", cfg.CoreImageRef())
	require.Equal(t, "devrs-core-env-instance", cfg.CoreContainerName())
	require.Equal(t, "myapp:latest", cfg.DefaultAppImageTag("/home/dev/myapp"))
	require.Equal(t, "devrs-app-myapp", cfg.DefaultAppContainerName("/home/dev/myapp"))
}

func TestDefaultAppImageTag_WithPrefix(t *testing.T) {
	cfg := defaultConfig()
	cfg.ApplicationDefaults.ImagePrefix = "acme"
	require.Equal(t, "acme-myapp:latest", cfg.DefaultAppImageTag("/srv/myapp"))
}

func TestMergeFile_OverlaysScalarsAndReplacesCollections(t *testing.T) {
	cfg := defaultConfig()
	dir := t.TempDir()
	path := filepath.Join(dir, "devrs.toml")
	writeFile(t, path, `
[core_env]
image_name = "custom-env"
ports = ["8080:8080"]
`)

	require.NoError(t, mergeFile(cfg, path))
	require.Equal(t, "custom-env", cfg.CoreEnv.ImageName)
	require.Equal(t, "latest", cfg.CoreEnv.ImageTag) // untouched field keeps default
	require.Equal(t, []string{"8080:8080"}, cfg.CoreEnv.Ports)
}

func TestMergeFile_MissingFileIsNotError(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, mergeFile(cfg, filepath.Join(t.TempDir(), "absent.toml")))
}

func TestMergeFile_RejectsUnknownFields(t *testing.T) {
	cfg := defaultConfig()
	dir := t.TempDir()
	path := filepath.Join(dir, "devrs.toml")
	writeFile(t, path, "totally_unknown_field = 1\n")

	err := mergeFile(cfg, path)
	require.Error(t, err)
}

func TestFindProjectConfig_StopsAtGit(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	require.Equal(t, "", findProjectConfig(sub))

	writeFile(t, filepath.Join(root, ".devrs.toml"), "")
	require.Equal(t, filepath.Join(root, ".devrs.toml"), findProjectConfig(sub))
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.Equal(t, home, expandTilde("~"))
	require.Equal(t, filepath.Join(home, "code"), expandTilde("~/code"))
	require.Equal(t, "/abs/path", expandTilde("/abs/path"))
}

func TestValidate_RejectsRelativeMountContainerPath(t *testing.T) {
	cfg := defaultConfig()
	cfg.Blueprints.Directory = t.TempDir()
	cfg.CoreEnv.Mounts = []Mount{{HostPath: "/home/dev", ContainerPath: "relative/path"}}

	err := validate(cfg)
	require.Error(t, err)
}

func TestValidate_RejectsPortWithoutColon(t *testing.T) {
	cfg := defaultConfig()
	cfg.Blueprints.Directory = t.TempDir()
	cfg.CoreEnv.Ports = []string{"8080"}

	err := validate(cfg)
	require.Error(t, err)
}
