package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TOOLKIT_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "toolkit-src", cfg.Vendor.Root)
	assert.Equal(t, ".claude", cfg.Vendor.InstallRoot)
	assert.Equal(t, ".claude/toolkit-manifest.json", cfg.Vendor.Manifest)
	assert.Equal(t, "VERSION", cfg.Vendor.VersionFile)
	assert.Equal(t, "pretty", cfg.Drift.Format)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TOOLKIT_HOME", t.TempDir())
	t.Setenv("TOOLKIT_VENDOR_ROOT", "vendor/ai-toolkit")
	t.Setenv("TOOLKIT_DRIFT_FORMAT", "json")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "vendor/ai-toolkit", cfg.Vendor.Root)
	assert.Equal(t, "json", cfg.Drift.Format)
}

func TestLoadProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFileName)
	content := `
[project]
name = "acme-assistant"
remote_url = "https://github.com/acme/ai-toolkit"

[vendor]
root = "vendor/ai-toolkit"
version_file = "TOOLKIT_VERSION"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	pf, err := LoadProjectFile(path)
	require.NoError(t, err)
	assert.Equal(t, "acme-assistant", pf.Project.Name)
	assert.Equal(t, "https://github.com/acme/ai-toolkit", pf.Project.RemoteURL)
	assert.Equal(t, "vendor/ai-toolkit", pf.Vendor.Root)
}

func TestLoadProjectFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte("[project\nname ="), 0o644))

	_, err := LoadProjectFile(path)
	assert.Error(t, err)
}

func TestLoadProjectConfigOverlay(t *testing.T) {
	t.Setenv("TOOLKIT_HOME", t.TempDir())
	dir := t.TempDir()
	content := `
[vendor]
root = "vendor/ai-toolkit"
manifest = ".claude/manifest.json"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(content), 0o644))

	cfg, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "vendor/ai-toolkit", cfg.Vendor.Root)
	assert.Equal(t, ".claude/manifest.json", cfg.Vendor.Manifest)
	// Fields the project file does not set keep their defaults.
	assert.Equal(t, ".claude", cfg.Vendor.InstallRoot)
}

func TestLoadProjectConfigWithoutProjectFile(t *testing.T) {
	t.Setenv("TOOLKIT_HOME", t.TempDir())
	cfg, err := LoadProjectConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "toolkit-src", cfg.Vendor.Root)
}

func TestGetToolkitHomeEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TOOLKIT_HOME", dir)
	home, err := GetToolkitHome()
	require.NoError(t, err)
	assert.Equal(t, dir, home)
}
