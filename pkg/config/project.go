package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ProjectFileName is the per-project configuration file, kept at the
// project root next to the vendored toolkit.
const ProjectFileName = "toolkit.toml"

// ProjectFile is the TOML project descriptor. It identifies the vendored
// toolkit and overrides the vendor paths for this project.
type ProjectFile struct {
	Project struct {
		Name      string `toml:"name"`
		RemoteURL string `toml:"remote_url"`
	} `toml:"project"`
	Vendor struct {
		Root        string `toml:"root"`
		InstallRoot string `toml:"install_root"`
		Manifest    string `toml:"manifest"`
		VersionFile string `toml:"version_file"`
	} `toml:"vendor"`
}

// LoadProjectFile reads and parses a toolkit.toml file.
func LoadProjectFile(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the project root
	if err != nil {
		return nil, err
	}
	var pf ProjectFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &pf, nil
}

// Apply overlays the non-empty project file fields onto a config.
func (pf *ProjectFile) Apply(c *Config) {
	if pf.Vendor.Root != "" {
		c.Vendor.Root = pf.Vendor.Root
	}
	if pf.Vendor.InstallRoot != "" {
		c.Vendor.InstallRoot = pf.Vendor.InstallRoot
	}
	if pf.Vendor.Manifest != "" {
		c.Vendor.Manifest = pf.Vendor.Manifest
	}
	if pf.Vendor.VersionFile != "" {
		c.Vendor.VersionFile = pf.Vendor.VersionFile
	}
}
