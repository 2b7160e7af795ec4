package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for toolkit
type Config struct {
	Vendor VendorConfig `mapstructure:"vendor"`
	Drift  DriftConfig  `mapstructure:"drift"`
}

// VendorConfig locates the vendored toolkit source and the install tree.
type VendorConfig struct {
	// Root is the vendored toolkit source directory, relative to the
	// project root unless absolute.
	Root string `mapstructure:"root"`
	// InstallRoot is where assets are installed for consumption.
	InstallRoot string `mapstructure:"install_root"`
	// Manifest is the provenance manifest path.
	Manifest string `mapstructure:"manifest"`
	// VersionFile names the version file inside the vendor root.
	VersionFile string `mapstructure:"version_file"`
}

// DriftConfig holds drift reporting options
type DriftConfig struct {
	Format string `mapstructure:"format"` // "pretty", "json", "markdown"
}

var defaultConfig = Config{
	Vendor: VendorConfig{
		Root:        "toolkit-src",
		InstallRoot: ".claude",
		Manifest:    ".claude/toolkit-manifest.json",
		VersionFile: "VERSION",
	},
	Drift: DriftConfig{
		Format: "pretty",
	},
}

// LoadConfig loads configuration from various sources
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("vendor.root", defaultConfig.Vendor.Root)
	v.SetDefault("vendor.install_root", defaultConfig.Vendor.InstallRoot)
	v.SetDefault("vendor.manifest", defaultConfig.Vendor.Manifest)
	v.SetDefault("vendor.version_file", defaultConfig.Vendor.VersionFile)
	v.SetDefault("drift.format", defaultConfig.Drift.Format)

	// Configuration file search paths
	v.SetConfigName("toolkit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")     // Current directory
	v.AddConfigPath("$HOME") // Home directory

	if configDir, err := GetConfigDir(); err == nil {
		v.AddConfigPath(configDir)
	}

	// Environment variables
	v.SetEnvPrefix("TOOLKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to read config file (optional); ignore error to use defaults
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	return &config, nil
}

// LoadProjectConfig loads global configuration and overlays the project
// file (toolkit.toml) from the given directory when present.
func LoadProjectConfig(projectRoot string) (*Config, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	project, err := LoadProjectFile(filepath.Join(projectRoot, ProjectFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}
	project.Apply(config)
	return config, nil
}

// GetToolkitHome returns the toolkit home directory
func GetToolkitHome() (string, error) {
	// Check environment variable first
	if home := os.Getenv("TOOLKIT_HOME"); home != "" {
		return home, nil
	}

	// Use standard dev tool convention: ~/.toolkit
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %v", err)
	}

	return filepath.Join(homeDir, ".toolkit"), nil
}

// EnsureToolkitHome creates the toolkit home directory if it doesn't exist
func EnsureToolkitHome() (string, error) {
	homeDir, err := GetToolkitHome()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(homeDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create toolkit home directory: %v", err)
	}

	return homeDir, nil
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	homeDir, err := EnsureToolkitHome()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(homeDir, "config")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create config directory: %v", err)
	}
	return configDir, nil
}

// GetLogDir returns the log directory
func GetLogDir() (string, error) {
	homeDir, err := EnsureToolkitHome()
	if err != nil {
		return "", err
	}
	logDir := filepath.Join(homeDir, "logs")
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create log directory: %v", err)
	}
	return logDir, nil
}
