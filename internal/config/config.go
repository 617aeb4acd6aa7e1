package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config describes one scan request: where to look, what to ignore, and the
// thresholds the detection rules use.
type Config struct {
	RootPaths          []string `yaml:"root_paths"`
	ExcludedFolders    []string `yaml:"excluded_folders"`
	ExcludedExtensions []string `yaml:"excluded_extensions"`

	// Detection thresholds
	LargeFileThresholdBytes int64   `yaml:"large_file_threshold_bytes"`
	OldFileThresholdDays    int     `yaml:"old_file_threshold_days"`
	SimilarityThreshold     int     `yaml:"similarity_threshold"`
	BlurThreshold           float64 `yaml:"blur_threshold"`

	// StrictHash switches exact-duplicate detection from the prefix
	// fingerprint to a full-content hash.
	StrictHash bool `yaml:"strict_hash"`

	// Workers bounds parallel per-file analysis. 0 means auto.
	Workers int `yaml:"workers"`
}

// Load loads configuration from a file, falling back to defaults when the
// file does not exist.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Save saves configuration to a file
func Save(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects a config that must not reach traversal. This is the only
// fatal error class: it fires before any I/O on the scanned tree.
func (c *Config) Validate() error {
	if len(c.RootPaths) == 0 {
		return fmt.Errorf("at least one root path is required")
	}
	for _, root := range c.RootPaths {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("root path must not be empty")
		}
	}

	if c.LargeFileThresholdBytes <= 0 {
		return fmt.Errorf("large file threshold must be > 0 bytes, got %d", c.LargeFileThresholdBytes)
	}
	if c.OldFileThresholdDays <= 0 {
		return fmt.Errorf("old file threshold must be > 0 days, got %d", c.OldFileThresholdDays)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 64 {
		return fmt.Errorf("similarity threshold must be in [0, 64], got %d", c.SimilarityThreshold)
	}
	if c.BlurThreshold < 0 {
		return fmt.Errorf("blur threshold must be >= 0, got %g", c.BlurThreshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}

	return nil
}

// NormalizeExtension lowercases an extension and guarantees a leading dot.
// An empty string stays empty (files without an extension).
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// FolderSet builds a case-insensitive lookup set of excluded folder names.
func (c *Config) FolderSet() map[string]bool {
	set := make(map[string]bool, len(c.ExcludedFolders))
	for _, name := range c.ExcludedFolders {
		set[strings.ToLower(name)] = true
	}
	return set
}

// ExtensionSet builds a lookup set of normalized excluded extensions.
func (c *Config) ExtensionSet() map[string]bool {
	set := make(map[string]bool, len(c.ExcludedExtensions))
	for _, ext := range c.ExcludedExtensions {
		set[NormalizeExtension(ext)] = true
	}
	return set
}

// GetConfigPath returns the default config path under the XDG config home.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("cleanslate", "config.yaml"))
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(Default(), configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}
