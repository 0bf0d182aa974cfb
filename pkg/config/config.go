// Package config loads the YAML tuning file read by the barrow CLI.
// Every field here only affects throughput or compaction cadence;
// none of them change on-disk format or correctness. An empty config
// file, or a field left out of it, means "use the default"; a config
// path that does not exist is an error from LoadConfig.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the store's open-time tuning knobs. Every field maps
// directly to a store.Option consumed by cmd/barrow/cmd/root.go; none
// of them change on-disk format or correctness.
type Config struct {
	ReaderBufferSize    int   `yaml:"reader_buffer_size"`
	WriterBufferSize    int   `yaml:"writer_buffer_size"`
	CompactionThreshold int64 `yaml:"compaction_threshold"`
}

// DefaultConfig returns a configuration equivalent to passing no
// options to store.Open at all.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig reads and parses a YAML config file at configPath.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig writes config as YAML to configPath, creating its parent
// directory if necessary.
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the
// current platform.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./barrow.yaml"
	}

	configDir := filepath.Join(homeDir, ".config", "barrow")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists reports whether a configuration file exists at configPath.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
