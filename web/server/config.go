package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings, loaded from a YAML file
type Config struct {
	Addr      string `yaml:"addr"`
	ScenePath string `yaml:"scene"`
	LogLevel  string `yaml:"logLevel"`
}

// DefaultConfig returns the settings used when no config file is given
func DefaultConfig() *Config {
	return &Config{
		Addr:     ":8080",
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}
