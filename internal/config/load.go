package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file looked up when none is given.
const DefaultConfigFile = "stackup.yaml"

// LoadFile reads, defaults, and validates the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.StateDir == "" {
		cfg.StateDir = "/var/lib/stackup"
	}
	if cfg.Network.Name == "" {
		cfg.Network.Name = "stackup"
	}
	if cfg.Network.Subnet == "" {
		cfg.Network.Subnet = "172.30.0.0/24"
	}
	if cfg.DNS.WebPort == 0 {
		cfg.DNS.WebPort = 3000
	}
	if cfg.Panel.Image == "" {
		cfg.Panel.Image = "ghcr.io/mhsanaei/3x-ui:latest"
	}
	if cfg.Panel.Port == 0 {
		cfg.Panel.Port = 2053
	}
	if cfg.Panel.Username == "" {
		cfg.Panel.Username = "admin"
	}
	for i := range cfg.Firewall.ExtraPorts {
		if cfg.Firewall.ExtraPorts[i].Protocol == "" {
			cfg.Firewall.ExtraPorts[i].Protocol = "tcp"
		}
	}
}
