// Package config loads and manages application configuration.
//
// Configuration is loaded from an optional YAML file with environment
// variable overrides on top: env > config file > defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Provider holds provider-specific configuration. BaseURL overrides the
// vendor endpoint, which tests use to point a provider at a stub server.
type Provider struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// Config holds all application configuration.
type Config struct {
	Addr           string              `yaml:"addr"`
	DBPath         string              `yaml:"db_path"`
	AccessPassword string              `yaml:"access_password"`
	AuthSecret     string              `yaml:"auth_secret"`
	Providers      map[string]Provider `yaml:"providers"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:   ":8100",
		DBPath: "aichorus.db",
		Providers: map[string]Provider{
			"openai":    {},
			"anthropic": {},
			"gemini":    {},
		},
	}
}

// Load reads configuration from path (when non-empty and present) and applies
// environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if data, err := os.ReadFile("aichorus.yaml"); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file aichorus.yaml: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AICHORUS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("AICHORUS_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("ACCESS_PASSWORD"); v != "" {
		c.AccessPassword = v
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		c.AuthSecret = v
	}

	keys := map[string]string{
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
		"gemini":    "GEMINI_API_KEY",
	}
	for name, envVar := range keys {
		if v := os.Getenv(envVar); v != "" {
			p := c.Providers[name]
			p.APIKey = v
			c.Providers[name] = p
		}
	}
}

// APIKey returns the credential for the named provider, or "" when absent.
func (c *Config) APIKey(provider string) string {
	return c.Providers[provider].APIKey
}

// BaseURL returns the endpoint override for the named provider, or "" when
// the vendor default should be used.
func (c *Config) BaseURL(provider string) string {
	return c.Providers[provider].BaseURL
}
