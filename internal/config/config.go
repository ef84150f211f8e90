// Package config reads and writes the client configuration at
// ~/.ragify/config.json. Environment variables override file values, so
// scripted use never has to touch the file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultServerURL matches a locally run backend.
const DefaultServerURL = "http://localhost:8000/api/v1"

// Config is the whole client configuration. The token lives here so a login
// survives across invocations; it is rewritten on login and logout.
type Config struct {
	// ServerURL is the backend base URL, including the API prefix.
	ServerURL string `json:"server_url,omitempty"`

	// Token is the bearer credential from the last login.
	Token string `json:"token,omitempty"`

	// Theme selects the TUI color scheme ("light" or "dark").
	Theme string `json:"theme,omitempty"`

	// Debug enables file logging under ~/.ragify/logs.
	Debug bool `json:"debug,omitempty"`
}

// DefaultConfigPath returns ~/.ragify/config.json.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ragify", "config.json")
	}
	return filepath.Join(home, ".ragify", "config.json")
}

// Load reads the config file, falling back to defaults when it does not
// exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{ServerURL: DefaultServerURL}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run; defaults plus env.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if cfg.ServerURL == "" {
			cfg.ServerURL = DefaultServerURL
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config file, creating the directory on first use.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// 0600: the file holds the bearer token.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RAGIFY_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("RAGIFY_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("RAGIFY_DEBUG"); v == "1" || v == "true" {
		c.Debug = true
	}
}
