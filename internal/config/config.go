// Package config loads the service connection settings from a YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to reach the time-tracking service.
type Config struct {
	// ServiceURL is the root of the PHPReport web services, e.g.
	// "https://phpreport.example.com/web/services".
	ServiceURL string `yaml:"service_url"`
	Login      string `yaml:"login"`
	Password   string `yaml:"password"`
}

// Load reads the config file and applies env overrides. The file path
// comes from TALLY_CONFIG, falling back to ~/.config/tally/config.yaml;
// a missing file is fine as long as the overrides supply everything.
func Load() (Config, error) {
	path := os.Getenv("TALLY_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		path = filepath.Join(home, ".config", "tally", "config.yaml")
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Nothing to read; overrides may still fill the config in.
	default:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	envOverride(&cfg.ServiceURL, "TALLY_SERVICE_URL")
	envOverride(&cfg.Login, "TALLY_LOGIN")
	envOverride(&cfg.Password, "TALLY_PASSWORD")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"service_url", c.ServiceURL},
		{"login", c.Login},
		{"password", c.Password},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("required config %q is not set (via config file or env var)", r.name)
		}
	}
	return nil
}

func envOverride(field *string, key string) {
	if val := os.Getenv(key); val != "" {
		*field = val
	}
}
