package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly.
type FileConfig struct {
	DBPath              string `toml:"db_path"`
	ServiceURL          string `toml:"service_url"`
	AuthKey             string `toml:"auth_key"`
	MaxRetries          int    `toml:"max_retries"`
	OfflinePollInterval string `toml:"offline_poll_interval"`
	ProbeInterval       string `toml:"probe_interval"`
	HTTPTimeout         string `toml:"http_timeout"`
	Once                *bool  `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path,
// ~/.soma/config.toml, if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".soma", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("db-path", fc.DBPath, &cfg.DBPath)
	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("auth-key", fc.AuthKey, &cfg.AuthKey)

	s.setInt("max-retries", fc.MaxRetries, &cfg.MaxRetries)

	if err := s.setDuration("poll-interval", fc.OfflinePollInterval, &cfg.OfflinePollInterval); err != nil {
		return err
	}
	if err := s.setDuration("probe-interval", fc.ProbeInterval, &cfg.ProbeInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
