package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultServiceURL is the default sync endpoint.
const DefaultServiceURL = "https://api.soma.fit"

// Config holds CLI configuration for somasync.
type Config struct {
	DBPath     string
	ServiceURL string
	AuthKey    string

	MaxRetries          int
	OfflinePollInterval time.Duration
	ProbeInterval       time.Duration
	HTTPTimeout         time.Duration

	Once bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ServiceURL:          DefaultServiceURL,
		MaxRetries:          3,
		OfflinePollInterval: 5 * time.Second,
		ProbeInterval:       10 * time.Second,
		HTTPTimeout:         15 * time.Second,
		AuthKey:             os.Getenv("SOMA_AUTH_KEY"),
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("db-path is required when home directory is unavailable: %w", err)
		}
		c.DBPath = filepath.Join(home, ".soma", "pending.db")
	}

	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	// Ensure no trailing slash
	if len(c.ServiceURL) > 0 && c.ServiceURL[len(c.ServiceURL)-1] == '/' {
		c.ServiceURL = c.ServiceURL[:len(c.ServiceURL)-1]
	}

	if c.MaxRetries <= 0 {
		return fmt.Errorf("max retries must be positive")
	}
	if c.OfflinePollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("probe interval must be positive")
	}

	return nil
}

// Logger returns the console logger used by the CLI.
func Logger() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not
// changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if
// valid. Used for environment variables.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
