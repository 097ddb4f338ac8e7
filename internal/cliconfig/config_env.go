package cliconfig

import "os"

// Environment variable names (SOMA_* namespace).
const (
	EnvDBPath        = "SOMA_DB_PATH"
	EnvServiceURL    = "SOMA_SERVICE_URL"
	EnvAuthKey       = "SOMA_AUTH_KEY"
	EnvMaxRetries    = "SOMA_MAX_RETRIES"
	EnvPollInterval  = "SOMA_POLL_INTERVAL"
	EnvProbeInterval = "SOMA_PROBE_INTERVAL"
	EnvHTTPTimeout   = "SOMA_HTTP_TIMEOUT"
)

// ApplyEnvConfig applies SOMA_* environment variables to the Config.
// Variables override file config but are overridden by explicitly set
// flags (checked via the changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("db-path", os.Getenv(EnvDBPath), &cfg.DBPath)
	s.setString("service-url", os.Getenv(EnvServiceURL), &cfg.ServiceURL)
	s.setString("auth-key", os.Getenv(EnvAuthKey), &cfg.AuthKey)

	if err := s.setIntFromString("max-retries", os.Getenv(EnvMaxRetries), &cfg.MaxRetries); err != nil {
		return err
	}
	if err := s.setDuration("poll-interval", os.Getenv(EnvPollInterval), &cfg.OfflinePollInterval); err != nil {
		return err
	}
	if err := s.setDuration("probe-interval", os.Getenv(EnvProbeInterval), &cfg.ProbeInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv(EnvHTTPTimeout), &cfg.HTTPTimeout); err != nil {
		return err
	}

	return nil
}
