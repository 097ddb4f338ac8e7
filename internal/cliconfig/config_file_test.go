package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
db_path = "/tmp/soma/pending.db"
service_url = "https://sync.example.com"
auth_key = "secret"
max_retries = 5
offline_poll_interval = "2s"
probe_interval = "30s"
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.DBPath != "/tmp/soma/pending.db" {
		t.Errorf("DBPath = %q", fc.DBPath)
	}
	if fc.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", fc.MaxRetries)
	}
	if fc.OfflinePollInterval != "2s" {
		t.Errorf("OfflinePollInterval = %q, want 2s", fc.OfflinePollInterval)
	}
}

func TestApplyFileConfig(t *testing.T) {
	fc := FileConfig{
		ServiceURL:          "https://file.example.com",
		MaxRetries:          7,
		OfflinePollInterval: "3s",
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.ServiceURL != "https://file.example.com" {
		t.Errorf("ServiceURL = %q", cfg.ServiceURL)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, want 7", cfg.MaxRetries)
	}
	if cfg.OfflinePollInterval != 3*time.Second {
		t.Errorf("OfflinePollInterval = %v, want 3s", cfg.OfflinePollInterval)
	}
}

func TestApplyFileConfig_FlagPrecedence(t *testing.T) {
	fc := FileConfig{ServiceURL: "https://file.example.com", MaxRetries: 7}

	cfg := DefaultConfig()
	cfg.ServiceURL = "https://flag.example.com"
	changed := map[string]bool{"service-url": true}

	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.ServiceURL != "https://flag.example.com" {
		t.Errorf("ServiceURL = %q: explicit flag must win over file", cfg.ServiceURL)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, want 7 from file", cfg.MaxRetries)
	}
}

func TestApplyFileConfig_BadDuration(t *testing.T) {
	fc := FileConfig{OfflinePollInterval: "not-a-duration"}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err == nil {
		t.Error("apply accepted invalid duration")
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv(EnvServiceURL, "https://env.example.com")
	t.Setenv(EnvMaxRetries, "9")
	t.Setenv(EnvPollInterval, "7s")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.ServiceURL != "https://env.example.com" {
		t.Errorf("ServiceURL = %q", cfg.ServiceURL)
	}
	if cfg.MaxRetries != 9 {
		t.Errorf("MaxRetries = %d, want 9", cfg.MaxRetries)
	}
	if cfg.OfflinePollInterval != 7*time.Second {
		t.Errorf("OfflinePollInterval = %v, want 7s", cfg.OfflinePollInterval)
	}
}

func TestApplyEnvConfig_FlagPrecedence(t *testing.T) {
	t.Setenv(EnvMaxRetries, "9")

	cfg := DefaultConfig()
	cfg.MaxRetries = 4
	changed := map[string]bool{"max-retries": true}

	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.MaxRetries != 4 {
		t.Errorf("MaxRetries = %d: explicit flag must win over env", cfg.MaxRetries)
	}
}
