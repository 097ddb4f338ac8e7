package cliconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("max_retries = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan FileConfig, 4)
	w := NewWatcher(path, func(fc FileConfig) { reloaded <- fc }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("max_retries = 8\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case fc := <-reloaded:
		if fc.MaxRetries != 8 {
			t.Errorf("MaxRetries = %d, want 8", fc.MaxRetries)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after config change")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("max_retries = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan FileConfig, 4)
	w := NewWatcher(path, func(fc FileConfig) { reloaded <- fc }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
		t.Fatal("reload triggered by unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
