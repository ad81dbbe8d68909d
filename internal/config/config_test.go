package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("serverPort: \"9090\"\nsyncCron: \"*/15 * * * *\"\nexcludedBusinessNames:\n  - Test Spa\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg := Load()
	if cfg.ServerPort != "7070" {
		t.Fatalf("expected env port to win, got %q", cfg.ServerPort)
	}
	if cfg.SyncCron != "*/15 * * * *" {
		t.Fatalf("expected cron from file, got %q", cfg.SyncCron)
	}
	if len(cfg.ExcludedBusinessNames) != 1 || cfg.ExcludedBusinessNames[0] != "Test Spa" {
		t.Fatalf("unexpected excluded names: %v", cfg.ExcludedBusinessNames)
	}
	if cfg.RateLimitBurst != 3 {
		t.Fatalf("expected burst 3, got %d", cfg.RateLimitBurst)
	}
	if cfg.Addr() != ":7070" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoadExcludedNamesFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("EXCLUDED_BUSINESS_NAMES", " Demo Spa , ,Old Place")
	t.Setenv("STORAGE_DRIVER", "MEMORY")

	cfg := Load()
	if len(cfg.ExcludedBusinessNames) != 2 {
		t.Fatalf("expected 2 names, got %v", cfg.ExcludedBusinessNames)
	}
	if !cfg.MemoryStorage() {
		t.Fatalf("expected memory storage driver")
	}
}
