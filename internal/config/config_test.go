package config

import (
	"path/filepath"
	"testing"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	cfg := DefaultRuntimeConfig()
	if cfg.Backend != BackendSQLite || cfg.SlotKey != "tasks" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.StorePath != filepath.Join("/data", "tasklist", "tasklist.db") {
		t.Fatalf("unexpected store path default: %q", cfg.StorePath)
	}
	if cfg.EventBuffer != 16 {
		t.Fatalf("unexpected event buffer default: %d", cfg.EventBuffer)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("TASKLIST_BACKEND", "FILE")
	t.Setenv("TASKLIST_STORE_PATH", "state/tasks.json")
	t.Setenv("TASKLIST_MYSQL_DSN", "user:pw@tcp(127.0.0.1:3306)/tasks")
	t.Setenv("TASKLIST_SLOT_KEY", "todo")
	t.Setenv("TASKLIST_EVENT_BUFFER", "64")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.Backend != BackendFile {
		t.Fatalf("expected file backend, got %q", cfg.Backend)
	}
	if cfg.StorePath != "state/tasks.json" || cfg.SlotKey != "todo" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.MySQLDSN == "" || cfg.EventBuffer != 64 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestRuntimeConfigFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("TASKLIST_BACKEND", "redis")
	t.Setenv("TASKLIST_EVENT_BUFFER", "-3")

	base := DefaultRuntimeConfig()
	cfg := RuntimeConfigFromEnv(base)
	if cfg.Backend != base.Backend {
		t.Fatalf("expected backend unchanged, got %q", cfg.Backend)
	}
	if cfg.EventBuffer != base.EventBuffer {
		t.Fatalf("expected event buffer unchanged, got %d", cfg.EventBuffer)
	}
}
