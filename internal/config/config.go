// Package config resolves runtime settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	AppName        = "tasklist"
	DefaultSlotKey = "tasks"
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendMySQL  Backend = "mysql"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendSQLite, BackendMySQL, BackendFile, BackendMemory:
		return true
	default:
		return false
	}
}

type RuntimeConfig struct {
	Backend     Backend
	StorePath   string
	MySQLDSN    string
	SlotKey     string
	EventBuffer int
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Backend:     BackendSQLite,
		StorePath:   filepath.Join(DefaultDataDir(), "tasklist.db"),
		SlotKey:     DefaultSlotKey,
		EventBuffer: 16,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKLIST_BACKEND"); ok {
		if b := Backend(strings.ToLower(v)); b.IsValid() {
			cfg.Backend = b
		}
	}
	if v, ok := getEnvString("TASKLIST_STORE_PATH"); ok {
		cfg.StorePath = v
	}
	if v, ok := getEnvString("TASKLIST_MYSQL_DSN"); ok {
		cfg.MySQLDSN = v
	}
	if v, ok := getEnvString("TASKLIST_SLOT_KEY"); ok {
		cfg.SlotKey = v
	}
	if v, ok := getEnvInt("TASKLIST_EVENT_BUFFER"); ok && v > 0 {
		cfg.EventBuffer = v
	}
	return cfg
}

// DefaultDataDir returns $XDG_DATA_HOME/tasklist, or ~/.local/share/tasklist.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
