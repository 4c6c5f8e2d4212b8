package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// unsetEnv clears key for the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

func TestLogLevelFromDotenv(t *testing.T) {
	dir := t.TempDir()
	env := "SHOWDOWN_USERNAME=agentbot\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	unsetEnv(t, "SHOWDOWN_USERNAME")
	unsetEnv(t, "LOG_LEVEL")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := provideConfig()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("config log level: got %q, want debug", cfg.LogLevel)
	}
	if lvl := provideLogger(cfg).GetLevel(); lvl != zerolog.DebugLevel {
		t.Fatalf("logger level: got %v, want debug", lvl)
	}
}
