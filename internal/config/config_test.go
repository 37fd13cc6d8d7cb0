package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.Realtime.Enabled {
		t.Error("realtime should default to disabled")
	}
	if !cfg.Notifications.History {
		t.Error("toast history should default to enabled")
	}
	if cfg.Display.LogLevel != "info" {
		t.Errorf("log level = %q", cfg.Display.LogLevel)
	}
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("TODOTERM_API_URL", "https://todos.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://todos.example.com" {
		t.Errorf("base url = %q, want env override", cfg.API.BaseURL)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api:\n  base_url: https://partial.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://partial.example.com" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.Display.LogLevel != "info" {
		t.Errorf("log level = %q, want default to fill in", cfg.Display.LogLevel)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := defaultConfig()
	want.API.BaseURL = "https://saved.example.com"
	want.Realtime.Enabled = true
	want.Realtime.URL = "wss://saved.example.com/ws"
	want.Display.LogLevel = "debug"

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.API.BaseURL != want.API.BaseURL {
		t.Errorf("base url = %q", got.API.BaseURL)
	}
	if !got.Realtime.Enabled || got.Realtime.URL != want.Realtime.URL {
		t.Errorf("realtime = %+v", got.Realtime)
	}
	if got.Display.LogLevel != "debug" {
		t.Errorf("log level = %q", got.Display.LogLevel)
	}
}

func TestInvalidYAMLIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api: [not: valid"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}
