// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facetrack.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.API.BaseURL != DefaultAPIBaseURL {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, DefaultAPIBaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.API.MaxRetries != 5 {
		t.Errorf("API.MaxRetries = %d, want 5", cfg.API.MaxRetries)
	}
	if cfg.Credentials.Store != "badger" {
		t.Errorf("Credentials.Store = %q, want badger", cfg.Credentials.Store)
	}
	if !strings.HasSuffix(cfg.Credentials.Path, filepath.Join("facetrack", "credentials")) {
		t.Errorf("Credentials.Path = %q, want .../facetrack/credentials", cfg.Credentials.Path)
	}
	if cfg.Watch.PollInterval != 30*time.Second {
		t.Errorf("Watch.PollInterval = %v, want 30s", cfg.Watch.PollInterval)
	}
	if cfg.Watch.FetchLimit != 100 {
		t.Errorf("Watch.FetchLimit = %d, want 100", cfg.Watch.FetchLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadWithKoanf_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
api:
  base_url: https://facetrack.example.org/api
  timeout: 10s
credentials:
  store: memory
watch:
  poll_interval: 1m
  sink: nats
nats:
  url: nats://10.0.0.5:4222
`)

	cfg, err := LoadWithKoanf(path)
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.API.BaseURL != "https://facetrack.example.org/api" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Credentials.Store != "memory" {
		t.Errorf("Credentials.Store = %q, want memory", cfg.Credentials.Store)
	}
	if cfg.Watch.PollInterval != time.Minute {
		t.Errorf("Watch.PollInterval = %v, want 1m", cfg.Watch.PollInterval)
	}
	if cfg.NATS.Subject != "facetrack.notifications" {
		t.Errorf("NATS.Subject = %q, want default subject", cfg.NATS.Subject)
	}
	if cfg.API.UserAgent != "facetrack-cli" {
		t.Errorf("API.UserAgent = %q, want default", cfg.API.UserAgent)
	}
}

func TestLoadWithKoanf_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
api:
  base_url: https://file.example.org/api
`)
	t.Setenv("FACETRACK_API_URL", "https://env.example.org/api")
	t.Setenv("FACETRACK_TIMEOUT", "45s")
	t.Setenv("FACETRACK_CIRCUIT_BREAKER_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf(path)
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.API.BaseURL != "https://env.example.org/api" {
		t.Errorf("API.BaseURL = %q, want env value", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 45*time.Second {
		t.Errorf("API.Timeout = %v, want 45s", cfg.API.Timeout)
	}
	if cfg.CircuitBreaker.Enabled {
		t.Error("CircuitBreaker.Enabled should be false from env")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := LoadWithKoanf(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestFindConfigFile_EnvVar(t *testing.T) {
	path := writeConfigFile(t, "api:\n  timeout: 5s\n")
	t.Setenv(ConfigPathEnvVar, path)

	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"FACETRACK_API_URL", "api.base_url"},
		{"FACETRACK_ENCRYPTION_KEY", "credentials.encryption_key"},
		{"LOG_FORMAT", "logging.format"},
		{"NATS_URL", "nats.url"},
		{"HOME", ""},
		{"PATH", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
