// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides config file discovery.
const ConfigPathEnvVar = "FACETRACK_CONFIG"

// DefaultAPIBaseURL matches the backend's development address.
const DefaultAPIBaseURL = "http://localhost:5000/api"

// DefaultConfigPaths lists the config file locations searched in order.
func DefaultConfigPaths() []string {
	paths := []string{"facetrack.yaml", "facetrack.yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "facetrack", "config.yaml"))
	}
	return append(paths, "/etc/facetrack/config.yaml")
}

func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".facetrack", "credentials")
	}
	return filepath.Join(dir, "facetrack", "credentials")
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    DefaultAPIBaseURL,
			Timeout:    30 * time.Second,
			UserAgent:  "facetrack-cli",
			MaxRetries: 5,
			RateLimit:  0,
			RateBurst:  10,
		},
		Credentials: CredentialsConfig{
			Store: "badger",
			Path:  defaultCredentialsPath(),
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:      true,
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      2 * time.Minute,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Watch: WatchConfig{
			PollInterval:    30 * time.Second,
			FetchLimit:      100,
			Sink:            "log",
			ListenAddr:      "127.0.0.1:9465",
			StatusRateLimit: 120,
		},
		NATS: NATSConfig{
			URL:     "nats://127.0.0.1:4222",
			Subject: "facetrack.notifications",
		},
	}
}

// Default returns the built-in configuration without consulting files or
// the environment.
func Default() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration with precedence env > file > defaults.
// explicitPath, when non-empty, must exist and skips discovery.
func LoadWithKoanf(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := explicitPath
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	} else {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var envMappings = map[string]string{
	"facetrack_api_url":     "api.base_url",
	"facetrack_timeout":     "api.timeout",
	"facetrack_user_agent":  "api.user_agent",
	"facetrack_max_retries": "api.max_retries",
	"facetrack_rate_limit":  "api.rate_limit",
	"facetrack_rate_burst":  "api.rate_burst",

	"facetrack_credential_store": "credentials.store",
	"facetrack_credential_path":  "credentials.path",
	"facetrack_encryption_key":   "credentials.encryption_key",

	"facetrack_circuit_breaker_enabled":       "circuit_breaker.enabled",
	"facetrack_circuit_breaker_max_requests":  "circuit_breaker.max_requests",
	"facetrack_circuit_breaker_interval":      "circuit_breaker.interval",
	"facetrack_circuit_breaker_timeout":       "circuit_breaker.timeout",
	"facetrack_circuit_breaker_min_requests":  "circuit_breaker.min_requests",
	"facetrack_circuit_breaker_failure_ratio": "circuit_breaker.failure_ratio",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"facetrack_watch_interval":    "watch.poll_interval",
	"facetrack_watch_fetch_limit": "watch.fetch_limit",
	"facetrack_watch_sink":        "watch.sink",
	"facetrack_watch_listen":      "watch.listen_addr",
	"facetrack_watch_cors":        "watch.cors_origins",
	"facetrack_watch_rate_limit":  "watch.status_rate_limit",

	"nats_url":               "nats.url",
	"facetrack_nats_subject": "nats.subject",
}

// envTransformFunc maps known environment variables to koanf paths.
// Unmapped variables return "" and are skipped.
//
//   - FACETRACK_API_URL -> api.base_url
//   - LOG_LEVEL -> logging.level
//   - NATS_URL -> nats.url
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
