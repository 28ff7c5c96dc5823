// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

// Package config loads FaceTrack client configuration.
//
// Configuration is layered with koanf: built-in defaults, then an optional
// YAML file, then environment variables. Later layers win. Command-line
// flags are applied by the CLI on top of the loaded Config.
//
// Example facetrack.yaml:
//
//	api:
//	  base_url: https://facetrack.example.org/api
//	  timeout: 30s
//	credentials:
//	  store: badger
//	  encryption_key: ${FACETRACK_ENCRYPTION_KEY}
//	watch:
//	  poll_interval: 30s
//	  sink: nats
//	nats:
//	  url: nats://127.0.0.1:4222
//	  subject: facetrack.notifications
package config

import "time"

// Config is the complete client configuration.
type Config struct {
	API            APIConfig            `koanf:"api"`
	Credentials    CredentialsConfig    `koanf:"credentials"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	Logging        LoggingConfig        `koanf:"logging"`
	Watch          WatchConfig          `koanf:"watch"`
	NATS           NATSConfig           `koanf:"nats"`
}

// APIConfig describes how to reach the backend.
type APIConfig struct {
	// BaseURL is the API root including the /api prefix.
	// Default: http://localhost:5000/api
	BaseURL string `koanf:"base_url"`

	// Timeout bounds each individual HTTP request.
	// Default: 30s
	Timeout time.Duration `koanf:"timeout"`

	// UserAgent is sent on every request.
	UserAgent string `koanf:"user_agent"`

	// MaxRetries is how many times a 429 response is retried with backoff.
	// Default: 5
	MaxRetries int `koanf:"max_retries"`

	// RateLimit is the client-side request rate in requests/second.
	// Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the limiter burst size. Default: 10
	RateBurst int `koanf:"rate_burst"`
}

// CredentialsConfig describes where tokens and the user profile are stored.
type CredentialsConfig struct {
	// Store is "badger" (persistent) or "memory" (process lifetime only).
	Store string `koanf:"store"`

	// Path is the badger directory.
	// Default: $XDG_CONFIG_HOME/facetrack/credentials
	Path string `koanf:"path"`

	// EncryptionKey enables AES-GCM encryption of stored values when set.
	// Must be at least 32 characters.
	EncryptionKey string `koanf:"encryption_key"`
}

// CircuitBreakerConfig tunes the breaker wrapped around the HTTP transport.
type CircuitBreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval clears closed-state counts. Timeout is how long the breaker
	// stays open before probing.
	Interval time.Duration `koanf:"interval"`
	Timeout  time.Duration `koanf:"timeout"`

	// The breaker trips once MinRequests have been seen and the failure
	// ratio reaches FailureRatio.
	MinRequests  uint32  `koanf:"min_requests"`
	FailureRatio float64 `koanf:"failure_ratio"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// WatchConfig configures the notification watcher.
type WatchConfig struct {
	// PollInterval between unread-count checks. Default: 30s
	PollInterval time.Duration `koanf:"poll_interval"`

	// FetchLimit caps notifications fetched per poll. Default: 100
	FetchLimit int `koanf:"fetch_limit"`

	// Sink is "log" or "nats".
	Sink string `koanf:"sink"`

	// ListenAddr serves /healthz, /status and /metrics. Empty disables it.
	ListenAddr string `koanf:"listen_addr"`

	// CORSOrigins is a comma-separated list of browser origins allowed to
	// read /status. Empty sends no CORS headers.
	CORSOrigins string `koanf:"cors_origins"`

	// StatusRateLimit caps status server requests per client IP per
	// minute. 0 disables the limit.
	StatusRateLimit int `koanf:"status_rate_limit"`
}

// NATSConfig is used by the nats watch sink.
type NATSConfig struct {
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`
}
