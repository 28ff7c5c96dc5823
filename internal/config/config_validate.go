// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// MinEncryptionKeyLength is the shortest accepted credentials.encryption_key.
const MinEncryptionKeyLength = 32

// MaxRetriesLimit bounds api.max_retries.
const MaxRetriesLimit = 10

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateCredentials(); err != nil {
		return err
	}
	if err := c.validateCircuitBreaker(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAPI() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("FACETRACK_API_URL is required")
	}
	if err := validateHTTPURL(c.API.BaseURL, "FACETRACK_API_URL"); err != nil {
		return err
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("FACETRACK_TIMEOUT must be positive, got %v", c.API.Timeout)
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > MaxRetriesLimit {
		return fmt.Errorf("FACETRACK_MAX_RETRIES must be between 0 and %d, got %d", MaxRetriesLimit, c.API.MaxRetries)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("FACETRACK_RATE_LIMIT must be >= 0, got %v", c.API.RateLimit)
	}
	if c.API.RateLimit > 0 && c.API.RateBurst < 1 {
		return fmt.Errorf("FACETRACK_RATE_BURST must be >= 1 when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateCredentials() error {
	switch c.Credentials.Store {
	case "badger":
		if c.Credentials.Path == "" {
			return fmt.Errorf("FACETRACK_CREDENTIAL_PATH is required for the badger store")
		}
	case "memory":
	default:
		return fmt.Errorf("FACETRACK_CREDENTIAL_STORE must be badger or memory, got %q", c.Credentials.Store)
	}

	if key := c.Credentials.EncryptionKey; key != "" && len(key) < MinEncryptionKeyLength {
		return fmt.Errorf("FACETRACK_ENCRYPTION_KEY must be at least %d characters", MinEncryptionKeyLength)
	}
	return nil
}

func (c *Config) validateCircuitBreaker() error {
	cb := c.CircuitBreaker
	if !cb.Enabled {
		return nil
	}
	if cb.MaxRequests == 0 {
		return fmt.Errorf("circuit_breaker.max_requests must be at least 1")
	}
	if cb.Timeout < time.Second {
		return fmt.Errorf("circuit_breaker.timeout must be at least 1s, got %v", cb.Timeout)
	}
	if cb.FailureRatio <= 0 || cb.FailureRatio > 1 {
		return fmt.Errorf("circuit_breaker.failure_ratio must be in (0, 1], got %v", cb.FailureRatio)
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.PollInterval < time.Second {
		return fmt.Errorf("FACETRACK_WATCH_INTERVAL must be at least 1s, got %v", c.Watch.PollInterval)
	}
	if c.Watch.FetchLimit < 1 {
		return fmt.Errorf("FACETRACK_WATCH_FETCH_LIMIT must be at least 1, got %d", c.Watch.FetchLimit)
	}
	if c.Watch.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.Watch.ListenAddr); err != nil {
			return fmt.Errorf("FACETRACK_WATCH_LISTEN: %w", err)
		}
	}
	if c.Watch.StatusRateLimit < 0 {
		return fmt.Errorf("FACETRACK_WATCH_RATE_LIMIT must not be negative, got %d", c.Watch.StatusRateLimit)
	}

	switch c.Watch.Sink {
	case "log":
		return nil
	case "nats":
		if c.NATS.Subject == "" {
			return fmt.Errorf("FACETRACK_NATS_SUBJECT is required when FACETRACK_WATCH_SINK=nats")
		}
		return validateNATSURL(c.NATS.URL)
	default:
		return fmt.Errorf("FACETRACK_WATCH_SINK must be log or nats, got %q", c.Watch.Sink)
	}
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled", "off":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, disabled; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
