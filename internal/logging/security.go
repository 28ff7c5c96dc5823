// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package logging

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// SecurityEvent is an authentication-relevant event. All identifying
// fields are sanitized before they are written.
type SecurityEvent struct {
	Event    string
	UserID   string
	Username string
	Email    string
	Role     string
	Success  bool
	Error    string
	Details  map[string]string
}

// SecurityLogger writes SecurityEvents with component=auth.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on top of the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		logger: With().Str("component", "auth").Logger(),
	}
}

// NewSecurityLoggerWithLogger creates a security logger on top of logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// LogEvent writes event. Failed events are logged at warn level.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info()
	status := "success"
	if !event.Success {
		e = l.logger.Warn()
		status = "failed"
	}
	e = e.Str("event", event.Event).Str("status", status)

	if event.UserID != "" {
		e = e.Str("user_id", SanitizeUserID(event.UserID))
	}
	if event.Username != "" {
		e = e.Str("username", SanitizeUsername(event.Username))
	}
	if event.Email != "" {
		e = e.Str("email", SanitizeEmail(event.Email))
	}
	if event.Role != "" {
		e = e.Str("role", event.Role)
	}
	if event.Error != "" && !event.Success {
		e = e.Str("error", SanitizeError(event.Error))
	}
	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}
	e.Msg("")
}

// ============================================================
// Pre-defined Security Events
// ============================================================

// LogLoginSuccess logs a successful login.
func (l *SecurityLogger) LogLoginSuccess(userID int64, username, role string) {
	l.LogEvent(&SecurityEvent{
		Event:    "login_success",
		UserID:   strconv.FormatInt(userID, 10),
		Username: username,
		Role:     role,
		Success:  true,
	})
}

// LogLoginFailure logs a rejected login attempt.
func (l *SecurityLogger) LogLoginFailure(email, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:   "login_failed",
		Email:   email,
		Success: false,
		Error:   reason,
	})
}

// LogLogout logs a logout. serverAck is false when the backend call failed
// and only local credentials were cleared.
func (l *SecurityLogger) LogLogout(username string, serverAck bool) {
	l.LogEvent(&SecurityEvent{
		Event:    "logout",
		Username: username,
		Success:  true,
		Details: map[string]string{
			"server_ack": strconv.FormatBool(serverAck),
		},
	})
}

// LogTokenRefresh logs the outcome of an access token refresh.
func (l *SecurityLogger) LogTokenRefresh(path string, success bool, errMsg string) {
	l.LogEvent(&SecurityEvent{
		Event:   "token_refresh",
		Success: success,
		Error:   errMsg,
		Details: map[string]string{
			"trigger_path": path,
		},
	})
}

// LogSessionExpired logs that stored credentials were cleared because the
// session could not be renewed.
func (l *SecurityLogger) LogSessionExpired(reason string) {
	l.LogEvent(&SecurityEvent{
		Event:   "session_expired",
		Success: false,
		Error:   reason,
	})
}

// LogPasswordChanged logs a password change by the current user.
func (l *SecurityLogger) LogPasswordChanged(username string, success bool, errMsg string) {
	l.LogEvent(&SecurityEvent{
		Event:    "password_changed",
		Username: username,
		Success:  success,
		Error:    errMsg,
	})
}

// LogInvitationCreated logs an admin invitation.
func (l *SecurityLogger) LogInvitationCreated(email, role string) {
	l.LogEvent(&SecurityEvent{
		Event:   "invitation_created",
		Email:   email,
		Role:    role,
		Success: true,
	})
}

// ============================================================
// Sanitization Functions
// ============================================================

// SanitizeToken keeps the first and last 4 characters.
// Example: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9" -> "eyJh...VCJ9"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUserID masks IDs longer than 8 characters. Numeric backend IDs
// are short and not secret, so they pass through.
func SanitizeUserID(userID string) string {
	if len(userID) <= 8 {
		return userID
	}
	return userID[:4] + "..." + userID[len(userID)-4:]
}

// SanitizeUsername keeps the first 2 characters.
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}
	if len(username) <= 2 {
		return "***"
	}
	return username[:2] + "***"
}

// SanitizeEmail masks the local part of an address.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

var sensitiveErrorWords = []string{
	"password",
	"secret",
	"token",
	"bearer",
	"authorization",
}

// SanitizeError replaces messages mentioning credentials with a generic one.
func SanitizeError(msg string) string {
	lower := strings.ToLower(msg)
	for _, w := range sensitiveErrorWords {
		if strings.Contains(lower, w) {
			return "authentication error"
		}
	}
	return truncateString(msg, 200)
}

var sensitiveKeys = map[string]bool{
	"access_token":  true,
	"refresh_token": true,
	"token":         true,
	"password":      true,
	"authorization": true,
	"invite_token":  true,
}

// SanitizeValue sanitizes value based on its key name.
func SanitizeValue(key, value string) string {
	if sensitiveKeys[strings.ToLower(key)] {
		return SanitizeToken(value)
	}
	if strings.Contains(value, "@") && strings.Contains(value, ".") {
		return SanitizeEmail(value)
	}
	return value
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
