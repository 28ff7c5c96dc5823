// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo describes a stored token. It is read without verifying the
// signature; the server remains the only authority on validity.
type TokenInfo struct {
	Subject   string    `json:"subject" yaml:"subject"`
	Type      string    `json:"type" yaml:"type"`
	IssuedAt  time.Time `json:"issued_at" yaml:"issued_at"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// Expired reports whether the token has passed its exp claim at now.
// Tokens without exp never expire.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// Remaining returns the time left before expiry, or 0.
func (t TokenInfo) Remaining(now time.Time) time.Duration {
	if t.ExpiresAt.IsZero() || now.After(t.ExpiresAt) {
		return 0
	}
	return t.ExpiresAt.Sub(now)
}

// InspectToken decodes the claims of a JWT.
func InspectToken(token string) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	// flask-jwt-extended encodes identities as strings; older tokens may
	// carry a number.
	if info.Subject == "" {
		if v, ok := claims["sub"].(float64); ok {
			info.Subject = fmt.Sprintf("%.0f", v)
		}
	}
	if typ, ok := claims["type"].(string); ok {
		info.Type = typ
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
