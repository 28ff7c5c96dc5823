// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/facetrack/internal/models"
)

// Session is a typed view over a Store.
type Session struct {
	store Store
}

// NewSession returns a session backed by store.
func NewSession(store Store) *Session {
	return &Session{store: store}
}

// Store returns the underlying store.
func (s *Session) Store() Store {
	return s.store
}

func (s *Session) getOptional(ctx context.Context, key Key) (string, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

// AccessToken returns the stored access token, or "" if none.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	return s.getOptional(ctx, KeyAccessToken)
}

// RefreshToken returns the stored refresh token, or "" if none.
func (s *Session) RefreshToken(ctx context.Context) (string, error) {
	return s.getOptional(ctx, KeyRefreshToken)
}

// SetAccessToken replaces the access token after a refresh.
func (s *Session) SetAccessToken(ctx context.Context, token string) error {
	return s.store.Set(ctx, KeyAccessToken, token)
}

// SaveLogin stores the tokens and profile returned by a successful login.
// An empty refresh token or nil user removes the previous login's value.
func (s *Session) SaveLogin(ctx context.Context, access, refresh string, user *models.User) error {
	if err := s.store.Set(ctx, KeyAccessToken, access); err != nil {
		return err
	}
	if refresh == "" {
		if err := s.store.Delete(ctx, KeyRefreshToken); err != nil {
			return err
		}
	} else if err := s.store.Set(ctx, KeyRefreshToken, refresh); err != nil {
		return err
	}
	if user == nil {
		return s.store.Delete(ctx, KeyUser)
	}
	return s.SetUser(ctx, user)
}

// User returns the stored profile, or nil if none.
func (s *Session) User(ctx context.Context) (*models.User, error) {
	raw, err := s.getOptional(ctx, KeyUser)
	if err != nil || raw == "" {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	return &u, nil
}

// SetUser stores the profile.
func (s *Session) SetUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.store.Set(ctx, KeyUser, string(data))
}

// IsAuthenticated reports whether both an access token and a user profile
// are present.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	token, err := s.AccessToken(ctx)
	if err != nil || token == "" {
		return false
	}
	u, err := s.User(ctx)
	return err == nil && u != nil
}

// Clear removes all credentials.
func (s *Session) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
