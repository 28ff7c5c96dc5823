// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/facetrack/internal/apiclient"
	"github.com/tomtom215/facetrack/internal/logging"
	"github.com/tomtom215/facetrack/internal/models"
)

// AuthService covers /auth. Login and logout also maintain the stored
// session.
type AuthService struct {
	c        *apiclient.Client
	security *logging.SecurityLogger
}

// NewAuthService returns an AuthService logging to the default security
// logger.
func NewAuthService(c *apiclient.Client) *AuthService {
	return &AuthService{c: c, security: logging.NewSecurityLogger()}
}

// Login authenticates and stores the returned tokens and profile.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	req := models.LoginRequest{Email: email, Password: password}
	if err := validate(&req); err != nil {
		return nil, err
	}

	var resp models.LoginResponse
	err := s.c.Do(ctx, &apiclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		JSON:      req,
		NoRefresh: true,
	}, &resp)
	if err != nil {
		s.security.LogLoginFailure(email, err.Error())
		return nil, err
	}
	if resp.AccessToken == "" {
		s.security.LogLoginFailure(email, "no access token in response")
		return nil, fmt.Errorf("login response has no access token")
	}

	if err := s.c.Session().SaveLogin(ctx, resp.AccessToken, resp.RefreshToken, &resp.User); err != nil {
		return nil, fmt.Errorf("store credentials: %w", err)
	}
	s.security.LogLoginSuccess(resp.User.ID, resp.User.Username, resp.User.Role)
	return &resp, nil
}

// Logout notifies the backend and always clears local credentials. The
// returned bool reports whether the backend acknowledged the logout.
func (s *AuthService) Logout(ctx context.Context) (bool, error) {
	var username string
	if u, err := s.c.Session().User(ctx); err == nil && u != nil {
		username = u.Username
	}

	ack := false
	if tok, _ := s.c.Session().AccessToken(ctx); tok != "" {
		err := s.c.Do(ctx, &apiclient.Request{Method: http.MethodPost, Path: "/auth/logout", NoRefresh: true}, nil)
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).Msg("Server-side logout failed; clearing local session anyway")
		} else {
			ack = true
		}
	}

	if err := s.c.Session().Clear(ctx); err != nil {
		return ack, fmt.Errorf("clear credentials: %w", err)
	}
	s.security.LogLogout(username, ack)
	return ack, nil
}

// Register creates an account from an invitation token.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	var resp models.RegisterResponse
	err := s.c.Do(ctx, &apiclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/register",
		JSON:      req,
		NoRefresh: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyInvite checks an invitation token before registration.
func (s *AuthService) VerifyInvite(ctx context.Context, token string) (*models.InviteVerification, error) {
	if token == "" {
		return nil, fmt.Errorf("invitation token is required")
	}
	var resp models.InviteVerification
	err := s.c.Do(ctx, &apiclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/verify-token",
		JSON:      map[string]string{"token": token},
		NoRefresh: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the current user and refreshes the stored copy.
func (s *AuthService) Profile(ctx context.Context) (*models.User, error) {
	var resp models.UserEnvelope
	if err := s.c.Get(ctx, "/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	if err := s.c.Session().SetUser(ctx, &resp.User); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}
	return &resp.User, nil
}

// UpdateProfile changes username, email or phone.
func (s *AuthService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	if err := validate(&update); err != nil {
		return nil, err
	}
	if update == (models.ProfileUpdate{}) {
		return nil, fmt.Errorf("nothing to update")
	}

	var resp models.UserEnvelope
	if err := s.c.Put(ctx, "/auth/profile", update, &resp); err != nil {
		return nil, err
	}
	if err := s.c.Session().SetUser(ctx, &resp.User); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}
	return &resp.User, nil
}

// ChangePassword changes the current user's password.
func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	req := models.PasswordChange{CurrentPassword: current, NewPassword: next}
	if err := validate(&req); err != nil {
		return err
	}

	var username string
	if u, _ := s.c.Session().User(ctx); u != nil {
		username = u.Username
	}

	err := s.c.Post(ctx, "/auth/change-password", req, nil)
	if err != nil {
		s.security.LogPasswordChanged(username, false, err.Error())
		return err
	}
	s.security.LogPasswordChanged(username, true, "")
	return nil
}
