// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/facetrack/internal/authz"
	"github.com/tomtom215/facetrack/internal/credentials"
	"github.com/tomtom215/facetrack/internal/models"
)

// PasswordEnvVar supplies the password to login and register when the
// flag is not set.
const PasswordEnvVar = "FACETRACK_PASSWORD"

func (a *app) password(flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(PasswordEnvVar); v != "" {
		return v, nil
	}
	return a.readLine(prompt)
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store credentials",
		Long: `Log in with email and password. The access and refresh tokens and the
user profile are stored in the credential store.

The password is read from --password, then ` + PasswordEnvVar + `, then stdin.

Examples:
  facetrack login --email officer@example.org
  echo "$PW" | facetrack login --email officer@example.org`,
		Args: cobra.NoArgs,
		RunE: a.anonymous(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if email == "" {
				var err error
				if email, err = a.readLine("Email: "); err != nil {
					return err
				}
			}
			pw, err := a.password(password, "Password: ")
			if err != nil {
				return err
			}

			resp, err := a.svc.Auth.Login(ctx, email, pw)
			if err != nil {
				return err
			}
			return a.render(resp.User, func(w io.Writer) {
				fmt.Fprintf(w, "Logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
			})
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear stored credentials",
		Args:  cobra.NoArgs,
		RunE: a.anonymous(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			ack, err := a.svc.Auth.Logout(ctx)
			if err != nil {
				return err
			}
			result := struct {
				LoggedOut   bool `json:"logged_out" yaml:"logged_out"`
				ServerAcked bool `json:"server_acknowledged" yaml:"server_acknowledged"`
			}{true, ack}
			return a.render(result, func(w io.Writer) {
				fmt.Fprintln(w, "Logged out.")
			})
		}),
	}
}

// statusView is the offline session summary printed by 'facetrack status'.
type statusView struct {
	LoggedIn       bool                   `json:"logged_in" yaml:"logged_in"`
	APIURL         string                 `json:"api_url" yaml:"api_url"`
	User           *models.User           `json:"user,omitempty" yaml:"user,omitempty"`
	AccessToken    *credentials.TokenInfo `json:"access_token,omitempty" yaml:"access_token,omitempty"`
	TokenExpired   bool                   `json:"token_expired" yaml:"token_expired"`
	HasRefresh     bool                   `json:"has_refresh_token" yaml:"has_refresh_token"`
	CircuitBreaker string                 `json:"circuit_breaker" yaml:"circuit_breaker"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session without contacting the server",
		Args:  cobra.NoArgs,
		RunE: a.anonymous(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			sess := a.client.Session()
			view := statusView{
				APIURL:         a.client.BaseURL(),
				CircuitBreaker: a.client.BreakerState(),
			}

			user, err := authz.RequireAuthenticated(ctx, sess)
			if err == nil {
				view.LoggedIn = true
				view.User = user
			}
			if tok, _ := sess.AccessToken(ctx); tok != "" {
				if info, err := credentials.InspectToken(tok); err == nil {
					view.AccessToken = info
					view.TokenExpired = info.Expired(time.Now())
				}
			}
			if ref, _ := sess.RefreshToken(ctx); ref != "" {
				view.HasRefresh = true
			}

			return a.render(view, func(w io.Writer) {
				if !view.LoggedIn {
					fmt.Fprintln(w, "Not logged in.")
					row(w, "API:", view.APIURL)
					return
				}
				row(w, "User:", fmt.Sprintf("%s <%s>", user.Username, user.Email))
				row(w, "Role:", user.Role)
				row(w, "API:", view.APIURL)
				if info := view.AccessToken; info != nil {
					switch {
					case info.ExpiresAt.IsZero():
						row(w, "Token:", "no expiry")
					case view.TokenExpired:
						row(w, "Token:", "expired "+info.ExpiresAt.Local().Format(time.RFC3339)+" (refreshes on next call)")
					default:
						row(w, "Token:", "valid for "+info.Remaining(time.Now()).Truncate(time.Second).String())
					}
				}
				row(w, "Refresh token:", view.HasRefresh)
				row(w, "Circuit breaker:", view.CircuitBreaker)
			})
		}),
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var req models.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account from an invitation token",
		Long: `Create an account from an invitation token. Check a token first with
'facetrack verify-invite'.

Examples:
  facetrack register --token abc123 --username jdoe --email jdoe@example.org`,
		Args: cobra.NoArgs,
		RunE: a.anonymous(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			pw, err := a.password(req.Password, "Password: ")
			if err != nil {
				return err
			}
			req.Password = pw

			resp, err := a.svc.Auth.Register(ctx, req)
			if err != nil {
				return err
			}
			return a.render(resp.User, func(w io.Writer) {
				fmt.Fprintf(w, "Registered %s as %s. Log in with 'facetrack login --email %s'.\n",
					resp.User.Username, resp.User.Role, resp.User.Email)
			})
		}),
	}

	f := cmd.Flags()
	f.StringVar(&req.Token, "token", "", "Invitation token (required)")
	f.StringVar(&req.Username, "username", "", "Username (required)")
	f.StringVar(&req.Email, "email", "", "Email, must match the invitation (required)")
	f.StringVar(&req.Password, "password", "", "Password, at least 6 characters")
	f.StringVar(&req.Phone, "phone", "", "Phone number")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newVerifyInviteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-invite <token>",
		Short: "Check an invitation token",
		Args:  cobra.ExactArgs(1),
		RunE: a.anonymous(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			inv, err := a.svc.Auth.VerifyInvite(ctx, args[0])
			if err != nil {
				return err
			}
			return a.render(inv, func(w io.Writer) {
				row(w, "Valid:", inv.Valid)
				row(w, "Email:", inv.Email)
				row(w, "Role:", inv.Role)
				row(w, "Department:", inv.Department)
				row(w, "Expires:", inv.ExpiresAt)
			})
		}),
	}
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your own account",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjProfile, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			user, err := a.svc.Auth.Profile(ctx)
			if err != nil {
				return err
			}
			return a.renderUser(user)
		}),
	}

	var update models.ProfileUpdate
	upd := &cobra.Command{
		Use:   "update",
		Short: "Update username, email or phone",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjProfile, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			user, err := a.svc.Auth.UpdateProfile(ctx, update)
			if err != nil {
				return err
			}
			return a.renderUser(user)
		}),
	}
	upd.Flags().StringVar(&update.Username, "username", "", "New username")
	upd.Flags().StringVar(&update.Email, "email", "", "New email")
	upd.Flags().StringVar(&update.Phone, "phone", "", "New phone number")

	var current, next string
	chpw := &cobra.Command{
		Use:   "change-password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjProfile, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			var err error
			if current == "" {
				if current, err = a.readLine("Current password: "); err != nil {
					return err
				}
			}
			if next == "" {
				if next, err = a.readLine("New password: "); err != nil {
					return err
				}
			}
			if err := a.svc.Auth.ChangePassword(ctx, current, next); err != nil {
				return err
			}
			return a.message(models.Message{Message: "Password changed successfully"}, "Password changed.")
		}),
	}
	chpw.Flags().StringVar(&current, "current", "", "Current password")
	chpw.Flags().StringVar(&next, "new", "", "New password, at least 6 characters")

	cmd.AddCommand(show, upd, chpw)
	return cmd
}

func (a *app) renderUser(u *models.User) error {
	return a.render(u, func(w io.Writer) {
		row(w, "ID:", u.ID)
		row(w, "Username:", u.Username)
		row(w, "Email:", u.Email)
		row(w, "Phone:", u.Phone)
		row(w, "Role:", u.Role)
		row(w, "Active:", u.IsActive)
		row(w, "Created:", u.CreatedAt)
	})
}
