// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package authz

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/facetrack/internal/credentials"
	"github.com/tomtom215/facetrack/internal/models"
)

func setupGuard(t *testing.T) *Guard {
	t.Helper()
	g, err := NewGuard(nil)
	if err != nil {
		t.Fatalf("NewGuard() error = %v", err)
	}
	return g
}

func TestGuard_RoleMatrix(t *testing.T) {
	t.Parallel()
	g := setupGuard(t)

	tests := []struct {
		role string
		obj  Object
		act  Action
		want bool
	}{
		{models.RoleViewer, ObjDashboard, ActRead, true},
		{models.RoleViewer, ObjCriminals, ActRead, true},
		{models.RoleViewer, ObjCriminals, ActWrite, false},
		{models.RoleViewer, ObjDetections, ActWrite, false},
		{models.RoleViewer, ObjVideos, ActWrite, false},
		{models.RoleViewer, ObjNotifications, ActWrite, true},
		{models.RoleViewer, ObjProfile, ActWrite, true},
		{models.RoleViewer, ObjUsers, ActRead, false},

		{models.RoleOperator, ObjDashboard, ActRead, true},
		{models.RoleOperator, ObjCriminals, ActWrite, true},
		{models.RoleOperator, ObjDetections, ActWrite, true},
		{models.RoleOperator, ObjVideos, ActWrite, true},
		{models.RoleOperator, ObjUsers, ActRead, false},
		{models.RoleOperator, ObjInvitations, ActWrite, false},

		{models.RoleAdmin, ObjCriminals, ActWrite, true},
		{models.RoleAdmin, ObjUsers, ActRead, true},
		{models.RoleAdmin, ObjUsers, ActWrite, true},
		{models.RoleAdmin, ObjInvitations, ActWrite, true},
		{models.RoleAdmin, ObjNotifications, ActRead, true},
	}

	for _, tt := range tests {
		got, err := g.Allowed(tt.role, tt.obj, tt.act)
		if err != nil {
			t.Fatalf("Allowed(%s, %s, %s) error = %v", tt.role, tt.obj, tt.act, err)
		}
		if got != tt.want {
			t.Errorf("Allowed(%s, %s, %s) = %v, want %v", tt.role, tt.obj, tt.act, got, tt.want)
		}
	}
}

func TestGuard_UnknownRoleFallsBackToViewer(t *testing.T) {
	t.Parallel()
	g := setupGuard(t)

	if got := g.EffectiveRole("superuser"); got != models.RoleViewer {
		t.Errorf("EffectiveRole(superuser) = %q, want viewer", got)
	}
	if err := g.Authorize("", ObjDashboard, ActRead); err != nil {
		t.Errorf("Authorize(empty role, dashboard read) error = %v", err)
	}
	err := g.Authorize("superuser", ObjUsers, ActRead)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Authorize(superuser, users read) error = %v, want ErrForbidden", err)
	}
}

func TestGuard_Require(t *testing.T) {
	t.Parallel()
	g := setupGuard(t)
	ctx := context.Background()

	store := credentials.NewMemoryStore()
	sess := credentials.NewSession(store)

	if _, err := g.Require(ctx, sess, ObjDashboard, ActRead); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("Require() on empty session error = %v, want ErrNotAuthenticated", err)
	}

	// A token without a stored user is not a session.
	if err := sess.SetAccessToken(ctx, "tok"); err != nil {
		t.Fatalf("SetAccessToken() error = %v", err)
	}
	if _, err := g.Require(ctx, sess, ObjDashboard, ActRead); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("Require() with token only error = %v, want ErrNotAuthenticated", err)
	}

	user := &models.User{ID: 2, Username: "op", Role: models.RoleOperator}
	if err := sess.SaveLogin(ctx, "tok", "ref", user); err != nil {
		t.Fatalf("SaveLogin() error = %v", err)
	}
	got, err := g.Require(ctx, sess, ObjCriminals, ActWrite)
	if err != nil {
		t.Fatalf("Require(criminals write) error = %v", err)
	}
	if got.Username != "op" {
		t.Errorf("user = %q, want op", got.Username)
	}
	if _, err := g.Require(ctx, sess, ObjInvitations, ActWrite); !errors.Is(err, ErrForbidden) {
		t.Errorf("Require(invitations write) error = %v, want ErrForbidden", err)
	}
}

func TestNewGuard_PolicyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	policyPath := filepath.Join(dir, "policy.csv")
	policy := "p, viewer, dashboard, read\np, viewer, users, read\n"
	if err := os.WriteFile(policyPath, []byte(policy), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	g, err := NewGuard(&GuardConfig{PolicyPath: policyPath})
	if err != nil {
		t.Fatalf("NewGuard() error = %v", err)
	}
	if ok, _ := g.Allowed(models.RoleViewer, ObjUsers, ActRead); !ok {
		t.Error("custom policy not applied: viewer cannot read users")
	}
	if ok, _ := g.Allowed(models.RoleViewer, ObjCriminals, ActRead); ok {
		t.Error("embedded policy leaked into custom policy")
	}
}

func TestNewGuard_MissingPolicyFileUsesEmbedded(t *testing.T) {
	t.Parallel()

	g, err := NewGuard(&GuardConfig{PolicyPath: filepath.Join(t.TempDir(), "absent.csv")})
	if err != nil {
		t.Fatalf("NewGuard() error = %v", err)
	}
	if ok, _ := g.Allowed(models.RoleAdmin, ObjInvitations, ActWrite); !ok {
		t.Error("embedded policy not loaded")
	}
}
