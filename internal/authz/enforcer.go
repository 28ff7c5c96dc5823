// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

// Package authz decides, before any network call, whether the stored
// session may run a command. Role rules live in an embedded Casbin model
// and policy; the backend still enforces its own checks.
//
// The policy grants by role:
//
//	viewer    read dashboard, criminals, detections, videos, notifications;
//	          manage own profile and notifications
//	operator  viewer + write criminals, detections, videos
//	admin     operator + users and invitations
//
// Roles the policy does not know fall back to viewer.
package authz

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/facetrack/internal/credentials"
	"github.com/tomtom215/facetrack/internal/models"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Object is a protected resource.
type Object string

const (
	ObjDashboard     Object = "dashboard"
	ObjCriminals     Object = "criminals"
	ObjDetections    Object = "detections"
	ObjVideos        Object = "videos"
	ObjNotifications Object = "notifications"
	ObjProfile       Object = "profile"
	ObjUsers         Object = "users"
	ObjInvitations   Object = "invitations"
)

// Action is what a command does to an Object.
type Action string

const (
	ActRead  Action = "read"
	ActWrite Action = "write"
)

var (
	// ErrNotAuthenticated means no usable session is stored.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrForbidden means the stored role may not perform the action.
	ErrForbidden = errors.New("permission denied")
)

// GuardConfig configures NewGuard.
type GuardConfig struct {
	// ModelPath overrides the embedded model when the file exists.
	ModelPath string

	// PolicyPath overrides the embedded policy when the file exists.
	PolicyPath string

	// DefaultRole is used for roles the policy does not know.
	DefaultRole string
}

// Guard wraps a Casbin enforcer loaded with the role policy.
type Guard struct {
	enforcer    *casbin.SyncedEnforcer
	defaultRole string
}

// NewGuard builds a guard. A nil config uses the embedded model and policy.
func NewGuard(cfg *GuardConfig) (*Guard, error) {
	if cfg == nil {
		cfg = &GuardConfig{}
	}
	if cfg.DefaultRole == "" {
		cfg.DefaultRole = models.RoleViewer
	}

	var m model.Model
	var err error
	if cfg.ModelPath != "" && fileExists(cfg.ModelPath) {
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" && fileExists(cfg.PolicyPath) {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Guard{enforcer: enforcer, defaultRole: cfg.DefaultRole}, nil
}

// loadPolicy adds the p and g lines of a policy CSV.
func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) >= 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) >= 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		}
	}
	return nil
}

// EffectiveRole maps role onto a role the policy knows.
func (g *Guard) EffectiveRole(role string) string {
	switch role {
	case models.RoleAdmin, models.RoleOperator, models.RoleViewer:
		return role
	default:
		return g.defaultRole
	}
}

// Allowed reports whether role may perform act on obj.
func (g *Guard) Allowed(role string, obj Object, act Action) (bool, error) {
	ok, err := g.enforcer.Enforce(g.EffectiveRole(role), string(obj), string(act))
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return ok, nil
}

// Authorize returns an error wrapping ErrForbidden when role may not
// perform act on obj.
func (g *Guard) Authorize(role string, obj Object, act Action) error {
	ok, err := g.Allowed(role, obj, act)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: role %s cannot %s %s", ErrForbidden, g.EffectiveRole(role), act, obj)
	}
	return nil
}

// Require checks the session and then the stored user's role.
func (g *Guard) Require(ctx context.Context, sess *credentials.Session, obj Object, act Action) (*models.User, error) {
	user, err := RequireAuthenticated(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := g.Authorize(user.Role, obj, act); err != nil {
		return nil, err
	}
	return user, nil
}

// RequireAuthenticated returns the stored user when both an access token
// and a user record are present.
func RequireAuthenticated(ctx context.Context, sess *credentials.Session) (*models.User, error) {
	if !sess.IsAuthenticated(ctx) {
		return nil, ErrNotAuthenticated
	}
	user, err := sess.User(ctx)
	if err != nil {
		return nil, fmt.Errorf("read stored user: %w", err)
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	return user, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
