// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/facetrack/internal/apiclient"
	"github.com/tomtom215/facetrack/internal/logging"
	"github.com/tomtom215/facetrack/internal/models"
)

// DefaultAdminPerPage matches the backend default for users and invitations.
const DefaultAdminPerPage = 20

// Invitation list filters.
const (
	InvitationsAll     = "all"
	InvitationsPending = "pending"
	InvitationsUsed    = "used"
	InvitationsExpired = "expired"
)

// UserQuery filters GET /admin/users.
type UserQuery struct {
	Page    int
	PerPage int
	Role    string
}

// InvitationQuery filters GET /admin/invitations.
type InvitationQuery struct {
	Page    int
	PerPage int
	Status  string
}

// AdminService covers /admin. The backend rejects non-admin callers with
// 403; the CLI checks the stored role first.
type AdminService struct {
	c        *apiclient.Client
	security *logging.SecurityLogger
}

// NewAdminService returns an AdminService logging to the default security
// logger.
func NewAdminService(c *apiclient.Client) *AdminService {
	return &AdminService{c: c, security: logging.NewSecurityLogger()}
}

// Users returns one page of accounts.
func (s *AdminService) Users(ctx context.Context, q UserQuery) (*models.UserList, error) {
	if q.PerPage == 0 {
		q.PerPage = DefaultAdminPerPage
	}
	params := query{}.int("page", q.Page).int("per_page", q.PerPage).str("role", q.Role)

	var out models.UserList
	if err := s.c.Get(ctx, "/admin/users", params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) User(ctx context.Context, id int64) (*models.User, error) {
	var out models.UserEnvelope
	if err := s.c.Get(ctx, pathf("/admin/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateUser changes role, active flag or phone of an account.
func (s *AdminService) UpdateUser(ctx context.Context, id int64, update models.UserUpdate) (*models.User, error) {
	if err := validate(&update); err != nil {
		return nil, err
	}
	if update == (models.UserUpdate{}) {
		return nil, fmt.Errorf("nothing to update")
	}

	var out models.UserEnvelope
	if err := s.c.Put(ctx, pathf("/admin/users/%d", id), update, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (s *AdminService) Deactivate(ctx context.Context, id int64) (*models.Message, error) {
	var out models.Message
	if err := s.c.Post(ctx, pathf("/admin/users/%d/deactivate", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) Activate(ctx context.Context, id int64) (*models.Message, error) {
	var out models.Message
	if err := s.c.Post(ctx, pathf("/admin/users/%d/activate", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateInvitation issues a registration invite. A zero lifetime takes the
// backend default of 48 hours.
func (s *AdminService) CreateInvitation(ctx context.Context, req models.InvitationRequest) (*models.InvitationCreated, error) {
	if req.ExpiresInHours == 0 {
		req.ExpiresInHours = models.DefaultInvitationHours
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	var out models.InvitationCreated
	if err := s.c.Post(ctx, "/admin/invitations", req, &out); err != nil {
		return nil, err
	}
	s.security.LogInvitationCreated(req.Email, req.Role)
	return &out, nil
}

// Invitations returns one page of invitations filtered by state.
func (s *AdminService) Invitations(ctx context.Context, q InvitationQuery) (*models.InvitationList, error) {
	switch q.Status {
	case "", InvitationsAll, InvitationsPending, InvitationsUsed, InvitationsExpired:
	default:
		return nil, fmt.Errorf("invalid invitation status %q (want all, pending, used or expired)", q.Status)
	}
	if q.PerPage == 0 {
		q.PerPage = DefaultAdminPerPage
	}
	params := query{}.int("page", q.Page).int("per_page", q.PerPage).str("status", q.Status)

	var out models.InvitationList
	if err := s.c.Get(ctx, "/admin/invitations", params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInvitation revokes an unused invitation.
func (s *AdminService) DeleteInvitation(ctx context.Context, id int64) (*models.Message, error) {
	var out models.Message
	if err := s.c.Delete(ctx, pathf("/admin/invitations/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendInvitation re-sends the invite email and returns the link.
func (s *AdminService) ResendInvitation(ctx context.Context, id int64) (*models.InvitationResent, error) {
	var out models.InvitationResent
	if err := s.c.Post(ctx, pathf("/admin/invitations/%d/resend", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
