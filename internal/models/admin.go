// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package models

// DefaultInvitationHours is the backend's invitation lifetime.
const DefaultInvitationHours = 48

// Invitation is an admin-issued registration invite.
type Invitation struct {
	ID         int64     `json:"id" yaml:"id"`
	Email      string    `json:"email" yaml:"email"`
	Role       string    `json:"role" yaml:"role"`
	Department *string   `json:"department" yaml:"department"`
	InvitedBy  *int64    `json:"invited_by" yaml:"invited_by"`
	CreatedAt  Timestamp `json:"created_at" yaml:"created_at"`
	ExpiresAt  Timestamp `json:"expires_at" yaml:"expires_at"`
	UsedAt     Timestamp `json:"used_at" yaml:"used_at"`
	IsActive   bool      `json:"is_active" yaml:"is_active"`
	IsValid    bool      `json:"is_valid" yaml:"is_valid"`
}

// State derives the invitation's list-filter status.
func (i *Invitation) State() string {
	switch {
	case !i.UsedAt.IsZero():
		return "used"
	case i.IsValid:
		return "pending"
	default:
		return "expired"
	}
}

// InvitationRequest is the body of POST /admin/invitations.
type InvitationRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Role           string `json:"role" validate:"required,oneof=admin operator viewer"`
	Department     string `json:"department,omitempty" validate:"omitempty,max=100"`
	ExpiresInHours int    `json:"expires_in_hours" validate:"min=1,max=720"`
}

// InvitationCreated is returned by POST /admin/invitations.
type InvitationCreated struct {
	Message        string     `json:"message" yaml:"message"`
	Invitation     Invitation `json:"invitation" yaml:"invitation"`
	InvitationLink string     `json:"invitation_link" yaml:"invitation_link"`
}

// InvitationResent is returned by POST /admin/invitations/{id}/resend.
type InvitationResent struct {
	Message        string `json:"message" yaml:"message"`
	InvitationLink string `json:"invitation_link" yaml:"invitation_link"`
}

// InvitationList is returned by GET /admin/invitations.
type InvitationList struct {
	Invitations []Invitation `json:"invitations"`
	Page
}
