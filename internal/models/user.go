// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package models

// Roles understood by the backend.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

// User is an account on the backend.
type User struct {
	ID        int64     `json:"id" yaml:"id"`
	Username  string    `json:"username" yaml:"username"`
	Email     string    `json:"email" yaml:"email"`
	Phone     *string   `json:"phone" yaml:"phone"`
	Role      string    `json:"role" yaml:"role"`
	IsActive  bool      `json:"is_active" yaml:"is_active"`
	CreatedAt Timestamp `json:"created_at" yaml:"created_at"`
	UpdatedAt Timestamp `json:"updated_at" yaml:"updated_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// RefreshResponse is returned by POST /auth/refresh.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// RegisterRequest is the body of POST /auth/register. Registration is
// invitation-only; Token is the invitation token from the emailed link.
type RegisterRequest struct {
	Token    string `json:"token" validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// RegisterResponse is returned by POST /auth/register.
type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// InviteVerification is returned by POST /auth/verify-token.
type InviteVerification struct {
	Message    string    `json:"message" yaml:"message"`
	Valid      bool      `json:"valid" yaml:"valid"`
	Email      string    `json:"email" yaml:"email"`
	Role       string    `json:"role" yaml:"role"`
	Department *string   `json:"department" yaml:"department"`
	ExpiresAt  Timestamp `json:"expires_at" yaml:"expires_at"`
}

// ProfileUpdate is the body of PUT /auth/profile. Empty fields are omitted
// and left unchanged by the backend.
type ProfileUpdate struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=80"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// PasswordChange is the body of POST /auth/change-password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,nefield=CurrentPassword"`
}

// UserEnvelope wraps a single user ({"user": {...}}).
type UserEnvelope struct {
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}

// UserUpdate is the admin body of PUT /admin/users/{id}. The backend only
// applies role, is_active and phone.
type UserUpdate struct {
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin operator viewer"`
	IsActive *bool   `json:"is_active,omitempty"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// UserList is returned by GET /admin/users.
type UserList struct {
	Users []User `json:"users"`
	Page
}
