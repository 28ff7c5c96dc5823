// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

// Package services provides typed calls for every backend endpoint on top
// of the authenticated pipeline in apiclient.
package services

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/tomtom215/facetrack/internal/apiclient"
	"github.com/tomtom215/facetrack/internal/validation"
)

// Services groups the per-resource services sharing one client.
type Services struct {
	Auth          *AuthService
	Criminals     *CriminalService
	Detection     *DetectionService
	Video         *VideoService
	Dashboard     *DashboardService
	Admin         *AdminService
	Notifications *NotificationService
}

// New wires every service to c.
func New(c *apiclient.Client) *Services {
	return &Services{
		Auth:          NewAuthService(c),
		Criminals:     &CriminalService{c: c},
		Detection:     &DetectionService{c: c},
		Video:         &VideoService{c: c},
		Dashboard:     &DashboardService{c: c},
		Admin:         NewAdminService(c),
		Notifications: &NotificationService{c: c},
	}
}

// query builds URL parameters, skipping zero values so the backend applies
// its own defaults.
type query url.Values

func (q query) int(key string, v int) query {
	if v > 0 {
		url.Values(q).Set(key, strconv.Itoa(v))
	}
	return q
}

func (q query) str(key, v string) query {
	if v != "" {
		url.Values(q).Set(key, v)
	}
	return q
}

func (q query) flag(key string, v bool) query {
	if v {
		url.Values(q).Set(key, "true")
	}
	return q
}

func (q query) values() url.Values {
	if len(q) == 0 {
		return nil
	}
	return url.Values(q)
}

func pathf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func validate(v any) error {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr
	}
	return nil
}
