// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-04T10:20:30.123456", time.Date(2025, 3, 4, 10, 20, 30, 123456000, time.UTC)},
		{"2025-03-04T10:20:30", time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC)},
		{"2025-03-04T10:20:30Z", time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC)},
		{"2025-03-04 10:20:30", time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC)},
		{"2025-03-04", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) error = %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got.Time, tt.want)
		}
	}

	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestTimestamp_JSONNull(t *testing.T) {
	t.Parallel()

	var u User
	if err := json.Unmarshal([]byte(`{"id":1,"created_at":null,"updated_at":""}`), &u); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !u.CreatedAt.IsZero() || !u.UpdatedAt.IsZero() {
		t.Error("expected zero timestamps for null and empty values")
	}

	out, err := json.Marshal(u.CreatedAt)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != "null" {
		t.Errorf("Marshal(zero) = %s, want null", out)
	}
	if u.CreatedAt.String() != "-" {
		t.Errorf("String() = %q, want -", u.CreatedAt.String())
	}
}

func TestCriminalList_Decode(t *testing.T) {
	t.Parallel()

	body := `{
		"criminals": [{
			"id": 7, "name": "John Doe", "alias": null, "crime_type": "Robbery",
			"description": "Armed", "status": "wanted", "danger_level": "high",
			"last_seen_location": "Main St", "last_seen_date": null,
			"added_by": 1, "added_date": "2025-01-02T03:04:05.000001",
			"updated_at": "2025-01-02T03:04:05", "encodings_count": 2
		}],
		"total": 11, "pages": 2, "current_page": 1
	}`

	var list CriminalList
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if list.Total != 11 || list.Pages != 2 || list.CurrentPage != 1 {
		t.Errorf("page = %+v, want total=11 pages=2 current=1", list.Page)
	}
	if !list.HasNext() {
		t.Error("expected HasNext() on page 1 of 2")
	}
	if len(list.Criminals) != 1 {
		t.Fatalf("len(Criminals) = %d, want 1", len(list.Criminals))
	}
	c := list.Criminals[0]
	if c.Alias != nil {
		t.Errorf("Alias = %v, want nil", *c.Alias)
	}
	if c.DangerLevel == nil || *c.DangerLevel != "high" {
		t.Errorf("DangerLevel = %v, want high", c.DangerLevel)
	}
	if c.AddedDate.Year() != 2025 {
		t.Errorf("AddedDate = %v, want 2025", c.AddedDate.Time)
	}
}

func TestInvitation_State(t *testing.T) {
	t.Parallel()

	used, _ := ParseTimestamp("2025-01-01T00:00:00")
	tests := []struct {
		name string
		inv  Invitation
		want string
	}{
		{"used", Invitation{UsedAt: used}, "used"},
		{"pending", Invitation{IsValid: true, IsActive: true}, "pending"},
		{"expired", Invitation{IsActive: true}, "expired"},
	}
	for _, tt := range tests {
		if got := tt.inv.State(); got != tt.want {
			t.Errorf("%s: State() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNotification_Headline(t *testing.T) {
	t.Parallel()

	title, subject := "Match found", "Subject"
	tests := []struct {
		n    Notification
		want string
	}{
		{Notification{Title: &title, Subject: &subject, Message: "m"}, "Match found"},
		{Notification{Subject: &subject, Message: "m"}, "Subject"},
		{Notification{Message: "m"}, "m"},
	}
	for _, tt := range tests {
		if got := tt.n.Headline(); got != tt.want {
			t.Errorf("Headline() = %q, want %q", got, tt.want)
		}
	}
}

func TestUser_IsAdmin(t *testing.T) {
	t.Parallel()

	var nilUser *User
	if nilUser.IsAdmin() {
		t.Error("nil user should not be admin")
	}
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin role should be admin")
	}
}
