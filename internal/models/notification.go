// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package models

// Notification severities and categories accepted as list filters.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"

	CategoryDetection    = "detection"
	CategoryCriminalMgmt = "criminal_mgmt"
	CategorySystem       = "system"
	CategoryOperational  = "operational"
)

// Notification is a backend alert as served by /notifications.
type Notification struct {
	ID               int64          `json:"id" yaml:"id"`
	AlertType        string         `json:"alert_type" yaml:"alert_type"`
	Severity         string         `json:"severity" yaml:"severity"`
	Category         string         `json:"category" yaml:"category"`
	Priority         *int           `json:"priority" yaml:"priority"`
	Title            *string        `json:"title" yaml:"title"`
	Subject          *string        `json:"subject" yaml:"subject"`
	Message          string         `json:"message" yaml:"message"`
	Data             map[string]any `json:"data" yaml:"data"`
	DeliveryMethod   string         `json:"delivery_method" yaml:"delivery_method"`
	RecipientEmail   *string        `json:"recipient_email" yaml:"recipient_email"`
	RecipientPhone   *string        `json:"recipient_phone" yaml:"recipient_phone"`
	Status           string         `json:"status" yaml:"status"`
	Acknowledged     bool           `json:"acknowledged" yaml:"acknowledged"`
	AcknowledgedBy   *int64         `json:"acknowledged_by" yaml:"acknowledged_by"`
	AcknowledgedAt   Timestamp      `json:"acknowledged_at" yaml:"acknowledged_at"`
	SentAt           Timestamp      `json:"sent_at" yaml:"sent_at"`
	CreatedAt        Timestamp      `json:"created_at" yaml:"created_at"`
	ExpiresAt        Timestamp      `json:"expires_at" yaml:"expires_at"`
	DetectionLogID   *int64         `json:"detection_log_id" yaml:"detection_log_id"`
	CriminalID       *int64         `json:"criminal_id" yaml:"criminal_id"`
	UserID           *int64         `json:"user_id" yaml:"user_id"`
	VideoDetectionID *int64         `json:"video_detection_id" yaml:"video_detection_id"`
}

// Headline returns the title, falling back to subject and then message.
func (n *Notification) Headline() string {
	if n.Title != nil && *n.Title != "" {
		return *n.Title
	}
	if n.Subject != nil && *n.Subject != "" {
		return *n.Subject
	}
	return n.Message
}

// NotificationList is returned by GET /notifications.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	UnreadCount   int64          `json:"unread_count"`
}

// UnreadCount is returned by GET /notifications/unread-count.
type UnreadCount struct {
	UnreadCount int64 `json:"unread_count"`
}
