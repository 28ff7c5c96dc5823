// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package services

import (
	"context"

	"github.com/tomtom215/facetrack/internal/apiclient"
	"github.com/tomtom215/facetrack/internal/models"
)

// DefaultNotificationLimit matches the backend default.
const DefaultNotificationLimit = 100

// NotificationQuery filters GET /notifications.
type NotificationQuery struct {
	UnreadOnly bool
	Limit      int
	Severity   string
	Category   string
}

// NotificationService covers /notifications for the current user.
type NotificationService struct {
	c *apiclient.Client
}

func (s *NotificationService) List(ctx context.Context, q NotificationQuery) (*models.NotificationList, error) {
	if q.Limit == 0 {
		q.Limit = DefaultNotificationLimit
	}
	params := query{}.
		flag("unread_only", q.UnreadOnly).
		int("limit", q.Limit).
		str("severity", q.Severity).
		str("category", q.Category)

	var out models.NotificationList
	if err := s.c.Get(ctx, "/notifications", params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnreadCount returns the number of unacknowledged notifications.
func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	var out models.UnreadCount
	if err := s.c.Get(ctx, "/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	var out struct {
		Message      string              `json:"message"`
		Notification models.Notification `json:"notification"`
	}
	if err := s.c.Put(ctx, pathf("/notifications/%d/mark-read", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Notification, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context) (*models.Message, error) {
	var out models.Message
	if err := s.c.Put(ctx, "/notifications/mark-all-read", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *NotificationService) Delete(ctx context.Context, id int64) (*models.Message, error) {
	var out models.Message
	if err := s.c.Delete(ctx, pathf("/notifications/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearOld deletes acknowledged notifications older than 30 days.
func (s *NotificationService) ClearOld(ctx context.Context) (*models.Message, error) {
	var out models.Message
	if err := s.c.Delete(ctx, "/notifications/clear-old", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
