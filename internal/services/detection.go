// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package services

import (
	"context"
	"net/http"

	"github.com/tomtom215/facetrack/internal/apiclient"
	"github.com/tomtom215/facetrack/internal/models"
	"github.com/tomtom215/facetrack/internal/validation"
)

// DefaultDetectionsPerPage matches the backend default.
const DefaultDetectionsPerPage = 20

// UploadOptions tags an uploaded image or video with where it came from.
type UploadOptions struct {
	Location string
	CameraID string
}

// DetectionLogQuery filters GET /detection/logs.
type DetectionLogQuery struct {
	Page    int
	PerPage int
	Status  string
}

// DetectionService covers /detection.
type DetectionService struct {
	c *apiclient.Client
}

// Upload runs face recognition on an image file.
func (s *DetectionService) Upload(ctx context.Context, path string, opts UploadOptions) (*models.DetectionResult, error) {
	return s.upload(ctx, "/detection/upload", "image", path, opts)
}

// Live submits a single camera frame. The backend labels frames without a
// location as "Live Camera".
func (s *DetectionService) Live(ctx context.Context, path string, opts UploadOptions) (*models.DetectionResult, error) {
	return s.upload(ctx, "/detection/live", "frame", path, opts)
}

func (s *DetectionService) upload(ctx context.Context, endpoint, field, path string, opts UploadOptions) (*models.DetectionResult, error) {
	if err := validation.ValidatePhotoFilename(path); err != nil {
		return nil, err
	}
	form := apiclient.NewMultipart().Field("location", opts.Location).Field("camera_id", opts.CameraID)
	if err := form.AddFile(field, path); err != nil {
		return nil, err
	}

	var out models.DetectionResult
	if err := s.c.Do(ctx, &apiclient.Request{Method: http.MethodPost, Path: endpoint, Form: form}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logs returns one page of detection logs.
func (s *DetectionService) Logs(ctx context.Context, q DetectionLogQuery) (*models.DetectionLogList, error) {
	if q.PerPage == 0 {
		q.PerPage = DefaultDetectionsPerPage
	}
	params := query{}.int("page", q.Page).int("per_page", q.PerPage).str("status", q.Status)

	var out models.DetectionLogList
	if err := s.c.Get(ctx, "/detection/logs", params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Log returns a single detection log.
func (s *DetectionService) Log(ctx context.Context, id int64) (*models.DetectionLog, error) {
	var out models.DetectionLog
	if err := s.c.Get(ctx, pathf("/detection/logs/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify records a review decision: verified or false_positive.
func (s *DetectionService) Verify(ctx context.Context, id int64, status, notes string) (*models.DetectionVerifyResponse, error) {
	body := models.DetectionVerify{Status: status, Notes: notes}
	if err := validate(&body); err != nil {
		return nil, err
	}

	var out models.DetectionVerifyResponse
	if err := s.c.Put(ctx, pathf("/detection/logs/%d/verify", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Image downloads the captured image of a detection (JPEG).
func (s *DetectionService) Image(ctx context.Context, id int64) ([]byte, error) {
	data, _, err := s.c.Bytes(ctx, &apiclient.Request{Method: http.MethodGet, Path: pathf("/detection/image/%d", id)})
	return data, err
}
