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

// Processing defaults used by the backend when the body omits them.
const (
	DefaultFrameSkip           = 5
	DefaultConfidenceThreshold = 0.75
	DefaultVideoListLimit      = 20
)

// VideoService covers /video.
type VideoService struct {
	c *apiclient.Client
}

// Upload sends a video file for later processing.
func (s *VideoService) Upload(ctx context.Context, path string, opts UploadOptions) (*models.VideoUploadResult, error) {
	if err := validation.ValidateVideoFilename(path); err != nil {
		return nil, err
	}
	form := apiclient.NewMultipart().Field("location", opts.Location).Field("camera_id", opts.CameraID)
	if err := form.AddFile("video", path); err != nil {
		return nil, err
	}

	var out models.VideoUploadResult
	if err := s.c.Do(ctx, &apiclient.Request{Method: http.MethodPost, Path: "/video/upload", Form: form}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Process runs face recognition over an uploaded video. Zero values in req
// take the defaults. The call blocks until the backend finishes.
func (s *VideoService) Process(ctx context.Context, id int64, req models.VideoProcessRequest) (*models.VideoProcessResult, error) {
	if req.FrameSkip == 0 {
		req.FrameSkip = DefaultFrameSkip
	}
	if req.ConfidenceThreshold == 0 {
		req.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	var out models.VideoProcessResult
	if err := s.c.Post(ctx, pathf("/video/process/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns recent videos, optionally filtered by processing status.
func (s *VideoService) List(ctx context.Context, limit int, status string) (*models.VideoList, error) {
	if limit == 0 {
		limit = DefaultVideoListLimit
	}
	params := query{}.int("limit", limit).str("status", status)

	var out models.VideoList
	if err := s.c.Get(ctx, "/video/list", params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns a video with its matched criminals and summary.
func (s *VideoService) Get(ctx context.Context, id int64) (*models.VideoDetails, error) {
	var out models.VideoDetails
	if err := s.c.Get(ctx, pathf("/video/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Frames returns per-frame results, optionally only frames with a match.
func (s *VideoService) Frames(ctx context.Context, id int64, matchedOnly bool) (*models.VideoFrames, error) {
	params := query{}.flag("matched_only", matchedOnly)

	var out models.VideoFrames
	if err := s.c.Get(ctx, pathf("/video/%d/frames", id), params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a video and its frame results.
func (s *VideoService) Delete(ctx context.Context, id int64) (*models.Message, error) {
	var out models.Message
	if err := s.c.Delete(ctx, pathf("/video/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns aggregate video processing counts.
func (s *VideoService) Stats(ctx context.Context) (*models.VideoStats, error) {
	var out struct {
		Stats models.VideoStats `json:"stats"`
	}
	if err := s.c.Get(ctx, "/video/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}
