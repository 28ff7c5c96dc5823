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

// DashboardService covers /dashboard. Every aggregate is computed server
// side; the client only unwraps the response envelopes.
type DashboardService struct {
	c *apiclient.Client
}

func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := s.c.Get(ctx, "/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) RecentDetections(ctx context.Context) ([]models.DetectionLog, error) {
	var out struct {
		Detections []models.DetectionLog `json:"detections"`
	}
	if err := s.c.Get(ctx, "/dashboard/recent-detections", nil, &out); err != nil {
		return nil, err
	}
	return out.Detections, nil
}

// TopCriminals returns the most detected criminals (backend default 5).
func (s *DashboardService) TopCriminals(ctx context.Context, limit int) ([]models.Criminal, error) {
	var out struct {
		Criminals []models.Criminal `json:"criminals"`
	}
	if err := s.c.Get(ctx, "/dashboard/top-criminals", query{}.int("limit", limit).values(), &out); err != nil {
		return nil, err
	}
	return out.Criminals, nil
}

// DetectionsTimeline returns daily counts for the last days (default 7).
func (s *DashboardService) DetectionsTimeline(ctx context.Context, days int) (*models.Timeline, error) {
	var out models.Timeline
	if err := s.c.Get(ctx, "/dashboard/detections-timeline", query{}.int("days", days).values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) StatusBreakdown(ctx context.Context) ([]models.StatusCount, error) {
	var out struct {
		Breakdown []models.StatusCount `json:"breakdown"`
	}
	if err := s.c.Get(ctx, "/dashboard/detection-status-breakdown", nil, &out); err != nil {
		return nil, err
	}
	return out.Breakdown, nil
}

func (s *DashboardService) ConfidenceDistribution(ctx context.Context) ([]models.ConfidenceBucket, error) {
	var out struct {
		Distribution []models.ConfidenceBucket `json:"distribution"`
	}
	if err := s.c.Get(ctx, "/dashboard/confidence-distribution", nil, &out); err != nil {
		return nil, err
	}
	return out.Distribution, nil
}

// LocationStats returns detection counts per location (default 10).
func (s *DashboardService) LocationStats(ctx context.Context, limit int) ([]models.LocationCount, error) {
	var out struct {
		Locations []models.LocationCount `json:"locations"`
	}
	if err := s.c.Get(ctx, "/dashboard/location-stats", query{}.int("limit", limit).values(), &out); err != nil {
		return nil, err
	}
	return out.Locations, nil
}

func (s *DashboardService) VideoAnalytics(ctx context.Context) (*models.VideoAnalytics, error) {
	var out models.VideoAnalytics
	if err := s.c.Get(ctx, "/dashboard/video-analytics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) AlertStats(ctx context.Context) (*models.AlertStats, error) {
	var out models.AlertStats
	if err := s.c.Get(ctx, "/dashboard/alert-stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Report returns the analytics report for the last days (default 30).
func (s *DashboardService) Report(ctx context.Context, days int) (*models.AnalyticsReport, error) {
	var out models.AnalyticsReport
	if err := s.c.Get(ctx, "/dashboard/analytics/report", query{}.int("days", days).values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) Performance(ctx context.Context) (*models.PerformanceMetrics, error) {
	var out models.PerformanceMetrics
	if err := s.c.Get(ctx, "/dashboard/analytics/performance", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activity returns per-criminal detection activity.
func (s *DashboardService) Activity(ctx context.Context) ([]models.Criminal, error) {
	var out struct {
		Criminals []models.Criminal `json:"criminals"`
	}
	if err := s.c.Get(ctx, "/dashboard/analytics/activity", nil, &out); err != nil {
		return nil, err
	}
	return out.Criminals, nil
}

func (s *DashboardService) Locations(ctx context.Context) ([]models.LocationHeat, error) {
	var out struct {
		Locations []models.LocationHeat `json:"locations"`
	}
	if err := s.c.Get(ctx, "/dashboard/analytics/locations", nil, &out); err != nil {
		return nil, err
	}
	return out.Locations, nil
}

func (s *DashboardService) Patterns(ctx context.Context) (*models.TimePatterns, error) {
	var out models.TimePatterns
	if err := s.c.Get(ctx, "/dashboard/analytics/patterns", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) VideoStats(ctx context.Context) (*models.VideoProcessingStats, error) {
	var out models.VideoProcessingStats
	if err := s.c.Get(ctx, "/dashboard/analytics/video-stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
