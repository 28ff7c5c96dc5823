// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package models

// DashboardStats is returned by GET /dashboard/stats.
type DashboardStats struct {
	TotalCriminals       int64   `json:"total_criminals" yaml:"total_criminals"`
	WantedCriminals      int64   `json:"wanted_criminals" yaml:"wanted_criminals"`
	Arrested             int64   `json:"arrested" yaml:"arrested"`
	TotalDetections      int64   `json:"total_detections" yaml:"total_detections"`
	PendingVerifications int64   `json:"pending_verifications" yaml:"pending_verifications"`
	VerifiedDetections   int64   `json:"verified_detections" yaml:"verified_detections"`
	FalsePositives       int64   `json:"false_positives" yaml:"false_positives"`
	TotalUsers           int64   `json:"total_users" yaml:"total_users"`
	TotalAlerts          int64   `json:"total_alerts" yaml:"total_alerts"`
	TotalVideos          int64   `json:"total_videos" yaml:"total_videos"`
	VideosProcessing     int64   `json:"videos_processing" yaml:"videos_processing"`
	VideosCompleted      int64   `json:"videos_completed" yaml:"videos_completed"`
	TotalVideoDetections int64   `json:"total_video_detections" yaml:"total_video_detections"`
	AccuracyRate         float64 `json:"accuracy_rate" yaml:"accuracy_rate"` // percent, 2dp
}

// TimelinePoint is a per-day count. Date is YYYY-MM-DD.
type TimelinePoint struct {
	Date  string `json:"date" yaml:"date"`
	Count int64  `json:"count" yaml:"count"`
}

type Timeline struct {
	Timeline   []TimelinePoint `json:"timeline" yaml:"timeline"`
	PeriodDays int             `json:"period_days" yaml:"period_days"`
}

type StatusCount struct {
	Status string `json:"status" yaml:"status"`
	Count  int64  `json:"count" yaml:"count"`
}

// ConfidenceBucket counts detections in a confidence range such as "70-85%".
type ConfidenceBucket struct {
	Range string `json:"range" yaml:"range"`
	Count int64  `json:"count" yaml:"count"`
}

type LocationCount struct {
	Location string `json:"location" yaml:"location"`
	Count    int64  `json:"count" yaml:"count"`
}

// VideoAnalytics is returned by GET /dashboard/video-analytics.
type VideoAnalytics struct {
	AvgProcessingTimeSeconds   float64       `json:"avg_processing_time_seconds" yaml:"avg_processing_time_seconds"`
	TotalProcessingTimeSeconds float64       `json:"total_processing_time_seconds" yaml:"total_processing_time_seconds"`
	StatusBreakdown            []StatusCount `json:"status_breakdown" yaml:"status_breakdown"`
	TotalFacesDetected         int64         `json:"total_faces_detected" yaml:"total_faces_detected"`
	TotalCriminalsMatched      int64         `json:"total_criminals_matched" yaml:"total_criminals_matched"`
}

// AlertStats is returned by GET /dashboard/alert-stats. Timeline covers
// the last 7 days.
type AlertStats struct {
	StatusBreakdown []StatusCount   `json:"status_breakdown" yaml:"status_breakdown"`
	Timeline        []TimelinePoint `json:"timeline" yaml:"timeline"`
}

// ============================================================
// Analytics (/dashboard/analytics/*)
// ============================================================

type PerformanceMetrics struct {
	AccuracyRate               float64 `json:"accuracy_rate" yaml:"accuracy_rate"`
	FalsePositiveRate          float64 `json:"false_positive_rate" yaml:"false_positive_rate"`
	TotalReviewed              int64   `json:"total_reviewed" yaml:"total_reviewed"`
	VerifiedDetections         int64   `json:"verified_detections" yaml:"verified_detections"`
	FalsePositives             int64   `json:"false_positives" yaml:"false_positives"`
	AvgConfidenceAll           float64 `json:"avg_confidence_all" yaml:"avg_confidence_all"`
	AvgConfidenceVerified      float64 `json:"avg_confidence_verified" yaml:"avg_confidence_verified"`
	AvgConfidenceFalsePositive float64 `json:"avg_confidence_false_positive" yaml:"avg_confidence_false_positive"`
	AvgResponseTimeSeconds     float64 `json:"avg_response_time_seconds" yaml:"avg_response_time_seconds"`
}

// DetectionTrend is a per-day breakdown used in analytics reports.
type DetectionTrend struct {
	Date     string `json:"date" yaml:"date"`
	Total    int64  `json:"total" yaml:"total"`
	Verified int64  `json:"verified" yaml:"verified"`
	Pending  int64  `json:"pending" yaml:"pending"`
}

// AnalyticsReport is returned by GET /dashboard/analytics/report.
type AnalyticsReport struct {
	Period struct {
		StartDate Timestamp `json:"start_date" yaml:"start_date"`
		EndDate   Timestamp `json:"end_date" yaml:"end_date"`
		Days      int       `json:"days" yaml:"days"`
	} `json:"period" yaml:"period"`
	Summary struct {
		TotalDetections int64 `json:"total_detections" yaml:"total_detections"`
		UniqueCriminals int64 `json:"unique_criminals" yaml:"unique_criminals"`
		AlertsSent      int64 `json:"alerts_sent" yaml:"alerts_sent"`
	} `json:"summary" yaml:"summary"`
	Performance  PerformanceMetrics `json:"performance" yaml:"performance"`
	Trends       []DetectionTrend   `json:"trends" yaml:"trends"`
	TopLocations []LocationCount    `json:"top_locations" yaml:"top_locations"`
}

// LocationHeat is one row of GET /dashboard/analytics/locations.
type LocationHeat struct {
	Location        string  `json:"location" yaml:"location"`
	TotalDetections int64   `json:"total_detections" yaml:"total_detections"`
	UniqueCriminals int64   `json:"unique_criminals" yaml:"unique_criminals"`
	AvgConfidence   float64 `json:"avg_confidence" yaml:"avg_confidence"`
}

// TimePatterns is returned by GET /dashboard/analytics/patterns.
type TimePatterns struct {
	HourlyPattern []struct {
		Hour  int   `json:"hour" yaml:"hour"`
		Count int64 `json:"count" yaml:"count"`
	} `json:"hourly_pattern" yaml:"hourly_pattern"`
	DailyPattern []struct {
		Day   string `json:"day" yaml:"day"`
		Count int64  `json:"count" yaml:"count"`
	} `json:"daily_pattern" yaml:"daily_pattern"`
}

// VideoProcessingStats is returned by GET /dashboard/analytics/video-stats.
type VideoProcessingStats struct {
	TotalVideosProcessed  int64   `json:"total_videos_processed" yaml:"total_videos_processed"`
	TotalFramesProcessed  int64   `json:"total_frames_processed" yaml:"total_frames_processed"`
	TotalFacesDetected    int64   `json:"total_faces_detected" yaml:"total_faces_detected"`
	TotalCriminalsMatched int64   `json:"total_criminals_matched" yaml:"total_criminals_matched"`
	AvgProcessingTime     float64 `json:"avg_processing_time" yaml:"avg_processing_time"`
	AvgFramesPerVideo     float64 `json:"avg_frames_per_video" yaml:"avg_frames_per_video"`
	AvgFacesPerVideo      float64 `json:"avg_faces_per_video" yaml:"avg_faces_per_video"`
}
