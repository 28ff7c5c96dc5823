// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package models

// Video processing statuses.
const (
	VideoPending    = "pending"
	VideoProcessing = "processing"
	VideoCompleted  = "completed"
	VideoFailed     = "failed"
)

// MatchedCriminal is the short criminal summary attached to a video.
type MatchedCriminal struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	CrimeType   string  `json:"crime_type" yaml:"crime_type"`
	DangerLevel *string `json:"danger_level" yaml:"danger_level"`
}

type VideoDetection struct {
	ID                     int64             `json:"id" yaml:"id"`
	VideoFilename          string            `json:"video_filename" yaml:"video_filename"`
	VideoPath              string            `json:"video_path" yaml:"video_path"`
	UploadDate             Timestamp         `json:"upload_date" yaml:"upload_date"`
	UploadedBy             *int64            `json:"uploaded_by" yaml:"uploaded_by"`
	DurationSeconds        *float64          `json:"duration_seconds" yaml:"duration_seconds"`
	FPS                    *float64          `json:"fps" yaml:"fps"`
	TotalFrames            *int64            `json:"total_frames" yaml:"total_frames"`
	Resolution             *string           `json:"resolution" yaml:"resolution"`
	FileSizeMB             *float64          `json:"file_size_mb" yaml:"file_size_mb"`
	ProcessingStatus       string            `json:"processing_status" yaml:"processing_status"`
	FramesProcessed        int64             `json:"frames_processed" yaml:"frames_processed"`
	TotalFacesDetected     int64             `json:"total_faces_detected" yaml:"total_faces_detected"`
	UniqueCriminalsMatched int64             `json:"unique_criminals_matched" yaml:"unique_criminals_matched"`
	ProcessingStartedAt    Timestamp         `json:"processing_started_at" yaml:"processing_started_at"`
	ProcessingCompletedAt  Timestamp         `json:"processing_completed_at" yaml:"processing_completed_at"`
	ErrorMessage           *string           `json:"error_message" yaml:"error_message"`
	Location               *string           `json:"location" yaml:"location"`
	CameraID               *string           `json:"camera_id" yaml:"camera_id"`
	AnnotatedVideoPath     *string           `json:"annotated_video_path" yaml:"annotated_video_path"`
	MatchedCriminals       []MatchedCriminal `json:"matched_criminals" yaml:"matched_criminals"`
	FrameDetections        []VideoFrame      `json:"frame_detections,omitempty" yaml:"frame_detections,omitempty"`
}

// VideoFrame is a per-frame detection result.
type VideoFrame struct {
	ID               int64     `json:"id" yaml:"id"`
	VideoDetectionID int64     `json:"video_detection_id" yaml:"video_detection_id"`
	FrameNumber      int64     `json:"frame_number" yaml:"frame_number"`
	TimestampSeconds float64   `json:"timestamp_seconds" yaml:"timestamp_seconds"`
	FacesDetected    int       `json:"faces_detected" yaml:"faces_detected"`
	CriminalID       *int64    `json:"criminal_id" yaml:"criminal_id"`
	ConfidenceScore  *float64  `json:"confidence_score" yaml:"confidence_score"`
	FaceCoordinates  any       `json:"face_coordinates" yaml:"face_coordinates"`
	FrameImagePath   *string   `json:"frame_image_path" yaml:"frame_image_path"`
	DetectedAt       Timestamp `json:"detected_at" yaml:"detected_at"`
	Criminal         *Criminal `json:"criminal,omitempty" yaml:"criminal,omitempty"`
}

// VideoMetadata is extracted by the backend on upload.
type VideoMetadata struct {
	DurationSeconds float64 `json:"duration_seconds" yaml:"duration_seconds"`
	FPS             float64 `json:"fps" yaml:"fps"`
	TotalFrames     int64   `json:"total_frames" yaml:"total_frames"`
	Width           int     `json:"width" yaml:"width"`
	Height          int     `json:"height" yaml:"height"`
	FileSizeMB      float64 `json:"file_size_mb" yaml:"file_size_mb"`
}

// VideoUploadResult is returned by POST /video/upload.
type VideoUploadResult struct {
	Success  bool          `json:"success" yaml:"success"`
	Message  string        `json:"message" yaml:"message"`
	VideoID  int64         `json:"video_id" yaml:"video_id"`
	Metadata VideoMetadata `json:"metadata" yaml:"metadata"`
}

// VideoProcessRequest is the body of POST /video/process/{id}.
type VideoProcessRequest struct {
	FrameSkip           int     `json:"frame_skip" validate:"min=1,max=120"`
	ConfidenceThreshold float64 `json:"confidence_threshold" validate:"gt=0,lte=1"`
}

// VideoProcessResult is returned by POST /video/process/{id}.
type VideoProcessResult struct {
	Success bool           `json:"success" yaml:"success"`
	Message string         `json:"message" yaml:"message"`
	VideoID int64          `json:"video_id" yaml:"video_id"`
	Results map[string]any `json:"results,omitempty" yaml:"results,omitempty"`
}

// VideoList is returned by GET /video/list.
type VideoList struct {
	Success bool             `json:"success"`
	Videos  []VideoDetection `json:"videos"`
	Count   int              `json:"count"`
}

// VideoDetails is returned by GET /video/{id}.
type VideoDetails struct {
	Success bool           `json:"success" yaml:"success"`
	Video   VideoDetection `json:"video" yaml:"video"`
	Summary map[string]any `json:"summary" yaml:"summary"`
}

// VideoFrames is returned by GET /video/{id}/frames.
type VideoFrames struct {
	Success bool         `json:"success"`
	VideoID int64        `json:"video_id"`
	Frames  []VideoFrame `json:"frames"`
	Count   int          `json:"count"`
}

// VideoStats is the "stats" object of GET /video/stats.
type VideoStats struct {
	TotalVideos    int64 `json:"total_videos" yaml:"total_videos"`
	VideosByStatus struct {
		Pending    int64 `json:"pending" yaml:"pending"`
		Processing int64 `json:"processing" yaml:"processing"`
		Completed  int64 `json:"completed" yaml:"completed"`
		Failed     int64 `json:"failed" yaml:"failed"`
	} `json:"videos_by_status" yaml:"videos_by_status"`
	TotalFacesDetected    int64 `json:"total_faces_detected" yaml:"total_faces_detected"`
	TotalCriminalsMatched int64 `json:"total_criminals_matched" yaml:"total_criminals_matched"`
}
