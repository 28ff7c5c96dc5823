// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package models

// Detection review statuses.
const (
	DetectionPending       = "pending"
	DetectionVerified      = "verified"
	DetectionFalsePositive = "false_positive"
)

// DetectionLog is a recorded match between a face and a criminal.
// The list endpoint flattens criminal fields into CriminalName/CrimeType;
// recent-detections nests the full Criminal instead.
type DetectionLog struct {
	ID              int64     `json:"id" yaml:"id"`
	CriminalID      int64     `json:"criminal_id" yaml:"criminal_id"`
	CriminalName    string    `json:"criminal_name,omitempty" yaml:"criminal_name,omitempty"`
	CrimeType       string    `json:"crime_type,omitempty" yaml:"crime_type,omitempty"`
	DangerLevel     *string   `json:"danger_level,omitempty" yaml:"danger_level,omitempty"`
	ConfidenceScore float64   `json:"confidence_score" yaml:"confidence_score"`
	DetectedAt      Timestamp `json:"detected_at" yaml:"detected_at"`
	Location        *string   `json:"location" yaml:"location"`
	CameraID        *string   `json:"camera_id" yaml:"camera_id"`
	ImagePath       string    `json:"image_path,omitempty" yaml:"image_path,omitempty"`
	Status          string    `json:"status" yaml:"status"`
	Notes           *string   `json:"notes" yaml:"notes"`
	DetectedBy      *int64    `json:"detected_by,omitempty" yaml:"detected_by,omitempty"`
	Criminal        *Criminal `json:"criminal,omitempty" yaml:"criminal,omitempty"`
}

// DetectionLogList is returned by GET /detection/logs.
type DetectionLogList struct {
	Detections []DetectionLog `json:"detections"`
	Page
}

// DetectionMatch is one face-to-criminal match in an upload result.
type DetectionMatch struct {
	ID           int64          `json:"id" yaml:"id"`
	CriminalID   int64          `json:"criminal_id" yaml:"criminal_id"`
	CriminalName string         `json:"criminal_name" yaml:"criminal_name"`
	CrimeType    string         `json:"crime_type" yaml:"crime_type"`
	Confidence   float64        `json:"confidence" yaml:"confidence"`
	DangerLevel  *string        `json:"danger_level" yaml:"danger_level"`
	Status       string         `json:"status" yaml:"status"`
	FaceIndex    int            `json:"face_index" yaml:"face_index"`
	FaceLocation map[string]any `json:"face_location,omitempty" yaml:"face_location,omitempty"`
}

// DetectionResult is returned by POST /detection/upload and /detection/live.
type DetectionResult struct {
	Success        bool             `json:"success" yaml:"success"`
	FacesDetected  int              `json:"faces_detected" yaml:"faces_detected"`
	MatchedFaces   int              `json:"matched_faces" yaml:"matched_faces"`
	TotalMatches   int              `json:"total_matches" yaml:"total_matches"`
	Matches        []DetectionMatch `json:"matches" yaml:"matches"`
	AnnotatedImage string           `json:"annotated_image,omitempty" yaml:"annotated_image,omitempty"`
	Message        string           `json:"message" yaml:"message"`
}

// DetectionVerify is the body of PUT /detection/logs/{id}/verify.
type DetectionVerify struct {
	Status string `json:"status" validate:"required,oneof=verified false_positive"`
	Notes  string `json:"notes"`
}

// DetectionVerifyResponse is returned by the verify endpoint.
type DetectionVerifyResponse struct {
	Message   string `json:"message" yaml:"message"`
	Detection struct {
		ID     int64   `json:"id" yaml:"id"`
		Status string  `json:"status" yaml:"status"`
		Notes  *string `json:"notes" yaml:"notes"`
	} `json:"detection" yaml:"detection"`
}
