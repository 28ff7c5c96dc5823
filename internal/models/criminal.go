// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package models

// Criminal statuses.
const (
	CriminalWanted   = "wanted"
	CriminalArrested = "arrested"
	CriminalReleased = "released"
)

type Criminal struct {
	ID               int64          `json:"id" yaml:"id"`
	Name             string         `json:"name" yaml:"name"`
	Alias            *string        `json:"alias" yaml:"alias"`
	CrimeType        string         `json:"crime_type" yaml:"crime_type"`
	Description      *string        `json:"description" yaml:"description"`
	Status           string         `json:"status" yaml:"status"`
	DangerLevel      *string        `json:"danger_level" yaml:"danger_level"`
	LastSeenLocation *string        `json:"last_seen_location" yaml:"last_seen_location"`
	LastSeenDate     Timestamp      `json:"last_seen_date" yaml:"last_seen_date"`
	AddedBy          *int64         `json:"added_by" yaml:"added_by"`
	AddedDate        Timestamp      `json:"added_date" yaml:"added_date"`
	UpdatedAt        Timestamp      `json:"updated_at" yaml:"updated_at"`
	EncodingsCount   int            `json:"encodings_count" yaml:"encodings_count"`
	Encodings        []FaceEncoding `json:"encodings,omitempty" yaml:"encodings,omitempty"`

	// Set by the top-criminals and activity reports only.
	DetectionCount int       `json:"detection_count,omitempty" yaml:"detection_count,omitempty"`
	LastDetected   Timestamp `json:"last_detected,omitempty" yaml:"last_detected,omitempty"`
	AvgConfidence  float64   `json:"avg_confidence,omitempty" yaml:"avg_confidence,omitempty"`
}

// FaceEncoding is one enrolled photo of a criminal.
type FaceEncoding struct {
	ID           int64     `json:"id" yaml:"id"`
	CriminalID   int64     `json:"criminal_id" yaml:"criminal_id"`
	ImagePath    string    `json:"image_path" yaml:"image_path"`
	CreatedAt    Timestamp `json:"created_at" yaml:"created_at"`
	QualityScore *float64  `json:"quality_score" yaml:"quality_score"`
	PoseType     *string   `json:"pose_type" yaml:"pose_type"`
	IsPrimary    bool      `json:"is_primary" yaml:"is_primary"`
}

// CriminalInput is the body of POST /criminals and PUT /criminals/{id}.
// On create, Name and CrimeType are required and Status defaults to wanted.
type CriminalInput struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Alias            *string `json:"alias,omitempty" validate:"omitempty,max=100"`
	CrimeType        *string `json:"crime_type,omitempty" validate:"omitempty,min=1,max=100"`
	Description      *string `json:"description,omitempty"`
	Status           *string `json:"status,omitempty" validate:"omitempty,oneof=wanted arrested released"`
	DangerLevel      *string `json:"danger_level,omitempty" validate:"omitempty,oneof=low medium high critical"`
	LastSeenLocation *string `json:"last_seen_location,omitempty" validate:"omitempty,max=200"`
}

// CriminalEnvelope wraps a single criminal ({"criminal": {...}}).
type CriminalEnvelope struct {
	Message  string   `json:"message,omitempty"`
	Criminal Criminal `json:"criminal"`
}

// CriminalList is returned by GET /criminals.
type CriminalList struct {
	Criminals []Criminal `json:"criminals"`
	Page
}

// PhotoUploadResult is returned by POST /criminals/{id}/photo.
type PhotoUploadResult struct {
	Message        string             `json:"message" yaml:"message"`
	EncodingID     int64              `json:"encoding_id" yaml:"encoding_id"`
	QualityScore   float64            `json:"quality_score" yaml:"quality_score"`
	QualityMetrics map[string]float64 `json:"quality_metrics" yaml:"quality_metrics"`
	PoseType       string             `json:"pose_type" yaml:"pose_type"`
	IsPrimary      bool               `json:"is_primary" yaml:"is_primary"`
}

// BatchPhotoResult is one file's outcome in a batch upload.
type BatchPhotoResult struct {
	Filename     string   `json:"filename" yaml:"filename"`
	Success      bool     `json:"success" yaml:"success"`
	Error        string   `json:"error,omitempty" yaml:"error,omitempty"`
	EncodingID   *int64   `json:"encoding_id,omitempty" yaml:"encoding_id,omitempty"`
	QualityScore *float64 `json:"quality_score,omitempty" yaml:"quality_score,omitempty"`
	PoseType     string   `json:"pose_type,omitempty" yaml:"pose_type,omitempty"`
}

// BatchPhotoUpload is returned by POST /criminals/{id}/photos.
type BatchPhotoUpload struct {
	Message string             `json:"message" yaml:"message"`
	Results []BatchPhotoResult `json:"results" yaml:"results"`
}
