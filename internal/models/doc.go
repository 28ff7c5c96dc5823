// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

// Package models defines the JSON wire types exchanged with the FaceTrack
// backend API.
//
// Field names follow the backend's snake_case JSON exactly. Optional
// backend values that may be null are pointers; timestamps use Timestamp
// because the backend emits naive ISO-8601 values without a zone.
package models
