// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package models

// Page is the pagination metadata embedded in list responses.
type Page struct {
	Total       int64 `json:"total" yaml:"total"`
	Pages       int   `json:"pages" yaml:"pages"`
	CurrentPage int   `json:"current_page" yaml:"current_page"`
}

// HasNext reports whether another page follows.
func (p Page) HasNext() bool {
	return p.CurrentPage < p.Pages
}

// Message is the {"message": "..."} body most mutating endpoints return.
type Message struct {
	Message string `json:"message" yaml:"message"`
}
