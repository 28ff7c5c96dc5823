// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/facetrack/internal/apiclient"
	"github.com/tomtom215/facetrack/internal/models"
	"github.com/tomtom215/facetrack/internal/validation"
)

// DefaultCriminalsPerPage matches the backend default.
const DefaultCriminalsPerPage = 10

// CriminalQuery filters GET /criminals.
type CriminalQuery struct {
	Page    int
	PerPage int
	Status  string
}

// CriminalService covers /criminals.
type CriminalService struct {
	c *apiclient.Client
}

// List returns one page of criminal records.
func (s *CriminalService) List(ctx context.Context, q CriminalQuery) (*models.CriminalList, error) {
	if q.PerPage == 0 {
		q.PerPage = DefaultCriminalsPerPage
	}
	params := query{}.int("page", q.Page).int("per_page", q.PerPage).str("status", q.Status)

	var out models.CriminalList
	if err := s.c.Get(ctx, "/criminals", params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns a criminal with its face encodings.
func (s *CriminalService) Get(ctx context.Context, id int64) (*models.Criminal, error) {
	var out models.CriminalEnvelope
	if err := s.c.Get(ctx, pathf("/criminals/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Criminal, nil
}

// Create adds a criminal record. Name and crime type are required; status
// defaults to wanted.
func (s *CriminalService) Create(ctx context.Context, in models.CriminalInput) (*models.Criminal, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, errors.New("name is required")
	}
	if in.CrimeType == nil || strings.TrimSpace(*in.CrimeType) == "" {
		return nil, errors.New("crime_type is required")
	}
	if in.Status == nil {
		status := models.CriminalWanted
		in.Status = &status
	}
	if err := validate(&in); err != nil {
		return nil, err
	}

	var out models.CriminalEnvelope
	if err := s.c.Post(ctx, "/criminals", in, &out); err != nil {
		return nil, err
	}
	return &out.Criminal, nil
}

// Update changes the non-nil fields of a criminal record.
func (s *CriminalService) Update(ctx context.Context, id int64, in models.CriminalInput) (*models.Criminal, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	if in == (models.CriminalInput{}) {
		return nil, errors.New("nothing to update")
	}

	var out models.CriminalEnvelope
	if err := s.c.Put(ctx, pathf("/criminals/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out.Criminal, nil
}

// Delete removes a criminal and its photos.
func (s *CriminalService) Delete(ctx context.Context, id int64) (*models.Message, error) {
	var out models.Message
	if err := s.c.Delete(ctx, pathf("/criminals/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPhoto adds one reference photo from disk.
func (s *CriminalService) UploadPhoto(ctx context.Context, id int64, path string) (*models.PhotoUploadResult, error) {
	if err := validation.ValidatePhotoFilename(path); err != nil {
		return nil, err
	}
	form := apiclient.NewMultipart()
	if err := form.AddFile("photo", path); err != nil {
		return nil, err
	}

	var out models.PhotoUploadResult
	err := s.c.Do(ctx, &apiclient.Request{Method: http.MethodPost, Path: pathf("/criminals/%d/photo", id), Form: form}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPhotos adds several reference photos in one request. Every file
// is checked before anything is sent.
func (s *CriminalService) UploadPhotos(ctx context.Context, id int64, paths []string) (*models.BatchPhotoUpload, error) {
	if len(paths) == 0 {
		return nil, errors.New("no photos given")
	}
	form := apiclient.NewMultipart()
	for _, p := range paths {
		if err := validation.ValidatePhotoFilename(p); err != nil {
			return nil, err
		}
		if err := form.AddFile("photos[]", p); err != nil {
			return nil, err
		}
	}

	var out models.BatchPhotoUpload
	err := s.c.Do(ctx, &apiclient.Request{Method: http.MethodPost, Path: pathf("/criminals/%d/photos", id), Form: form}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEncoding removes one reference photo.
func (s *CriminalService) DeleteEncoding(ctx context.Context, encodingID int64) (*models.Message, error) {
	var out models.Message
	if err := s.c.Delete(ctx, pathf("/criminals/encodings/%d", encodingID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetPrimaryEncoding marks a photo as the criminal's primary photo.
func (s *CriminalService) SetPrimaryEncoding(ctx context.Context, encodingID int64) (*models.Message, error) {
	var out models.Message
	if err := s.c.Put(ctx, pathf("/criminals/encodings/%d/set-primary", encodingID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
