// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package apiclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Request describes one backend call. The body is encoded once and
// replayed from memory for 429 retries and the post-refresh retry.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// At most one of JSON, Form and Body is used.
	JSON any
	Form *Multipart
	Body []byte

	// ContentType is sent as-is when set. Otherwise JSON requests, and
	// requests without a body, default to application/json.
	ContentType string

	Header http.Header

	// NoRefresh disables the 401 refresh-and-retry path. Used for the
	// anonymous auth endpoints, where 401 means bad credentials.
	NoRefresh bool
}

// Multipart is a multipart/form-data body.
type Multipart struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	data            []byte
}

// NewMultipart returns an empty form.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field adds a text field. Empty values are skipped.
func (m *Multipart) Field(name, value string) *Multipart {
	if value != "" {
		m.fields = append(m.fields, formField{name, value})
	}
	return m
}

// FieldInt adds an integer field.
func (m *Multipart) FieldInt(name string, value int) *Multipart {
	return m.Field(name, strconv.Itoa(value))
}

// File adds a file part from memory.
func (m *Multipart) File(field, filename string, data []byte) *Multipart {
	m.files = append(m.files, formFile{field, filename, data})
	return m
}

// AddFile reads path from disk and adds it as a file part.
func (m *Multipart) AddFile(field, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	m.File(field, filepath.Base(path), data)
	return nil
}

// FileCount returns the number of file parts.
func (m *Multipart) FileCount() int {
	return len(m.files)
}

func (m *Multipart) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.files {
		part, err := w.CreateFormFile(f.field, f.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, bytes.NewReader(f.data)); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// payload returns the encoded body and its content type.
func (r *Request) payload() ([]byte, string, error) {
	set := 0
	for _, present := range []bool{r.JSON != nil, r.Form != nil, r.Body != nil} {
		if present {
			set++
		}
	}
	if set > 1 {
		return nil, "", errors.New("request has more than one body")
	}

	switch {
	case r.Form != nil:
		body, ct, err := r.Form.encode()
		if err != nil {
			return nil, "", fmt.Errorf("encode multipart body: %w", err)
		}
		if r.ContentType != "" {
			ct = r.ContentType
		}
		return body, ct, nil
	case r.JSON != nil:
		body, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("encode JSON body: %w", err)
		}
		return body, r.contentTypeOr(contentTypeJSON), nil
	default:
		return r.Body, r.contentTypeOr(contentTypeJSON), nil
	}
}

func (r *Request) contentTypeOr(def string) string {
	if r.ContentType != "" {
		return r.ContentType
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return def
}

const contentTypeJSON = "application/json"

// endpointLabel collapses numeric path segments so metrics stay low
// cardinality: /criminals/42/photos -> /criminals/:id/photos.
func endpointLabel(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}
