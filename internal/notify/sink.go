// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

// Package notify forwards backend notifications picked up by the watcher
// to a local sink: the structured log or a NATS subject.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/facetrack/internal/config"
	"github.com/tomtom215/facetrack/internal/logging"
	"github.com/tomtom215/facetrack/internal/metrics"
	"github.com/tomtom215/facetrack/internal/models"
)

// Sink receives notifications not forwarded before.
type Sink interface {
	Publish(ctx context.Context, n *models.Notification) error
	Name() string
	Close() error
}

// New returns the sink selected by cfg.Watch.Sink.
func New(cfg *config.Config) (Sink, error) {
	switch cfg.Watch.Sink {
	case "", "log":
		return NewLogSink(logging.Logger()), nil
	case "nats":
		return NewNATSSink(cfg.NATS.URL, cfg.NATS.Subject)
	default:
		return nil, fmt.Errorf("unknown notification sink %q", cfg.Watch.Sink)
	}
}

// LogSink writes each notification as one structured log event. Critical
// notifications log at warn so they stand out at the default level.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "notify").Logger()}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Close() error { return nil }

func (s *LogSink) Publish(_ context.Context, n *models.Notification) error {
	ev := s.logger.Info()
	if n.Severity == models.SeverityCritical {
		ev = s.logger.Warn()
	}
	ev.Int64("notification_id", n.ID).
		Str("severity", n.Severity).
		Str("category", n.Category).
		Str("alert_type", n.AlertType)
	if n.CriminalID != nil {
		ev.Int64("criminal_id", *n.CriminalID)
	}
	if n.DetectionLogID != nil {
		ev.Int64("detection_log_id", *n.DetectionLogID)
	}
	ev.Msg(n.Headline())

	metrics.RecordNotificationForwarded(s.Name(), n.Severity, nil)
	return nil
}
