// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/tomtom215/facetrack/internal/metrics"
	"github.com/tomtom215/facetrack/internal/models"
)

// Header names set on every published message.
const (
	HeaderMsgID    = "Nats-Msg-Id"
	HeaderSeverity = "Facetrack-Severity"
	HeaderCategory = "Facetrack-Category"
)

// Event is the JSON payload published for each notification.
type Event struct {
	Notification models.Notification `json:"notification"`
	ForwardedAt  time.Time           `json:"forwarded_at"`
	Source       string              `json:"source"`
}

// NATSSink publishes notifications as JSON on a core NATS subject and
// flushes after each one, so Publish only succeeds once the server has the
// message. The message ID header lets a JetStream stream on that subject deduplicate
// redeliveries after a watcher restart.
type NATSSink struct {
	nc      *nats.Conn
	subject string
	owned   bool
}

// NewNATSSink connects to url and publishes on subject.
func NewNATSSink(url, subject string) (*NATSSink, error) {
	if subject == "" {
		return nil, errors.New("nats subject is required")
	}
	nc, err := nats.Connect(url,
		nats.Name("facetrack-watch"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSSink{nc: nc, subject: subject, owned: true}, nil
}

// NewNATSSinkWithConn publishes on an existing connection. Close leaves
// the connection open.
func NewNATSSinkWithConn(nc *nats.Conn, subject string) *NATSSink {
	return &NATSSink{nc: nc, subject: subject}
}

func (s *NATSSink) Name() string { return "nats" }

// Subject returns the publish subject.
func (s *NATSSink) Subject() string { return s.subject }

func (s *NATSSink) Publish(ctx context.Context, n *models.Notification) (err error) {
	defer func() { metrics.RecordNotificationForwarded(s.Name(), n.Severity, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(Event{Notification: *n, ForwardedAt: time.Now().UTC(), Source: "facetrack"})
	if err != nil {
		return fmt.Errorf("encode notification %d: %w", n.ID, err)
	}

	msg := nats.NewMsg(s.subject)
	msg.Data = data
	msg.Header.Set(HeaderMsgID, "facetrack-notification-"+strconv.FormatInt(n.ID, 10))
	msg.Header.Set(HeaderSeverity, n.Severity)
	msg.Header.Set(HeaderCategory, n.Category)

	if err := s.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish notification %d: %w", n.ID, err)
	}
	// A message buffered while reconnecting has not reached the server yet.
	if err := s.Flush(ctx); err != nil {
		return fmt.Errorf("flush notification %d: %w", n.ID, err)
	}
	return nil
}

// Flush waits until the server has processed everything published so far.
// A context without a deadline gets five seconds.
func (s *NATSSink) Flush(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	return s.nc.FlushWithContext(ctx)
}

// Close drains an owned connection.
func (s *NATSSink) Close() error {
	if !s.owned {
		return nil
	}
	return s.nc.Drain()
}
