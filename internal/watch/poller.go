// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

// Package watch polls the backend for new notifications and forwards them
// to a notify.Sink. It runs as a suture service next to a small status
// server.
package watch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/facetrack/internal/apiclient"
	"github.com/tomtom215/facetrack/internal/logging"
	"github.com/tomtom215/facetrack/internal/metrics"
	"github.com/tomtom215/facetrack/internal/models"
	"github.com/tomtom215/facetrack/internal/notify"
	"github.com/tomtom215/facetrack/internal/services"
)

// Defaults match the web client's notification bell.
const (
	DefaultInterval   = 30 * time.Second
	DefaultFetchLimit = 100
)

// NotificationSource is the part of services.NotificationService the
// poller needs.
type NotificationSource interface {
	UnreadCount(ctx context.Context) (int64, error)
	List(ctx context.Context, q services.NotificationQuery) (*models.NotificationList, error)
}

// Config configures a Poller.
type Config struct {
	Interval   time.Duration
	FetchLimit int
}

// Status is a snapshot of the poller, served on /status.
type Status struct {
	Sink        string    `json:"sink"`
	Polls       int64     `json:"polls"`
	Failures    int64     `json:"failures"`
	Forwarded   int64     `json:"forwarded"`
	UnreadCount int64     `json:"unread_count"`
	LastPoll    time.Time `json:"last_poll,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Stopped     bool      `json:"stopped"`
}

// Poller checks the unread count every interval. While anything is unread
// it fetches the unread list and publishes the notifications it has not
// forwarded before. The count alone cannot detect a read and a new arrival
// within one interval.
type Poller struct {
	src      NotificationSource
	sink     notify.Sink
	interval time.Duration
	limit    int

	mu     sync.RWMutex
	seen   map[int64]struct{}
	status Status
	fatal  error
}

// NewPoller returns a poller. Zero config values take the defaults.
func NewPoller(src NotificationSource, sink notify.Sink, cfg Config) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = DefaultFetchLimit
	}
	return &Poller{
		src:      src,
		sink:     sink,
		interval: cfg.Interval,
		limit:    cfg.FetchLimit,
		seen:     make(map[int64]struct{}),
		status:   Status{Sink: sink.Name()},
	}
}

// Serve implements suture.Service. It polls once immediately and then on
// every tick. A poll failure is logged and retried on the next tick; an
// expired session stops the whole tree since no retry can succeed.
func (p *Poller) Serve(ctx context.Context) error {
	logger := logging.WithComponent("watch")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.Poll(ctx); err != nil {
			if errors.Is(err, apiclient.ErrSessionExpired) {
				p.stop(err)
				logger.Error().Err(err).Msg("Session expired; stopping notification watcher")
				return suture.ErrTerminateSupervisorTree
			}
			if ctx.Err() == nil {
				logger.Warn().Err(err).Msg("Notification poll failed")
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) String() string {
	return "notification-poller"
}

// Poll runs one cycle.
func (p *Poller) Poll(ctx context.Context) error {
	count, err := p.src.UnreadCount(ctx)
	metrics.RecordWatchPoll(count, err)
	if err != nil {
		p.recordFailure(err)
		return err
	}

	p.mu.Lock()
	p.status.Polls++
	p.status.UnreadCount = count
	p.status.LastPoll = time.Now()
	p.status.LastError = ""
	p.mu.Unlock()

	if count == 0 {
		return nil
	}
	return p.forwardUnread(ctx)
}

func (p *Poller) forwardUnread(ctx context.Context) error {
	list, err := p.src.List(ctx, services.NotificationQuery{UnreadOnly: true, Limit: p.limit})
	if err != nil {
		p.recordFailure(err)
		return err
	}

	var firstErr error
	for i := range list.Notifications {
		n := &list.Notifications[i]
		if p.wasSeen(n.ID) {
			continue
		}
		if err := p.sink.Publish(ctx, n); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int64("notification_id", n.ID).Str("sink", p.sink.Name()).
				Msg("Failed to forward notification")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		p.markSeen(n.ID)
	}

	p.pruneSeen(list.Notifications)
	if firstErr != nil {
		p.recordFailure(firstErr)
	}
	return firstErr
}

// Status returns a snapshot.
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Err returns the error that stopped the poller, if any.
func (p *Poller) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fatal
}

func (p *Poller) wasSeen(id int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.seen[id]
	return ok
}

func (p *Poller) markSeen(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen[id] = struct{}{}
	p.status.Forwarded++
}

// pruneSeen keeps the seen set bounded once it is well past the fetch
// limit. Read notifications never come back as unread, so only IDs still
// in the unread list matter.
func (p *Poller) pruneSeen(current []models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.seen) <= 4*p.limit {
		return
	}
	keep := make(map[int64]struct{}, len(current))
	for _, n := range current {
		if _, ok := p.seen[n.ID]; ok {
			keep[n.ID] = struct{}{}
		}
	}
	p.seen = keep
}

func (p *Poller) recordFailure(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.Failures++
	p.status.LastPoll = time.Now()
	p.status.LastError = err.Error()
}

func (p *Poller) stop(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fatal = err
	p.status.Stopped = true
}
