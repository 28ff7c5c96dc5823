// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/facetrack/internal/apiclient"
	"github.com/tomtom215/facetrack/internal/models"
	"github.com/tomtom215/facetrack/internal/services"
)

type fakeSource struct {
	mu        sync.Mutex
	unread    []models.Notification
	countErr  error
	listCalls int
	lastQuery services.NotificationQuery
}

func (f *fakeSource) add(ids ...int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		f.unread = append(f.unread, models.Notification{ID: id, Severity: models.SeverityInfo, Message: fmt.Sprintf("n%d", id)})
	}
}

func (f *fakeSource) read(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.unread {
		if n.ID == id {
			f.unread = append(f.unread[:i], f.unread[i+1:]...)
			return
		}
	}
}

func (f *fakeSource) setCountErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countErr = err
}

func (f *fakeSource) UnreadCount(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.unread)), nil
}

func (f *fakeSource) List(_ context.Context, q services.NotificationQuery) (*models.NotificationList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastQuery = q
	out := make([]models.Notification, len(f.unread))
	copy(out, f.unread)
	return &models.NotificationList{Notifications: out, Total: int64(len(out)), UnreadCount: int64(len(out))}, nil
}

func (f *fakeSource) lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type recordingSink struct {
	mu      sync.Mutex
	ids     []int64
	failing bool
}

func (s *recordingSink) Name() string { return "recording" }
func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) Publish(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("sink down")
	}
	s.ids = append(s.ids, n.ID)
	return nil
}

func (s *recordingSink) setFailing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = v
}

func (s *recordingSink) forwarded() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.ids...)
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPoller_ForwardsOnlyNewNotifications(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	sink := &recordingSink{}
	p := NewPoller(src, sink, Config{FetchLimit: 25})
	ctx := context.Background()

	// Nothing unread: no fetch.
	if err := p.Poll(ctx); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if src.lists() != 0 {
		t.Errorf("List called %d times with zero unread", src.lists())
	}

	src.add(1, 2)
	if err := p.Poll(ctx); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if got := sink.forwarded(); !equalIDs(got, []int64{1, 2}) {
		t.Errorf("forwarded = %v, want [1 2]", got)
	}
	if !src.lastQuery.UnreadOnly || src.lastQuery.Limit != 25 {
		t.Errorf("query = %+v", src.lastQuery)
	}

	// Already forwarded: fetched again but not republished.
	if err := p.Poll(ctx); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if src.lists() != 2 {
		t.Errorf("List called %d times, want 2", src.lists())
	}
	if got := sink.forwarded(); !equalIDs(got, []int64{1, 2}) {
		t.Errorf("forwarded = %v, want [1 2]", got)
	}

	// One read, one new: count rises from 1 to 2, only 3 is forwarded.
	src.read(1)
	if err := p.Poll(ctx); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	src.add(3)
	if err := p.Poll(ctx); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if got := sink.forwarded(); !equalIDs(got, []int64{1, 2, 3}) {
		t.Errorf("forwarded = %v, want [1 2 3]", got)
	}

	st := p.Status()
	if st.Forwarded != 3 || st.UnreadCount != 2 || st.Polls != 5 || st.Sink != "recording" {
		t.Errorf("status = %+v", st)
	}
}

func TestPoller_ForwardsArrivalWhenCountUnchanged(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	sink := &recordingSink{}
	p := NewPoller(src, sink, Config{})
	ctx := context.Background()

	src.add(1, 2)
	if err := p.Poll(ctx); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}

	// One read and one new within the same interval: unread stays at 2.
	src.read(1)
	src.add(3)
	if err := p.Poll(ctx); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if got := sink.forwarded(); !equalIDs(got, []int64{1, 2, 3}) {
		t.Errorf("forwarded = %v, want [1 2 3]", got)
	}
	if st := p.Status(); st.UnreadCount != 2 || st.Forwarded != 3 {
		t.Errorf("status = %+v", st)
	}
}

func TestPoller_RetriesAfterSinkFailure(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	sink := &recordingSink{failing: true}
	p := NewPoller(src, sink, Config{})
	ctx := context.Background()

	src.add(5)
	if err := p.Poll(ctx); err == nil {
		t.Fatal("Poll() with failing sink returned nil")
	}
	if st := p.Status(); st.Failures != 1 || st.LastError == "" {
		t.Errorf("status = %+v", st)
	}

	// Count unchanged, but the failed forward is retried.
	sink.setFailing(false)
	if err := p.Poll(ctx); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if got := sink.forwarded(); !equalIDs(got, []int64{5}) {
		t.Errorf("forwarded = %v, want [5]", got)
	}
	if st := p.Status(); st.LastError != "" {
		t.Errorf("LastError = %q after recovery", st.LastError)
	}
}

func TestPoller_CountErrorRecorded(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	src.setCountErr(errors.New("connection refused"))
	p := NewPoller(src, &recordingSink{}, Config{})

	if err := p.Poll(context.Background()); err == nil {
		t.Fatal("Poll() returned nil")
	}
	if st := p.Status(); st.Failures != 1 || st.LastError != "connection refused" || st.Polls != 0 {
		t.Errorf("status = %+v", st)
	}
}

func TestPoller_ServeStopsOnSessionExpiry(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	src.setCountErr(fmt.Errorf("%w: refresh failed", apiclient.ErrSessionExpired))
	p := NewPoller(src, &recordingSink{}, Config{Interval: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := p.Serve(ctx)
	if !errors.Is(err, suture.ErrTerminateSupervisorTree) {
		t.Fatalf("Serve() error = %v, want ErrTerminateSupervisorTree", err)
	}
	if !errors.Is(p.Err(), apiclient.ErrSessionExpired) {
		t.Errorf("Err() = %v, want ErrSessionExpired", p.Err())
	}
	if !p.Status().Stopped {
		t.Error("Status().Stopped = false")
	}
}

func TestPoller_ServeKeepsPollingAfterErrors(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	src.setCountErr(errors.New("timeout"))
	p := NewPoller(src, &recordingSink{}, Config{Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := p.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Serve() error = %v, want deadline exceeded", err)
	}
	if st := p.Status(); st.Failures < 2 {
		t.Errorf("Failures = %d, want repeated polls", st.Failures)
	}
	if p.Err() != nil {
		t.Errorf("Err() = %v, want nil", p.Err())
	}
}

func TestNewPoller_Defaults(t *testing.T) {
	t.Parallel()

	p := NewPoller(&fakeSource{}, &recordingSink{}, Config{})
	if p.interval != DefaultInterval || p.limit != DefaultFetchLimit {
		t.Errorf("interval = %v, limit = %d", p.interval, p.limit)
	}
	if p.String() != "notification-poller" {
		t.Errorf("String() = %q", p.String())
	}
}
