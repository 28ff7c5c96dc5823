// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/facetrack/internal/logging"
	"github.com/tomtom215/facetrack/internal/metrics"
)

// BreakerSettings configures BreakerTransport.
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32        // concurrent probes allowed while half-open
	Interval     time.Duration // closed-state window after which counts reset
	Timeout      time.Duration // open-state wait before probing
	MinRequests  uint32        // requests in the window before tripping is considered
	FailureRatio float64
}

// DefaultBreakerSettings matches the config defaults.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "facetrack-api",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// errServerStatus marks a 5xx response as a breaker failure. The response
// itself is still returned to the caller.
var errServerStatus = errors.New("server error status")

// BreakerTransport is an http.RoundTripper guarded by a circuit breaker.
// Transport errors and 5xx responses count as failures; 4xx responses are
// the caller's problem and count as successes.
type BreakerTransport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker[*http.Response]
	name string
}

// NewBreakerTransport wraps next. A nil next uses http.DefaultTransport.
func NewBreakerTransport(next http.RoundTripper, s BreakerSettings) *BreakerTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if s.Name == "" {
		s.Name = "facetrack-api"
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= s.FailureRatio
			if trip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("[CIRCUIT BREAKER] Opening backend circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("[CIRCUIT BREAKER] Backend state transition")
			metrics.RecordBreakerTransition(name, stateToString(from), stateToString(to), stateToFloat(to))
		},
	})

	return &BreakerTransport{next: next, cb: cb, name: s.Name}
}

// RoundTrip implements http.RoundTripper.
func (t *BreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.cb.Execute(func() (*http.Response, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	switch {
	case err == nil:
		metrics.RecordBreakerRequest(t.name, "success")
		return resp, nil
	case errors.Is(err, errServerStatus):
		metrics.RecordBreakerRequest(t.name, "failure")
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordBreakerRequest(t.name, "rejected")
		return nil, fmt.Errorf("%w (%s)", ErrCircuitOpen, err)
	default:
		metrics.RecordBreakerRequest(t.name, "failure")
		return nil, err
	}
}

// State returns the breaker state name.
func (t *BreakerTransport) State() string {
	return stateToString(t.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
