// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

// Package metrics defines the Prometheus collectors FaceTrack records.
//
// Collectors are registered on the default registry via promauto and are
// exposed by `facetrack watch` at /metrics. One-off CLI commands record
// them as well; the values simply vanish when the process exits.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Backend API calls
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facetrack_api_requests_total",
			Help: "Total number of backend API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "facetrack_api_request_duration_seconds",
			Help:    "Backend API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}, // uploads run long
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facetrack_api_rate_limit_hits_total",
			Help: "Total number of HTTP 429 responses from the backend",
		},
		[]string{"endpoint"},
	)

	// Authentication
	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facetrack_token_refreshes_total",
			Help: "Total number of access token refresh attempts",
		},
		[]string{"result"}, // "success", "failure", "no_refresh_token"
	)

	SessionExpirations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "facetrack_session_expirations_total",
			Help: "Total number of sessions cleared after a failed refresh",
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "facetrack_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facetrack_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facetrack_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Notification watcher
	WatchPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facetrack_watch_polls_total",
			Help: "Total number of unread-count polls",
		},
		[]string{"result"}, // "success", "error"
	)

	WatchUnreadCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "facetrack_watch_unread_notifications",
			Help: "Unread notification count seen by the last poll",
		},
	)

	WatchLastPoll = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "facetrack_watch_last_poll_timestamp",
			Help: "Unix timestamp of the last successful poll",
		},
	)

	NotificationsForwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facetrack_notifications_forwarded_total",
			Help: "Total number of notifications forwarded to a sink",
		},
		[]string{"sink", "severity"},
	)

	NotificationSinkErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facetrack_notification_sink_errors_total",
			Help: "Total number of failed sink publishes",
		},
		[]string{"sink"},
	)

	StatusRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facetrack_status_requests_total",
			Help: "Requests served by the watch status server",
		},
		[]string{"route", "status_code"},
	)

	StatusRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "facetrack_status_request_duration_seconds",
			Help:    "Watch status server request duration",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"route"},
	)
)

// RecordAPIRequest records a completed backend request. A statusCode of 0
// means the request never produced a response.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	APIRequestsTotal.WithLabelValues(method, endpoint, code).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if statusCode == 429 {
		APIRateLimitHits.WithLabelValues(endpoint).Inc()
	}
}

// RecordTokenRefresh records the outcome of a refresh attempt.
func RecordTokenRefresh(result string) {
	TokenRefreshes.WithLabelValues(result).Inc()
}

// RecordSessionExpired counts a forced logout.
func RecordSessionExpired() {
	SessionExpirations.Inc()
}

// RecordBreakerTransition updates breaker gauges on a state change.
func RecordBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordBreakerRequest counts a request by breaker outcome.
func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordWatchPoll records one unread-count poll.
func RecordWatchPoll(unread int64, err error) {
	if err != nil {
		WatchPolls.WithLabelValues("error").Inc()
		return
	}
	WatchPolls.WithLabelValues("success").Inc()
	WatchUnreadCount.Set(float64(unread))
	WatchLastPoll.Set(float64(time.Now().Unix()))
}

// RecordNotificationForwarded counts a publish attempt to sink.
func RecordNotificationForwarded(sink, severity string, err error) {
	if err != nil {
		NotificationSinkErrors.WithLabelValues(sink).Inc()
		return
	}
	NotificationsForwarded.WithLabelValues(sink, severity).Inc()
}

// RecordStatusRequest records a request served by the watch status server.
func RecordStatusRequest(route string, statusCode int, duration time.Duration) {
	StatusRequestsTotal.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	StatusRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
