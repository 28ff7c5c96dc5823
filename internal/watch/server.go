// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package watch

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/facetrack/internal/config"
	"github.com/tomtom215/facetrack/internal/logging"
	"github.com/tomtom215/facetrack/internal/middleware"
)

// StatusProvider is implemented by Poller.
type StatusProvider interface {
	Status() Status
}

// ServerConfig configures the status server.
type ServerConfig struct {
	Addr string

	// CORSOrigins may read the endpoints from a browser. Empty disables CORS.
	CORSOrigins []string

	// RateLimit is requests per client IP per minute. 0 disables it.
	RateLimit int

	// BreakerState, when set, is reported on /status.
	BreakerState func() string
}

// ServerConfigFrom reads the watch section.
func ServerConfigFrom(cfg *config.Config) ServerConfig {
	var origins []string
	for _, o := range strings.Split(cfg.Watch.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return ServerConfig{
		Addr:        cfg.Watch.ListenAddr,
		CORSOrigins: origins,
		RateLimit:   cfg.Watch.StatusRateLimit,
	}
}

type statusResponse struct {
	Status
	CircuitBreaker string `json:"circuit_breaker,omitempty"`
}

// NewRouter serves /healthz, /status and /metrics.
func NewRouter(p StatusProvider, cfg ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Instrument)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept"},
			MaxAge:         300,
		}))
	}
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if p.Status().Stopped {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "stopped"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		resp := statusResponse{Status: p.Status()}
		if cfg.BreakerState != nil {
			resp.CircuitBreaker = cfg.BreakerState()
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}

// NewServer returns an http.Server for the status endpoints.
func NewServer(p StatusProvider, cfg ServerConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(p, cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug().Err(err).Msg("Failed to write status response")
	}
}
