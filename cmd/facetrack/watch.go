// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/facetrack/internal/authz"
	"github.com/tomtom215/facetrack/internal/logging"
	"github.com/tomtom215/facetrack/internal/notify"
	"github.com/tomtom215/facetrack/internal/supervisor"
	"github.com/tomtom215/facetrack/internal/watch"
)

const statusShutdownTimeout = 10 * time.Second

func newWatchCmd(a *app) *cobra.Command {
	var (
		interval    time.Duration
		sinkName    string
		listen      string
		natsURL     string
		natsSubject string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for new notifications and forward them",
		Long: `Poll the unread notification count and forward each new notification
to a sink: the log (default) or a NATS subject. With --listen, a status
server exposes /healthz, /status and /metrics.

The poller and the status server run under a supervisor; a crashing
status server is restarted without interrupting polling. The command
stops on Ctrl-C or when the session expires.

Examples:
  facetrack watch
  facetrack watch --interval 10s --listen 127.0.0.1:9090
  facetrack watch --sink nats --nats-url nats://localhost:4222`,
		Args: cobra.NoArgs,
		RunE: a.guarded(authz.ObjNotifications, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			wc := &a.cfg.Watch
			if fs.Changed("interval") {
				wc.PollInterval = interval
			}
			if fs.Changed("sink") {
				wc.Sink = sinkName
			}
			if fs.Changed("listen") {
				wc.ListenAddr = listen
			}
			if fs.Changed("nats-url") {
				a.cfg.NATS.URL = natsURL
			}
			if fs.Changed("nats-subject") {
				a.cfg.NATS.Subject = natsSubject
			}
			return a.runWatch(ctx)
		}),
	}

	f := cmd.Flags()
	f.DurationVar(&interval, "interval", watch.DefaultInterval, "Time between unread-count checks")
	f.StringVar(&sinkName, "sink", "log", "Where to forward notifications: log, nats")
	f.StringVar(&listen, "listen", "", "Status server address, e.g. 127.0.0.1:9090")
	f.StringVar(&natsURL, "nats-url", "", "NATS server URL for --sink nats")
	f.StringVar(&natsSubject, "nats-subject", "", "NATS subject for --sink nats")
	return cmd
}

func (a *app) runWatch(ctx context.Context) error {
	sink, err := notify.New(a.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logging.Warn().Err(err).Str("sink", sink.Name()).Msg("Failed to close sink")
		}
	}()

	poller := watch.NewPoller(a.svc.Notifications, sink, watch.Config{
		Interval:   a.cfg.Watch.PollInterval,
		FetchLimit: a.cfg.Watch.FetchLimit,
	})

	tree := supervisor.NewTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddPollingService(poller)

	if a.cfg.Watch.ListenAddr != "" {
		scfg := watch.ServerConfigFrom(a.cfg)
		scfg.BreakerState = a.client.BreakerState
		server := watch.NewServer(poller, scfg)
		tree.AddStatusService(supervisor.NewHTTPServerService("status-server", server, statusShutdownTimeout))
		logging.Info().Str("addr", scfg.Addr).Msg("Status server enabled")
	}

	logging.Info().
		Dur("interval", a.cfg.Watch.PollInterval).
		Str("sink", sink.Name()).
		Msg("Watching notifications")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) && poller.Err() == nil {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	// Session expiry is the only condition that stops the poller itself.
	if err := poller.Err(); err != nil {
		return err
	}
	st := poller.Status()
	logging.Info().
		Int64("polls", st.Polls).
		Int64("forwarded", st.Forwarded).
		Msg("Watch stopped")
	return nil
}
