// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/facetrack/internal/apiclient"
	"github.com/tomtom215/facetrack/internal/authz"
	"github.com/tomtom215/facetrack/internal/config"
	"github.com/tomtom215/facetrack/internal/credentials"
	"github.com/tomtom215/facetrack/internal/logging"
	"github.com/tomtom215/facetrack/internal/services"
)

// Set by -ldflags at release time.
var version = "dev"

const sessionExpiredHint = "Session expired. Please log in again with 'facetrack login'."

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// app holds global flag values and the lazily built client stack. Tests
// preset cfg and store to point at an httptest backend.
type app struct {
	cfgFile   string
	output    string
	verbose   bool
	apiURL    string
	ephemeral bool

	in     io.Reader
	stdin  *bufio.Reader
	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	store  credentials.Store
	client *apiclient.Client
	svc    *services.Services
	guard  *authz.Guard

	expiredNotified bool
}

func newApp() *app {
	return &app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	defer a.close()
	return a.execute(ctx, newRootCmd(a), os.Args[1:])
}

func (a *app) execute(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	if err := root.ExecuteContext(ctx); err != nil {
		a.reportError(err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "facetrack",
		Short: "FaceTrack case management client",
		Long: `facetrack talks to the FaceTrack backend: criminal records and face
photos, image and video detection, verification of detection logs,
dashboards and analytics, notifications and user administration.

Credentials from 'facetrack login' are stored locally and refreshed
automatically. Commands check the stored role before calling the server.

Examples:
  facetrack login --email officer@example.org
  facetrack criminals list --status wanted
  facetrack detect upload suspect.jpg --location "Main St"
  facetrack watch --listen :9090`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch a.output {
			case outputTable, outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("invalid --output %q: must be table, json or yaml", a.output)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default: "+config.ConfigPathEnvVar+" or ~/.config/facetrack/config.yaml)")
	pf.StringVarP(&a.output, "output", "o", outputTable, "Output format: table, json, yaml")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&a.apiURL, "api-url", "", "Backend API root, overrides api.base_url")
	pf.BoolVar(&a.ephemeral, "ephemeral", false, "Keep credentials in memory for this process only")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newRegisterCmd(a),
		newVerifyInviteCmd(a),
		newProfileCmd(a),
		newCriminalsCmd(a),
		newDetectCmd(a),
		newVideoCmd(a),
		newDashboardCmd(a),
		newAdminCmd(a),
		newNotificationsCmd(a),
		newWatchCmd(a),
	)
	return root
}

// ensure builds whatever of config, store, client, services and guard is
// not already set.
func (a *app) ensure() error {
	if a.svc != nil {
		return nil
	}

	if a.cfg == nil {
		cfg, err := config.LoadWithKoanf(a.cfgFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.apiURL != "" {
		a.cfg.API.BaseURL = a.apiURL
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = a.cfg.Logging.Level
	logCfg.Format = a.cfg.Logging.Format
	logCfg.Caller = a.cfg.Logging.Caller
	logCfg.Output = a.errOut
	if a.verbose {
		logCfg.Level = "debug"
	}
	logging.Init(logCfg)

	if a.store == nil {
		storeType := a.cfg.Credentials.Store
		if a.ephemeral {
			storeType = credentials.StoreMemory
		}
		store, err := credentials.Open(storeType, a.cfg.Credentials.Path, a.cfg.Credentials.EncryptionKey)
		if err != nil {
			return fmt.Errorf("open credential store: %w", err)
		}
		a.store = store
	}

	client, err := apiclient.NewFromConfig(a.cfg, a.store,
		apiclient.WithSessionExpiredHook(a.onSessionExpired))
	if err != nil {
		return err
	}
	a.client = client
	a.svc = services.New(client)

	if a.guard == nil {
		guard, err := authz.NewGuard(nil)
		if err != nil {
			return err
		}
		a.guard = guard
	}

	logging.Debug().
		Str("api_url", client.BaseURL()).
		Str("store", a.cfg.Credentials.Store).
		Msg("Client initialized")
	return nil
}

func (a *app) onSessionExpired() {
	if a.expiredNotified {
		return
	}
	a.expiredNotified = true
	fmt.Fprintln(a.errOut, sessionExpiredHint)
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close credential store")
		}
	}
}

type runFunc func(ctx context.Context, cmd *cobra.Command, args []string) error

// guarded returns a RunE that requires a stored session whose role may
// perform act on obj. The check happens before any network call.
func (a *app) guarded(obj authz.Object, act authz.Action, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.ensure(); err != nil {
			return err
		}
		ctx := commandContext(cmd)
		user, err := a.guard.Require(ctx, a.client.Session(), obj, act)
		if err != nil {
			return err
		}
		logging.Ctx(ctx).Debug().
			Str("user", logging.SanitizeUsername(user.Username)).
			Str("role", user.Role).
			Str("object", string(obj)).
			Str("action", string(act)).
			Msg("Command authorized")
		return fn(ctx, cmd, args)
	}
}

// anonymous returns a RunE for commands that work without a session.
func (a *app) anonymous(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.ensure(); err != nil {
			return err
		}
		return fn(commandContext(cmd), cmd, args)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.ContextWithNewCorrelationID(ctx)
}

func (a *app) reportError(err error) {
	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		if !a.expiredNotified {
			fmt.Fprintln(a.errOut, sessionExpiredHint)
		}
		logging.Debug().Err(err).Msg("Session expired")
	case errors.Is(err, authz.ErrNotAuthenticated):
		fmt.Fprintln(a.errOut, "Not logged in. Run 'facetrack login' first.")
	case errors.Is(err, authz.ErrForbidden):
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
	case errors.Is(err, apiclient.ErrCircuitOpen):
		fmt.Fprintln(a.errOut, "Error: backend unavailable, retry later.")
	default:
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
