// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

/*
Package apiclient is the authenticated HTTP pipeline every backend call
goes through.

Request path:
  - Authorization: Bearer <access_token> is attached when a token is stored.
  - An explicit Content-Type is kept; otherwise application/json is sent.
    Multipart bodies carry their own boundary type.
  - X-Request-ID is taken from the context or generated.
  - The optional rate limiter is waited on before each attempt.

Response path:
  - 429 responses are retried with exponential backoff (1s, 2s, 4s, ...),
    honouring Retry-After.
  - The first 401 for a request triggers exactly one POST /auth/refresh
    using the refresh token. On success the new access token is stored and
    the request is sent once more. On failure, or when no refresh token is
    stored, all credentials are cleared, the session-expired hook runs and
    ErrSessionExpired is returned.
  - A 401 on the retried request is returned as *APIError.
*/
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/facetrack/internal/config"
	"github.com/tomtom215/facetrack/internal/credentials"
	"github.com/tomtom215/facetrack/internal/logging"
	"github.com/tomtom215/facetrack/internal/metrics"
	"github.com/tomtom215/facetrack/internal/models"
)

const (
	refreshPath = "/auth/refresh"

	// Error bodies beyond this are truncated.
	maxErrorBody = 64 << 10

	// 429 backoff never waits longer than this between attempts.
	maxRetryDelay = 2 * time.Minute
)

// Client talks to the FaceTrack backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *credentials.Session
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	breaker    *BreakerTransport
	breakerCfg *BreakerSettings
	security   *logging.SecurityLogger

	onSessionExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit limits outgoing requests to rps with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMaxRetries sets how many times a 429 is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryBaseDelay sets the first 429 backoff delay.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithBreaker routes requests through a circuit breaker. The breaker wraps
// the final HTTP client's transport regardless of option order.
func WithBreaker(s BreakerSettings) Option {
	return func(c *Client) { c.breakerCfg = &s }
}

// WithSessionExpiredHook runs fn after credentials were cleared because a
// 401 could not be recovered.
func WithSessionExpiredHook(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// WithSecurityLogger replaces the auth event logger.
func WithSecurityLogger(l *logging.SecurityLogger) Option {
	return func(c *Client) { c.security = l }
}

// New creates a client for baseURL (for example http://localhost:5000/api)
// storing credentials in store.
func New(baseURL string, store credentials.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	if store == nil {
		return nil, errors.New("credential store is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    credentials.NewSession(store),
		userAgent:  "facetrack-cli",
		maxRetries: 5,
		retryDelay: time.Second,
		security:   logging.NewSecurityLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breakerCfg != nil {
		c.breaker = NewBreakerTransport(c.httpClient.Transport, *c.breakerCfg)
		hc := *c.httpClient
		hc.Transport = c.breaker
		c.httpClient = &hc
	}
	return c, nil
}

// NewFromConfig builds a client from the api and circuit_breaker sections.
// Extra options are applied last.
func NewFromConfig(cfg *config.Config, store credentials.Store, opts ...Option) (*Client, error) {
	base := []Option{
		WithTimeout(cfg.API.Timeout),
		WithUserAgent(cfg.API.UserAgent),
		WithMaxRetries(cfg.API.MaxRetries),
		WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
	}
	if cfg.CircuitBreaker.Enabled {
		base = append(base, WithBreaker(BreakerSettings{
			Name:         "facetrack-api",
			MaxRequests:  cfg.CircuitBreaker.MaxRequests,
			Interval:     cfg.CircuitBreaker.Interval,
			Timeout:      cfg.CircuitBreaker.Timeout,
			MinRequests:  cfg.CircuitBreaker.MinRequests,
			FailureRatio: cfg.CircuitBreaker.FailureRatio,
		}))
	}
	return New(cfg.API.BaseURL, store, append(base, opts...)...)
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the credential session.
func (c *Client) Session() *credentials.Session {
	return c.session
}

// BreakerState returns the circuit breaker state, or "disabled".
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return "disabled"
	}
	return c.breaker.State()
}

// Do sends req and decodes a JSON response into out. A nil out discards
// the body.
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.Path, err)
	}
	return nil
}

// Bytes sends req and returns the raw body and its content type.
func (c *Client) Bytes(ctx context.Context, req *Request) ([]byte, string, error) {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s %s response: %w", req.Method, req.Path, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// Get is shorthand for a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post sends body as JSON. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, JSON: body}, out)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, JSON: body}, out)
}

// Delete sends a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path}, out)
}

// Send runs req through the pipeline. On success the caller owns the
// response body. Non-2xx responses are returned as *APIError.
func (c *Client) Send(ctx context.Context, req *Request) (*http.Response, error) {
	body, contentType, err := req.payload()
	if err != nil {
		return nil, err
	}

	retried := false
	for {
		token, err := c.session.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("read access token: %w", err)
		}

		resp, err := c.sendWithRateLimit(ctx, req, body, contentType, token)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusUnauthorized && !retried && !req.NoRefresh {
			retried = true
			drainAndClose(resp)
			if err := c.refresh(ctx, req.Path); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= http.StatusBadRequest {
			return nil, errorFromResponse(req, resp)
		}
		return resp, nil
	}
}

// refresh exchanges the refresh token for a new access token. Any failure
// ends the session.
func (c *Client) refresh(ctx context.Context, triggerPath string) error {
	refreshToken, err := c.session.RefreshToken(ctx)
	if err != nil || refreshToken == "" {
		metrics.RecordTokenRefresh("no_refresh_token")
		c.security.LogTokenRefresh(triggerPath, false, "no refresh token stored")
		return c.expire(ctx, "no refresh token", err)
	}

	access, err := c.exchangeRefreshToken(ctx, refreshToken)
	if err != nil {
		metrics.RecordTokenRefresh("failure")
		c.security.LogTokenRefresh(triggerPath, false, err.Error())
		return c.expire(ctx, "refresh rejected", err)
	}

	if err := c.session.SetAccessToken(ctx, access); err != nil {
		return fmt.Errorf("store refreshed access token: %w", err)
	}
	metrics.RecordTokenRefresh("success")
	c.security.LogTokenRefresh(triggerPath, true, "")
	return nil
}

func (c *Client) exchangeRefreshToken(ctx context.Context, refreshToken string) (string, error) {
	req := &Request{Method: http.MethodPost, Path: refreshPath}
	resp, err := c.sendWithRateLimit(ctx, req, []byte("{}"), contentTypeJSON, refreshToken)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errorFromResponse(req, resp)
	}
	var out models.RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if out.AccessToken == "" {
		return "", errors.New("refresh response has no access_token")
	}
	return out.AccessToken, nil
}

// expire clears credentials and notifies the session-expired hook.
func (c *Client) expire(ctx context.Context, reason string, cause error) error {
	if err := c.session.Clear(ctx); err != nil {
		logging.Error().Err(err).Msg("Failed to clear credentials after session expiry")
	}
	metrics.RecordSessionExpired()
	c.security.LogSessionExpired(reason)

	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
	if cause != nil {
		return fmt.Errorf("%w: %w", ErrSessionExpired, cause)
	}
	return ErrSessionExpired
}

// sendWithRateLimit performs one logical attempt, retrying HTTP 429 with
// exponential backoff. After the last retry the 429 response is returned.
func (c *Client) sendWithRateLimit(ctx context.Context, req *Request, body []byte, contentType, token string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		resp, err := c.send(ctx, req, body, contentType, token)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= c.maxRetries {
			return resp, nil
		}
		drainAndClose(resp)

		retryDelay := backoffDelay(c.retryDelay, attempt)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				retryDelay = time.Duration(seconds) * time.Second
			}
		}

		logging.Ctx(ctx).Warn().
			Str("path", req.Path).
			Dur("retry_delay", retryDelay).
			Int("attempt", attempt+1).
			Int("max_retries", c.maxRetries).
			Msg("Backend rate limited (HTTP 429), retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

// backoffDelay doubles base per attempt, capped at maxRetryDelay.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	d := base
	for i := 0; i < attempt && d < maxRetryDelay; i++ {
		d *= 2
	}
	return min(d, maxRetryDelay)
}

// send performs a single HTTP exchange.
func (c *Client) send(ctx context.Context, req *Request, body []byte, contentType, token string) (*http.Response, error) {
	reqURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		reqURL += "?" + req.Query.Encode()
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = logging.GenerateRequestID()
	}
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	endpoint := endpointLabel(req.Path)

	if err != nil {
		metrics.RecordAPIRequest(req.Method, endpoint, 0, elapsed)
		logging.Ctx(ctx).Debug().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("Backend request failed")
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	metrics.RecordAPIRequest(req.Method, endpoint, resp.StatusCode, elapsed)
	logging.Ctx(ctx).Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Str("request_id", requestID).
		Msg("Backend request")
	return resp, nil
}

func errorFromResponse(req *Request, resp *http.Response) error {
	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return newAPIError(req.Method, req.Path, resp.StatusCode, data)
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}
