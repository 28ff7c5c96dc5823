// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/facetrack/internal/config"
	"github.com/tomtom215/facetrack/internal/credentials"
	"github.com/tomtom215/facetrack/internal/models"
)

// fakeAPI answers "METHOD /api/path" keys and records request paths and
// JSON bodies.
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]fakeRoute
	seen   []string
	bodies map[string][]byte
}

type fakeRoute struct {
	status int
	body   string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{routes: map[string]fakeRoute{}, bodies: map[string][]byte{}}
}

func (f *fakeAPI) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" /api"+path] = fakeRoute{status: status, body: body}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.seen = append(f.seen, key)
	f.bodies[key] = body
	route, ok := f.routes[key]
	f.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
		return
	}
	if strings.HasPrefix(route.body, "{") || strings.HasPrefix(route.body, "[") {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(route.status)
	_, _ = w.Write([]byte(route.body))
}

func (f *fakeAPI) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

func (f *fakeAPI) body(method, path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[method+" /api"+path]
}

type testApp struct {
	*app
	api    *fakeAPI
	store  *credentials.MemoryStore
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	t.Setenv(PasswordEnvVar, "")

	api := newFakeAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL + "/api"
	cfg.API.MaxRetries = 0
	cfg.Logging.Level = "error"

	store := credentials.NewMemoryStore()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	a := &app{
		in:     strings.NewReader(""),
		out:    stdout,
		errOut: stderr,
		cfg:    cfg,
		store:  store,
	}
	return &testApp{app: a, api: api, store: store, stdout: stdout, stderr: stderr}
}

func (ta *testApp) run(args ...string) int {
	return ta.execute(context.Background(), newRootCmd(ta.app), args)
}

func (ta *testApp) login(t *testing.T, role string) {
	t.Helper()
	sess := credentials.NewSession(ta.store)
	user := &models.User{ID: 1, Username: "officer", Email: "officer@example.org", Role: role}
	if err := sess.SaveLogin(context.Background(), "access-token", "refresh-token", user); err != nil {
		t.Fatalf("SaveLogin() error = %v", err)
	}
}

const criminalsPage = `{
	"criminals": [
		{"id": 7, "name": "John Doe", "alias": null, "crime_type": "Robbery", "status": "wanted",
		 "danger_level": "high", "last_seen_location": "Main St", "encodings_count": 2}
	],
	"total": 1, "pages": 1, "current_page": 1
}`

func TestCriminalsList_Table(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t, models.RoleViewer)
	ta.api.on(http.MethodGet, "/criminals", http.StatusOK, criminalsPage)

	if code := ta.run("criminals", "list", "--status", "wanted"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, ta.stderr.String())
	}
	out := ta.stdout.String()
	for _, want := range []string{"NAME", "John Doe", "Robbery", "high", "Main St"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Nil alias renders as a dash.
	if !strings.Contains(out, "-") {
		t.Errorf("expected placeholder for nil alias:\n%s", out)
	}
}

func TestCriminalsGet_JSON(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t, models.RoleViewer)
	ta.api.on(http.MethodGet, "/criminals/7", http.StatusOK,
		`{"criminal": {"id": 7, "name": "John Doe", "crime_type": "Robbery", "status": "wanted",
		  "encodings": [{"id": 31, "criminal_id": 7, "image_path": "a.jpg", "is_primary": true}]}}`)

	if code := ta.run("-o", "json", "criminals", "get", "7"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, ta.stderr.String())
	}

	var got models.Criminal
	if err := json.Unmarshal(ta.stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, ta.stdout.String())
	}
	if got.Name != "John Doe" || len(got.Encodings) != 1 || !got.Encodings[0].IsPrimary {
		t.Errorf("decoded criminal = %+v", got)
	}
}

func TestDashboardStats_YAML(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t, models.RoleViewer)
	ta.api.on(http.MethodGet, "/dashboard/stats", http.StatusOK,
		`{"total_criminals": 3, "wanted_criminals": 2, "accuracy_rate": 87.5}`)

	if code := ta.run("--output", "yaml", "dashboard", "stats"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, ta.stderr.String())
	}

	var got map[string]any
	if err := yaml.Unmarshal(ta.stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if got["total_criminals"] != 3 {
		t.Errorf("total_criminals = %v, want 3\n%s", got["total_criminals"], ta.stdout.String())
	}
	if got["accuracy_rate"] != 87.5 {
		t.Errorf("accuracy_rate = %v, want 87.5", got["accuracy_rate"])
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	ta := newTestApp(t)

	if code := ta.run("-o", "xml", "status"); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(ta.stderr.String(), `invalid --output "xml"`) {
		t.Errorf("stderr = %q", ta.stderr.String())
	}
}

func TestGuard_NotLoggedInMakesNoRequest(t *testing.T) {
	ta := newTestApp(t)
	ta.api.on(http.MethodGet, "/criminals", http.StatusOK, criminalsPage)

	if code := ta.run("criminals", "list"); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(ta.stderr.String(), "Not logged in") {
		t.Errorf("stderr = %q", ta.stderr.String())
	}
	if n := len(ta.api.requests()); n != 0 {
		t.Errorf("backend saw %d requests, want 0", n)
	}
}

func TestGuard_RoleCheckedBeforeRequest(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t, models.RoleViewer)
	ta.api.on(http.MethodDelete, "/criminals/3", http.StatusOK, `{"message": "deleted"}`)

	if code := ta.run("criminals", "delete", "3"); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(ta.stderr.String(), "permission denied") {
		t.Errorf("stderr = %q", ta.stderr.String())
	}
	if n := len(ta.api.requests()); n != 0 {
		t.Errorf("backend saw %d requests, want 0", n)
	}

	ta2 := newTestApp(t)
	ta2.login(t, models.RoleOperator)
	ta2.api.on(http.MethodDelete, "/criminals/3", http.StatusOK, `{"message": "Criminal deleted successfully"}`)
	if code := ta2.run("criminals", "delete", "3"); code != 0 {
		t.Fatalf("operator exit code = %d, stderr = %s", code, ta2.stderr.String())
	}
	if !strings.Contains(ta2.stdout.String(), "Criminal deleted successfully") {
		t.Errorf("stdout = %q", ta2.stdout.String())
	}
}

func TestSessionExpired_PrintsHintAndClears(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t, models.RoleViewer)
	ta.api.on(http.MethodGet, "/criminals", http.StatusUnauthorized, `{"msg": "Token has expired"}`)
	ta.api.on(http.MethodPost, "/auth/refresh", http.StatusUnauthorized, `{"msg": "Token has expired"}`)

	if code := ta.run("criminals", "list"); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if got := strings.Count(ta.stderr.String(), sessionExpiredHint); got != 1 {
		t.Errorf("hint printed %d times, stderr = %q", got, ta.stderr.String())
	}
	if ta.store.Len() != 0 {
		t.Errorf("store has %d keys after expiry, want 0", ta.store.Len())
	}
}

func TestLogin_StoresSession(t *testing.T) {
	ta := newTestApp(t)
	ta.api.on(http.MethodPost, "/auth/login", http.StatusOK, `{
		"message": "Login successful",
		"access_token": "a", "refresh_token": "r",
		"user": {"id": 1, "username": "admin", "email": "admin@example.org", "role": "admin", "is_active": true}
	}`)

	if code := ta.run("login", "--email", "admin@example.org", "--password", "secret"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, ta.stderr.String())
	}
	if !strings.Contains(ta.stdout.String(), "Logged in as admin (admin)") {
		t.Errorf("stdout = %q", ta.stdout.String())
	}

	user, err := credentials.NewSession(ta.store).User(context.Background())
	if err != nil || user == nil || user.Role != models.RoleAdmin {
		t.Errorf("stored user = %+v, err = %v", user, err)
	}
}

func TestLogin_PromptsOnStdin(t *testing.T) {
	ta := newTestApp(t)
	ta.in = strings.NewReader("officer@example.org\nhunter22\n")
	ta.api.on(http.MethodPost, "/auth/login", http.StatusOK, `{
		"access_token": "a", "refresh_token": "r",
		"user": {"id": 2, "username": "officer", "email": "officer@example.org", "role": "operator"}
	}`)

	if code := ta.run("login"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, ta.stderr.String())
	}

	var sent models.LoginRequest
	if err := json.Unmarshal(ta.api.body(http.MethodPost, "/auth/login"), &sent); err != nil {
		t.Fatalf("login body: %v", err)
	}
	if sent.Email != "officer@example.org" || sent.Password != "hunter22" {
		t.Errorf("login body = %+v", sent)
	}
	if !strings.Contains(ta.stderr.String(), "Password: ") {
		t.Errorf("expected password prompt on stderr, got %q", ta.stderr.String())
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	ta := newTestApp(t)
	ta.api.on(http.MethodPost, "/auth/login", http.StatusUnauthorized, `{"error": "Invalid email or password"}`)

	if code := ta.run("login", "--email", "x@example.org", "--password", "nope"); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(ta.stderr.String(), "Invalid email or password") {
		t.Errorf("stderr = %q", ta.stderr.String())
	}
	if strings.Contains(ta.stderr.String(), sessionExpiredHint) {
		t.Error("login failure must not report session expiry")
	}
}

func TestStatus_OfflineWithTokenInfo(t *testing.T) {
	ta := newTestApp(t)
	exp := time.Now().Add(time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1",
		"type": "access",
		"exp":  exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	user := &models.User{ID: 1, Username: "officer", Role: models.RoleOperator}
	if err := credentials.NewSession(ta.store).SaveLogin(context.Background(), tok, "r", user); err != nil {
		t.Fatalf("SaveLogin() error = %v", err)
	}

	if code := ta.run("-o", "json", "status"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, ta.stderr.String())
	}

	var got struct {
		LoggedIn    bool `json:"logged_in"`
		HasRefresh  bool `json:"has_refresh_token"`
		AccessToken struct {
			Subject string `json:"subject"`
			Type    string `json:"type"`
		} `json:"access_token"`
		TokenExpired bool `json:"token_expired"`
	}
	if err := json.Unmarshal(ta.stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if !got.LoggedIn || !got.HasRefresh || got.TokenExpired {
		t.Errorf("status = %+v", got)
	}
	if got.AccessToken.Subject != "1" || got.AccessToken.Type != "access" {
		t.Errorf("token = %+v", got.AccessToken)
	}
	if n := len(ta.api.requests()); n != 0 {
		t.Errorf("status made %d requests, want 0", n)
	}
}

func TestStatus_NotLoggedIn(t *testing.T) {
	ta := newTestApp(t)

	if code := ta.run("status"); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(ta.stdout.String(), "Not logged in.") {
		t.Errorf("stdout = %q", ta.stdout.String())
	}
}

func TestLogout_ClearsWithoutServerRoute(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t, models.RoleViewer)

	if code := ta.run("logout"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, ta.stderr.String())
	}
	if ta.store.Len() != 0 {
		t.Errorf("store has %d keys after logout", ta.store.Len())
	}
}

func TestCriminalsUpdate_SendsOnlyChangedFlags(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t, models.RoleOperator)
	ta.api.on(http.MethodPut, "/criminals/7", http.StatusOK,
		`{"message": "Criminal updated successfully", "criminal": {"id": 7, "name": "John Doe", "status": "arrested"}}`)

	if code := ta.run("criminals", "update", "7", "--status", "arrested"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, ta.stderr.String())
	}

	var sent map[string]any
	if err := json.Unmarshal(ta.api.body(http.MethodPut, "/criminals/7"), &sent); err != nil {
		t.Fatalf("update body: %v", err)
	}
	if len(sent) != 1 || sent["status"] != "arrested" {
		t.Errorf("update body = %v, want only status", sent)
	}
}

func TestDetectImage_WritesFile(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t, models.RoleViewer)
	ta.api.on(http.MethodGet, "/detection/image/5", http.StatusOK, "JPEGDATA")

	path := filepath.Join(t.TempDir(), "match.jpg")
	if code := ta.run("detect", "image", "5", "-f", path); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, ta.stderr.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "JPEGDATA" {
		t.Errorf("file content = %q", data)
	}
}

func TestAdminInvitationsCreate(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t, models.RoleAdmin)
	ta.api.on(http.MethodPost, "/admin/invitations", http.StatusCreated, `{
		"message": "Invitation created successfully",
		"invitation": {"id": 9, "email": "new@example.org", "role": "operator", "is_valid": true},
		"invitation_link": "http://localhost:3000/register?token=abc"
	}`)

	if code := ta.run("admin", "invitations", "create", "--email", "new@example.org", "--role", "operator"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, ta.stderr.String())
	}
	if !strings.Contains(ta.stdout.String(), "register?token=abc") {
		t.Errorf("stdout = %q", ta.stdout.String())
	}

	var sent models.InvitationRequest
	if err := json.Unmarshal(ta.api.body(http.MethodPost, "/admin/invitations"), &sent); err != nil {
		t.Fatalf("invitation body: %v", err)
	}
	if sent.ExpiresInHours != models.DefaultInvitationHours {
		t.Errorf("expires_in_hours = %d, want %d", sent.ExpiresInHours, models.DefaultInvitationHours)
	}
}

func TestNotificationsCount(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t, models.RoleViewer)
	ta.api.on(http.MethodGet, "/notifications/unread-count", http.StatusOK, `{"unread_count": 4}`)

	if code := ta.run("notifications", "count"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, ta.stderr.String())
	}
	if strings.TrimSpace(ta.stdout.String()) != "4 unread" {
		t.Errorf("stdout = %q", ta.stdout.String())
	}
}

func TestWatch_StopsOnSessionExpiry(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t, models.RoleViewer)
	ta.cfg.Watch.ListenAddr = ""
	ta.api.on(http.MethodGet, "/notifications/unread-count", http.StatusUnauthorized, `{"msg": "Token has expired"}`)
	ta.api.on(http.MethodPost, "/auth/refresh", http.StatusUnauthorized, `{"msg": "Token has expired"}`)

	done := make(chan int, 1)
	go func() { done <- ta.run("watch", "--interval", "50ms") }()

	select {
	case code := <-done:
		if code != 1 {
			t.Fatalf("exit code = %d, want 1", code)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop after session expiry")
	}
	if !strings.Contains(ta.stderr.String(), sessionExpiredHint) {
		t.Errorf("stderr = %q", ta.stderr.String())
	}
}

func TestParseID(t *testing.T) {
	for _, in := range []string{"", "abc", "0", "-3"} {
		if _, err := parseID(in); err == nil {
			t.Errorf("parseID(%q) expected error", in)
		}
	}
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
}

func TestCell(t *testing.T) {
	var nilStr *string
	s := "x"
	score := 0.876
	tests := []struct {
		in   any
		want string
	}{
		{nil, "-"},
		{"", "-"},
		{nilStr, "-"},
		{&s, "x"},
		{int64(7), "7"},
		{0.5, "0.50"},
		{&score, "0.88"},
		{true, "yes"},
		{models.Timestamp{}, "-"},
	}
	for _, tt := range tests {
		if got := cell(tt.in); got != tt.want {
			t.Errorf("cell(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
