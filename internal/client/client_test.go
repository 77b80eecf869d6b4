package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dokuhost/dokuhost/internal/client"
	"github.com/dokuhost/dokuhost/internal/notify"
	"github.com/dokuhost/dokuhost/internal/schedule"
)

type note struct {
	message string
	kind    notify.Kind
}

type recorder struct {
	mu       sync.Mutex
	notes    []note
	targets  []string
	reloads  int
	tabs     []string
	requests []*http.Request
	bodies   []string
}

func (r *recorder) Notify(message string, kind notify.Kind) {
	r.notes = append(r.notes, note{message, kind})
}

func (r *recorder) Navigate(target string) { r.targets = append(r.targets, target) }

func (r *recorder) Reload() { r.reloads++ }

func (r *recorder) Activate(tab string) error {
	r.tabs = append(r.tabs, tab)
	return nil
}

func (r *recorder) only(t *testing.T) note {
	t.Helper()
	if len(r.notes) != 1 {
		t.Fatalf("expected exactly one notification, got %d: %+v", len(r.notes), r.notes)
	}
	return r.notes[0]
}

type reply struct {
	status int
	body   string
}

func setup(t *testing.T, replies map[string]reply) (*client.Client, *recorder, *schedule.Virtual) {
	t.Helper()

	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, r)
		rec.bodies = append(rec.bodies, string(body))
		rec.mu.Unlock()

		rp, ok := replies[r.URL.EscapedPath()]
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.WriteHeader(rp.status)
		_, _ = io.WriteString(w, rp.body)
	}))
	t.Cleanup(server.Close)

	clock := schedule.NewVirtual()
	c, err := client.New(client.Options{
		BaseURL:   server.URL,
		Notifier:  rec,
		Tabs:      rec,
		Navigator: rec,
		Scheduler: clock,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return c, rec, clock
}

func TestLoginRedirect(t *testing.T) {
	c, rec, clock := setup(t, map[string]reply{
		client.LoginPath: {http.StatusOK, `{"ok":true,"redirect_url":"/lk/plist"}`},
	})

	form := client.FormSubmission{client.FieldEmail: "a@b.c", client.FieldPassword: "secret123"}
	if err := c.Login(context.Background(), form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := rec.only(t)
	if n.kind != notify.Success || n.message != client.English.LoginSucceeded {
		t.Errorf("unexpected notification: %+v", n)
	}

	clock.Advance(client.LoginRedirectDelay - time.Millisecond)
	if len(rec.targets) != 0 {
		t.Fatal("navigated before the redirect delay")
	}

	clock.Advance(time.Millisecond)
	if len(rec.targets) != 1 || rec.targets[0] != "/lk/plist" {
		t.Fatalf("expected navigation to /lk/plist, got %v", rec.targets)
	}

	req := rec.requests[0]
	if req.Method != http.MethodPost || req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("unexpected request %s %s", req.Method, req.Header.Get("Content-Type"))
	}

	var sent map[string]string
	if err := json.Unmarshal([]byte(rec.bodies[0]), &sent); err != nil {
		t.Fatalf("request body is not json: %v", err)
	}
	if sent[client.FieldEmail] != "a@b.c" || sent[client.FieldPassword] != "secret123" {
		t.Errorf("unexpected request body: %v", sent)
	}
}

func TestLoginOutcomes(t *testing.T) {
	var tests = []struct {
		name     string
		reply    reply
		kind     notify.Kind
		message  string
		target   string
		checkErr func(error) bool
	}{
		{
			name:    "message only",
			reply:   reply{http.StatusOK, `{"message":"Welcome back"}`},
			kind:    notify.Success,
			message: "Welcome back",
			target:  client.DefaultRedirect,
		},
		{
			name:    "user id only",
			reply:   reply{http.StatusOK, `{"user_id":7,"redirect_url":"/admin"}`},
			kind:    notify.Success,
			message: client.English.LoginSucceeded,
			target:  "/admin",
		},
		{
			name:     "invalid credentials",
			reply:    reply{http.StatusUnauthorized, `{"detail":"Invalid credentials"}`},
			kind:     notify.Error,
			message:  "Invalid credentials",
			checkErr: func(err error) bool { var e *client.APIError; return errors.As(err, &e) && e.Status == 401 },
		},
		{
			name:     "validation errors",
			reply:    reply{http.StatusUnprocessableEntity, `{"detail":[{"type":"string_too_short","loc":["body","user_pass"],"ctx":{"min_length":5}}]}`},
			kind:     notify.Error,
			message:  `Field "user_pass" must contain at least 5 characters.`,
			checkErr: func(err error) bool { var e *client.APIError; return errors.As(err, &e) },
		},
		{
			name:     "not json",
			reply:    reply{http.StatusOK, `<html>oops</html>`},
			kind:     notify.Error,
			message:  client.English.InvalidResponse,
			checkErr: func(err error) bool { return errors.Is(err, client.ErrInvalidResponse) },
		},
		{
			name:     "not json on failure",
			reply:    reply{http.StatusBadGateway, `Bad Gateway`},
			kind:     notify.Error,
			message:  client.English.InvalidResponse,
			checkErr: func(err error) bool { return errors.Is(err, client.ErrInvalidResponse) },
		},
		{
			name:     "empty body",
			reply:    reply{http.StatusOK, ``},
			kind:     notify.Error,
			message:  client.English.InvalidResponse,
			checkErr: func(err error) bool { return errors.Is(err, client.ErrInvalidResponse) },
		},
		{
			name:     "ambiguous",
			reply:    reply{http.StatusOK, `{"ok":false,"message":"","user_id":0}`},
			kind:     notify.Error,
			message:  client.English.UnknownError,
			checkErr: func(err error) bool { return errors.Is(err, client.ErrUnexpectedResponse) },
		},
		{
			name:     "non object",
			reply:    reply{http.StatusOK, `[1,2,3]`},
			kind:     notify.Error,
			message:  client.English.UnknownError,
			checkErr: func(err error) bool { return errors.Is(err, client.ErrUnexpectedResponse) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec, clock := setup(t, map[string]reply{client.LoginPath: tt.reply})

			err := c.Login(context.Background(), client.FormSubmission{client.FieldEmail: "a@b.c"})
			if tt.checkErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.checkErr != nil && !tt.checkErr(err) {
				t.Fatalf("unexpected error: %v", err)
			}

			n := rec.only(t)
			if n.kind != tt.kind || n.message != tt.message {
				t.Errorf("expected %s %q, got %s %q", tt.kind, tt.message, n.kind, n.message)
			}

			clock.Advance(10 * time.Second)
			if tt.target == "" && len(rec.targets) != 0 {
				t.Errorf("expected no navigation, got %v", rec.targets)
			}
			if tt.target != "" && (len(rec.targets) != 1 || rec.targets[0] != tt.target) {
				t.Errorf("expected navigation to %q, got %v", tt.target, rec.targets)
			}
		})
	}
}

func TestLoginTransportFailure(t *testing.T) {
	rec := &recorder{}
	c, err := client.New(client.Options{
		BaseURL:   "http://127.0.0.1:1",
		Notifier:  rec,
		Navigator: rec,
		Scheduler: schedule.NewVirtual(),
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	err = c.Login(context.Background(), client.FormSubmission{})
	var transportErr *client.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected a transport error, got %v", err)
	}

	n := rec.only(t)
	if n.kind != notify.Error || n.message != client.English.LoginFailed {
		t.Errorf("unexpected notification: %+v", n)
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	c, rec, clock := setup(t, map[string]reply{
		client.RegisterPath: {http.StatusOK, `{"message":"ok"}`},
	})

	for _, form := range []client.FormSubmission{
		{client.FieldPassword: "secret123", client.FieldPasswordCheck: "secret124"},
		{client.FieldPassword: "secret123"},
		{client.FieldPasswordCheck: "x"},
	} {
		rec.notes = nil

		err := c.Register(context.Background(), form)
		if !errors.Is(err, client.ErrPasswordMismatch) {
			t.Fatalf("expected ErrPasswordMismatch, got %v", err)
		}

		n := rec.only(t)
		if n.kind != notify.Error || n.message != client.English.PasswordMismatch {
			t.Errorf("unexpected notification: %+v", n)
		}
	}

	if len(rec.requests) != 0 {
		t.Fatalf("expected no request to reach the backend, got %d", len(rec.requests))
	}

	clock.Advance(time.Minute)
	if len(rec.tabs) != 0 {
		t.Errorf("expected no tab switch, got %v", rec.tabs)
	}
}

func TestRegisterSuccess(t *testing.T) {
	c, rec, clock := setup(t, map[string]reply{
		client.RegisterPath: {http.StatusOK, `{"message":"Registration completed"}`},
	})

	form := client.FormSubmission{
		client.FieldEmail:         "a@b.c",
		client.FieldPassword:      "secret123",
		client.FieldPasswordCheck: "secret123",
	}
	if err := c.Register(context.Background(), form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := rec.only(t)
	if n.kind != notify.Success || n.message != "Registration completed" {
		t.Errorf("unexpected notification: %+v", n)
	}

	clock.Advance(client.RegisterTabDelay - time.Millisecond)
	if len(rec.tabs) != 0 {
		t.Fatal("tab switched before the delay")
	}

	clock.Advance(time.Millisecond)
	if len(rec.tabs) != 1 || rec.tabs[0] != client.LoginTab {
		t.Errorf("expected switch to the login tab, got %v", rec.tabs)
	}
}

func TestRegisterOutcomes(t *testing.T) {
	var tests = []struct {
		name    string
		reply   reply
		message string
	}{
		{"missing message", reply{http.StatusOK, `{}`}, client.English.UnknownError},
		{"empty message", reply{http.StatusCreated, `{"message":""}`}, client.English.UnknownError},
		{"conflict", reply{http.StatusConflict, `{"detail":"User already exists"}`}, "User already exists"},
		{"validation", reply{http.StatusUnprocessableEntity, `{"detail":[{"type":"string_too_short","loc":["body","first_name"],"ctx":{"min_length":3}},{"type":"value_error","msg":"Invalid phone"}]}`}, "Field \"first_name\" must contain at least 3 characters.\nInvalid phone"},
		{"unreadable failure", reply{http.StatusInternalServerError, `Internal Server Error`}, client.English.RegisterFailed},
		{"unreadable success", reply{http.StatusOK, `done`}, client.English.RegisterFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec, clock := setup(t, map[string]reply{client.RegisterPath: tt.reply})

			form := client.FormSubmission{client.FieldPassword: "p", client.FieldPasswordCheck: "p"}
			if err := c.Register(context.Background(), form); err == nil {
				t.Fatal("expected an error")
			}

			n := rec.only(t)
			if n.kind != notify.Error || n.message != tt.message {
				t.Errorf("expected error %q, got %s %q", tt.message, n.kind, n.message)
			}

			clock.Advance(time.Minute)
			if len(rec.tabs) != 0 {
				t.Errorf("expected no tab switch, got %v", rec.tabs)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	var tests = []struct {
		name    string
		reply   reply
		kind    notify.Kind
		message string
		target  string
	}{
		{"success", reply{http.StatusOK, `{"message":"bye"}`}, notify.Success, client.English.LogoutSucceeded, "/"},
		{"empty success", reply{http.StatusNoContent, ``}, notify.Success, client.English.LogoutSucceeded, "/"},
		{"rejected", reply{http.StatusUnauthorized, `{"detail":"Token not found"}`}, notify.Error, client.English.LogoutFailed, ""},
		{"unreadable", reply{http.StatusInternalServerError, `boom`}, notify.Error, client.English.NetworkError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec, clock := setup(t, map[string]reply{client.LogoutPath: tt.reply})

			_ = c.Logout(context.Background())

			n := rec.only(t)
			if n.kind != tt.kind || n.message != tt.message {
				t.Errorf("expected %s %q, got %s %q", tt.kind, tt.message, n.kind, n.message)
			}

			if rec.bodies[0] != "" {
				t.Errorf("expected an empty request body, got %q", rec.bodies[0])
			}

			clock.Advance(client.LogoutRedirectDelay)
			if tt.target == "" && len(rec.targets) != 0 {
				t.Errorf("expected no navigation, got %v", rec.targets)
			}
			if tt.target != "" && (len(rec.targets) != 1 || rec.targets[0] != tt.target) {
				t.Errorf("expected navigation to %q, got %v", tt.target, rec.targets)
			}
		})
	}
}

func TestPerformAction(t *testing.T) {
	c, rec, clock := setup(t, map[string]reply{
		"/services/42/restart": {http.StatusOK, `{"status":"ok"}`},
	})

	if err := c.PerformAction(context.Background(), "restart", "42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := rec.only(t)
	if n.kind != notify.Success || !strings.HasSuffix(n.message, "restarted") {
		t.Errorf("unexpected notification: %+v", n)
	}

	clock.Advance(client.ReloadDelay - time.Millisecond)
	if rec.reloads != 0 {
		t.Fatal("reloaded before the delay")
	}

	clock.Advance(time.Millisecond)
	if rec.reloads != 1 {
		t.Errorf("expected one reload, got %d", rec.reloads)
	}
}

func TestPerformActionOutcomes(t *testing.T) {
	var tests = []struct {
		name    string
		action  string
		id      string
		path    string
		reply   reply
		kind    notify.Kind
		message string
	}{
		{"start", "start", "1", "/services/1/start", reply{http.StatusOK, `{}`}, notify.Success, "Service successfully started"},
		{"stop", "stop", "1", "/services/1/stop", reply{http.StatusOK, `{}`}, notify.Success, "Service successfully stopped"},
		{"unknown action", "backup", "1", "/services/1/backup", reply{http.StatusOK, `{}`}, notify.Success, "Service successfully updated"},
		{"escaped id", "start", "a b/c", "/services/a%20b%2Fc/start", reply{http.StatusOK, `{}`}, notify.Success, "Service successfully started"},
		{"detail", "stop", "9", "/services/9/stop", reply{http.StatusForbidden, `{"detail":"Not enough rights!"}`}, notify.Error, "Not enough rights!"},
		{"no detail", "stop", "9", "/services/9/stop", reply{http.StatusNotFound, `{}`}, notify.Error, client.English.ActionFailed},
		{"unreadable", "stop", "9", "/services/9/stop", reply{http.StatusBadGateway, `<html/>`}, notify.Error, client.English.NetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec, clock := setup(t, map[string]reply{tt.path: tt.reply})

			_ = c.PerformAction(context.Background(), tt.action, tt.id)

			n := rec.only(t)
			if n.kind != tt.kind || n.message != tt.message {
				t.Errorf("expected %s %q, got %s %q", tt.kind, tt.message, n.kind, n.message)
			}

			clock.Advance(client.ReloadDelay)
			wantReloads := 0
			if tt.kind == notify.Success {
				wantReloads = 1
			}
			if rec.reloads != wantReloads {
				t.Errorf("expected %d reloads, got %d", wantReloads, rec.reloads)
			}
		})
	}
}

func TestSessionCookie(t *testing.T) {
	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(client.DefaultSessionCookie); err == nil {
			seen = cookie.Value
		}

		if r.URL.Path == client.LoginPath {
			http.SetCookie(w, &http.Cookie{Name: client.DefaultSessionCookie, Value: "fresh", Path: "/"})
		}
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	jar, err := client.NewCookieJar(server.URL, client.DefaultSessionCookie, "seeded")
	if err != nil {
		t.Fatalf("failed to create jar: %v", err)
	}

	rec := &recorder{}
	c, err := client.New(client.Options{
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Jar: jar},
		Notifier:   rec,
		Navigator:  rec,
		Scheduler:  schedule.NewVirtual(),
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_ = c.PerformAction(context.Background(), "start", "1")
	if seen != "seeded" {
		t.Errorf("expected seeded session cookie, got %q", seen)
	}

	_ = c.Login(context.Background(), client.FormSubmission{})
	token, ok := c.SessionToken(client.DefaultSessionCookie)
	if !ok || token != "fresh" {
		t.Errorf("expected the login cookie to be stored, got %q", token)
	}
}

func TestIncludeCredentials(t *testing.T) {
	var header string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("js.fetch:credentials")
	}))
	defer server.Close()

	rec := &recorder{}
	c, err := client.New(client.Options{
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Transport: client.IncludeCredentials(nil)},
		Notifier:   rec,
		Navigator:  rec,
		Scheduler:  schedule.NewVirtual(),
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_ = c.Logout(context.Background())
	if header != "include" {
		t.Errorf("expected credentials to be included, got %q", header)
	}
}

func TestRedactedForm(t *testing.T) {
	form := client.FormSubmission{
		client.FieldEmail:         "a@b.c",
		client.FieldPassword:      "secret",
		client.FieldPasswordCheck: "secret",
	}

	redacted := form.Redacted()
	if redacted[client.FieldEmail] != "a@b.c" {
		t.Errorf("email should be kept, got %q", redacted[client.FieldEmail])
	}

	for _, field := range []string{client.FieldPassword, client.FieldPasswordCheck} {
		if redacted[field] == "secret" {
			t.Errorf("%s was not redacted", field)
		}
	}

	if form[client.FieldPassword] != "secret" {
		t.Error("Redacted must not modify the original form")
	}
}

func TestCatalog(t *testing.T) {
	ru, err := client.Catalog("ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ru.ActionText("restart"); got != "Сервис успешно перезапущен" {
		t.Errorf("unexpected russian action text %q", got)
	}

	if _, err := client.Catalog("de"); err == nil {
		t.Error("expected an error for an unsupported locale")
	}

	if got := client.English.ActionText("restart"); got != "Service successfully restarted" {
		t.Errorf("unexpected english action text %q", got)
	}
}

func TestResolve(t *testing.T) {
	c, _, _ := setup(t, nil)

	if got := c.Resolve("https://example.com/x"); got != "https://example.com/x" {
		t.Errorf("absolute url should be kept, got %q", got)
	}

	if got := c.Resolve("/lk/plist"); !strings.HasSuffix(got, "/lk/plist") || !strings.HasPrefix(got, "http://") {
		t.Errorf("unexpected resolved url %q", got)
	}
}
