// Package client talks to the panel backend on behalf of the user and turns
// every outcome into exactly one notification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/dokuhost/dokuhost/internal/notify"
	"github.com/dokuhost/dokuhost/internal/schedule"
	"golang.org/x/net/publicsuffix"
)

const (
	RegisterPath = "/users/register/"
	LoginPath    = "/users/login/"
	LogoutPath   = "/users/logout/"

	DefaultRedirect = "/lk/plist"
	LoginTab        = "login"

	LoginRedirectDelay  = time.Second
	LogoutRedirectDelay = time.Second
	RegisterTabDelay    = 2 * time.Second
	ReloadDelay         = 2 * time.Second

	DefaultSessionCookie = "users_access_token"
)

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidResponse    = errors.New("invalid response format")
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// TransportError means no response was obtained.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("POST %s: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a well-formed response with a non-success status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

type Notifier interface {
	Notify(message string, kind notify.Kind)
}

type TabActivator interface {
	Activate(tab string) error
}

// Navigator leaves or reloads the current page.
type Navigator interface {
	Navigate(target string)
	Reload()
}

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Notifier   Notifier
	// Tabs receives the post-registration switch to the login tab. Optional.
	Tabs      TabActivator
	Navigator Navigator
	Scheduler schedule.Scheduler
	Messages  *Messages
	Logger    *slog.Logger
}

type Client struct {
	baseURL  *url.URL
	http     *http.Client
	notifier Notifier
	tabs     TabActivator
	nav      Navigator
	sched    schedule.Scheduler
	messages Messages
	logger   *slog.Logger
}

func New(opts Options) (*Client, error) {
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	if opts.Notifier == nil || opts.Navigator == nil || opts.Scheduler == nil {
		return nil, fmt.Errorf("notifier, navigator and scheduler are required")
	}

	c := &Client{
		baseURL:  baseURL,
		http:     opts.HTTPClient,
		notifier: opts.Notifier,
		tabs:     opts.Tabs,
		nav:      opts.Navigator,
		sched:    opts.Scheduler,
		messages: English,
		logger:   opts.Logger,
	}

	if c.http == nil {
		c.http = &http.Client{}
	}

	if opts.Messages != nil {
		c.messages = *opts.Messages
	}

	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	c.logger = c.logger.With("logger", "client")

	return c, nil
}

// SetTabs replaces the tab controller used after registration.
func (c *Client) SetTabs(tabs TabActivator) {
	c.tabs = tabs
}

// Resolve turns a path returned by the backend into an absolute URL.
func (c *Client) Resolve(target string) string {
	ref, err := url.Parse(target)
	if err != nil {
		return target
	}

	return c.baseURL.ResolveReference(ref).String()
}

// NewCookieJar returns a jar for baseURL, optionally seeded with an existing
// session cookie.
func NewCookieJar(baseURL string, cookieName string, token string) (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	if token == "" {
		return jar, nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	jar.SetCookies(u, []*http.Cookie{{Name: cookieName, Value: token, Path: "/"}})
	return jar, nil
}

// SessionToken returns the value of the named cookie held for the backend.
func (c *Client) SessionToken(cookieName string) (string, bool) {
	if c.http.Jar == nil {
		return "", false
	}

	for _, cookie := range c.http.Jar.Cookies(c.baseURL) {
		if cookie.Name == cookieName {
			return cookie.Value, true
		}
	}

	return "", false
}

const credentialsHeader = "js.fetch:credentials"

type credentialsTransport struct {
	base http.RoundTripper
}

func (t credentialsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(credentialsHeader, "include")
	return t.base.RoundTrip(req)
}

// IncludeCredentials makes the browser fetch API send cookies with every
// request issued through base.
func IncludeCredentials(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return credentialsTransport{base: base}
}

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *Client) post(ctx context.Context, path string, payload any) (response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return response{}, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return response{}, &TransportError{Path: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.ResolveReference(ref).String(), body)
	if err != nil {
		return response{}, &TransportError{Path: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, &TransportError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, &TransportError{Path: path, Err: err}
	}

	c.logger.Debug("response received", "path", path, "status", resp.StatusCode)
	return response{status: resp.StatusCode, body: b}, nil
}

// decode parses body as JSON. Values other than objects yield a nil map.
func decode(body []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	obj, _ := v.(map[string]any)
	return obj, nil
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return true
	}
}

func text(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func (c *Client) fail(message string, err error) error {
	c.notifier.Notify(message, notify.Error)
	return err
}
