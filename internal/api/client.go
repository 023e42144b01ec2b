package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request; a slower response surfaces as
// ErrTimeout rather than a generic failure.
const DefaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:5000/api
	BaseURL string
	Timeout time.Duration
	// Token supplies the current bearer token; empty means unauthenticated
	Token func() string
	// OnUnauthorized runs once per 401 response, regardless of endpoint.
	// It must not navigate; route guards react on the next render.
	OnUnauthorized func()
	Logger         *slog.Logger
}

// Client is the single HTTP entry point for the backend API.
type Client struct {
	log     *slog.Logger
	http    *http.Client
	baseURL string
	origin  string
	token   func() string
	onAuth  func()
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	base := strings.TrimRight(opts.BaseURL, "/")

	return &Client{
		log:     log,
		http:    &http.Client{Timeout: timeout},
		baseURL: base,
		origin:  deriveOrigin(base),
		token:   opts.Token,
		onAuth:  opts.OnUnauthorized,
	}
}

// deriveOrigin strips a trailing /api path segment from the base URL to get
// the origin static asset links are relative to. Computed once; the result
// is constant for the process lifetime.
func deriveOrigin(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "http://localhost:5000"
	}
	p := strings.TrimSuffix(u.Path, "/")
	p = strings.TrimSuffix(p, "/api")
	return u.Scheme + "://" + u.Host + p
}

// Origin returns the derived backend origin
func (c *Client) Origin() string { return c.origin }

// AssetURL resolves an avatar or attachment path against the backend
// origin. Absolute URLs pass through untouched.
func (c *Client) AssetURL(path string) string {
	if path == "" {
		return ""
	}
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.origin + path
}

func (c *Client) authorize(req *http.Request) {
	if c.token == nil {
		return
	}
	// Some endpoints (register, login) are unauthenticated by design;
	// requests simply go out without the header then.
	if t := c.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
}

// do issues a JSON request and decodes the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportErr(req, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token expired or invalid: clear the session globally. No
		// navigation here, to avoid redirect loops.
		if c.onAuth != nil {
			c.onAuth()
		}
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrUnauthorized)
	}

	if resp.StatusCode >= 400 {
		msg := extractMessage(resp.Body)
		c.log.Warn("api request failed",
			"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
		return &ServerError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func (c *Client) transportErr(req *http.Request, err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		c.log.Warn("api request timed out", "method", req.Method, "path", req.URL.Path)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrTimeout)
	}
	c.log.Warn("api request failed", "method", req.Method, "path", req.URL.Path, "err", err)
	return fmt.Errorf("%s %s: %w: %v", req.Method, req.URL.Path, ErrNetwork, err)
}

// extractMessage pulls {"message": ...} or {"error": ...} out of an error
// body; an unreadable body yields "".
func extractMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
