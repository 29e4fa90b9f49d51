package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

// Config holds the configuration for the backend client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000",
		Timeout: 30 * time.Second,
	}
}

// Client talks to the emotion-analysis REST backend. Each method issues
// exactly one HTTP request unless documented otherwise; nothing is retried.
// A Client owns its SessionState and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	config     Config
	state      *SessionState
	tokens     TokenStore
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenStore persists the auth token across process restarts.
func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.tokens = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client and restores any persisted token.
func NewClient(config Config, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		state:      &SessionState{},
		tokens:     NewMemoryTokenStore(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.config.BaseURL = strings.TrimRight(c.config.BaseURL, "/")

	token, err := c.tokens.Load()
	if err != nil {
		c.logger.Warn("failed to restore auth token", "error", err)
	} else if token != "" && tokenExpired(token, c.now()) {
		c.logger.Info("stored auth token expired, discarding")
		if err := c.tokens.Clear(); err != nil {
			c.logger.Warn("failed to clear stored token", "error", err)
		}
	} else if token != "" {
		c.state.SetToken(token)
	}

	return c
}

func (c *Client) State() *SessionState {
	return c.state
}

// envelope is the backend's JSON response object, kept undecoded per field
// because payload keys differ between endpoints.
type envelope map[string]json.RawMessage

// errorMessage returns the body's error field, if any.
func (e envelope) errorMessage() string {
	raw, ok := e["error"]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// success reports the body's success flag, treating an absent flag as true.
func (e envelope) success() bool {
	raw, ok := e["success"]
	if !ok {
		return true
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// decodeField decodes the first present key of env into T.
func decodeField[T any](env envelope, keys ...string) (T, error) {
	var out T
	for _, k := range keys {
		raw, ok := env[k]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return out, domain.ErrInvalidResponse.WithError(fmt.Errorf("field %q: %w", k, err))
		}
		return out, nil
	}
	return out, domain.ErrInvalidResponse.WithError(fmt.Errorf("none of %v present", keys))
}

// do executes a single request and normalizes failures:
// transport errors become ErrTransport, non-2xx statuses ErrHTTPStatus,
// and 2xx bodies carrying an error field ErrApplication.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	u := c.config.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.state.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if s := c.state.Session(); s != nil && s.SessionID != "" {
		req.Header.Set("X-Session-ID", s.SessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrTransport.WithError(fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.ErrTransport.WithError(fmt.Errorf("read response: %w", err))
	}

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.clearAuth()
		}
		msg := ""
		if decodeErr == nil {
			msg = env.errorMessage()
		}
		if msg == "" {
			msg = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		}
		return nil, domain.ErrHTTPStatus.WithMessage(msg, resp.StatusCode)
	}

	if decodeErr != nil {
		return nil, domain.ErrInvalidResponse.WithError(decodeErr)
	}
	if msg := env.errorMessage(); msg != "" {
		return nil, domain.ErrApplication.WithMessage(msg, resp.StatusCode)
	}

	return env, nil
}

// clearAuth drops the token and cached user after the backend rejected them.
func (c *Client) clearAuth() {
	c.state.ClearAuth()
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn("failed to clear stored token", "error", err)
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (envelope, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) put(ctx context.Context, path string, body interface{}) (envelope, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) delete(ctx context.Context, path string) (envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func pathID(id domain.ID) string {
	return url.PathEscape(id.String())
}
