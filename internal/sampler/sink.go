package sampler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SignatureHeader carries the HMAC of the body when a secret is configured.
const SignatureHeader = "X-Moodwatch-Signature"

// Sink receives every batch payload. Implementations must not retain or
// mutate the payload after Send returns.
type Sink interface {
	Send(ctx context.Context, payload *Payload) error
}

// Named sinks report their name in logs.
type Named interface {
	Name() string
}

func sinkName(s Sink) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

// HTTPSinkConfig configures an HTTPSink
type HTTPSinkConfig struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

// HTTPSink POSTs each payload as JSON.
type HTTPSink struct {
	client *http.Client
	config HTTPSinkConfig
}

func NewHTTPSink(config HTTPSinkConfig) *HTTPSink {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &HTTPSink{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

func (h *HTTPSink) Name() string {
	return "http"
}

func (h *HTTPSink) Send(ctx context.Context, payload *Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Moodwatch-Sampler/1.0")
	if h.config.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(h.config.Secret, body))
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("post batch: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("post batch: %s", resp.Status)
	}
	return nil
}

var _ Sink = (*HTTPSink)(nil)
