package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// maxFrameSize caps a single snapshot body.
const maxFrameSize = 10 * 1024 * 1024

// SnapshotConfig configures an IP camera snapshot endpoint.
type SnapshotConfig struct {
	URL     string
	Timeout time.Duration
}

// DefaultSnapshotConfig returns the default snapshot timeout.
func DefaultSnapshotConfig(url string) SnapshotConfig {
	return SnapshotConfig{
		URL:     url,
		Timeout: 2 * time.Second,
	}
}

// SnapshotSource grabs one JPEG per call from a camera's snapshot URL.
type SnapshotSource struct {
	httpClient *http.Client
	config     SnapshotConfig
	open       atomic.Bool
}

// NewSnapshotSource creates a new snapshot source
func NewSnapshotSource(config SnapshotConfig) *SnapshotSource {
	return &SnapshotSource{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// Open fetches one frame to check the camera answers and accepts us.
func (s *SnapshotSource) Open(ctx context.Context) error {
	if _, err := s.fetch(ctx); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	s.open.Store(true)
	return nil
}

func (s *SnapshotSource) Frame(ctx context.Context) ([]byte, error) {
	if !s.open.Load() {
		return nil, ErrNotOpen
	}
	return s.fetch(ctx)
}

func (s *SnapshotSource) Close() error {
	s.open.Store(false)
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *SnapshotSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrPermissionDenied, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("snapshot failed with status %d", resp.StatusCode)
	}

	frame, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameSize))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(frame) == 0 {
		return nil, ErrNoFrames
	}
	return frame, nil
}

var _ FrameSource = (*SnapshotSource)(nil)
