package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/capture"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/sampler"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/ws"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startSampler runs a sampler over a single synthetic frame with the mock
// detector.
func startSampler(t *testing.T) *sampler.Sampler {
	t.Helper()

	dir := t.TempDir()
	frame := make([]byte, 4096)
	for i := range frame {
		frame[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame.jpg"), frame, 0o600))

	cfg := sampler.DefaultConfig()
	cfg.DetectionInterval = 10 * time.Millisecond
	cfg.SendInterval = time.Hour
	cfg.Capacity = 20

	s := sampler.New(mock.New(), capture.NewDirSource(dir), cfg, sampler.WithLogger(discardLogger()))
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func newRouter(deps *Dependencies) *Router {
	r := NewRouter(discardLogger(), deps)
	r.Setup()
	return r
}

func TestRouter_SamplerRoutes(t *testing.T) {
	s := startSampler(t)
	r := newRouter(&Dependencies{Sampler: s})

	require.Eventually(t, func() bool {
		return s.Stats().EmotionDataCount >= 5
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := r.App().Test(httptest.NewRequest("GET", "/v1/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var stats map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, s.SessionID(), stats["session_id"])
	assert.Equal(t, "running", stats["state"])

	resp, err = r.App().Test(httptest.NewRequest("GET", "/v1/readings?count=5", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var readings handler.ReadingsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&readings))
	assert.Equal(t, 5, readings.Count)

	resp, err = r.App().Test(httptest.NewRequest("GET", "/v1/readings?count=21", nil))
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestRouter_Health(t *testing.T) {
	idle := func(ctx context.Context) error { return sampler.ErrNotRunning }
	r := newRouter(&Dependencies{Checks: map[string]handler.ReadinessCheck{"sampler": idle}})

	resp, err := r.App().Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = r.App().Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestRouter_OptionalRoutes(t *testing.T) {
	r := newRouter(&Dependencies{})

	for _, path := range []string{"/v1/stats", "/v1/archive/recent", "/v1/ws"} {
		resp, err := r.App().Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode, path)
	}
}

func TestRouter_WebSocketRequiresUpgrade(t *testing.T) {
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	r := newRouter(&Dependencies{Hub: hub})

	resp, err := r.App().Test(httptest.NewRequest("GET", "/v1/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, 426, resp.StatusCode)
}
