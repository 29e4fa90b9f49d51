package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes rootCmd against a fake backend and returns stdout.
func runCLI(t *testing.T, backend http.Handler, args ...string) (string, error) {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("TOKEN_FILE", filepath.Join(t.TempDir(), "token.json"))
	t.Setenv("ENV", "test")

	var out bytes.Buffer
	stdout = &out
	t.Cleanup(func() { stdout = os.Stdout })

	baseURL, lang, jsonOutput = "", "en", false
	periodFrom, periodTo, periodLast = "", "", 0

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestMessagesCount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/count", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"success": true, "count": 42})
	})

	out, err := runCLI(t, mux, "messages", "count")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestMessagesRecentArabic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/recent", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(w, map[string]any{"messages": []map[string]any{
			{"id": 7, "sender_name": "Layla", "dominant_emotion": "happy", "timestamp": "2026-01-02T10:00:00", "message_content": "hello"},
		}})
	})

	out, err := runCLI(t, mux, "messages", "recent", "--limit", "5", "--lang", "ar")
	require.NoError(t, err)
	assert.Contains(t, out, "Layla")
	assert.Contains(t, out, "سعيد")
	assert.NotContains(t, out, "happy")
}

func TestBatchReportsFailures(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "batch.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"user_id": "1", "message_content": "first"},
		{"user_id": "2", "message_content": ""}
	]`), 0o600))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/add", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"success": true, "message_id": 100})
	})

	out, err := runCLI(t, mux, "batch", file)
	require.Error(t, err)
	assert.Contains(t, out, "1 of 2 messages added")
	assert.Contains(t, out, "failed")
}

func TestUsersGetNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]any{"error": "user not found"})
	})

	_, err := runCLI(t, mux, "users", "get", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		from, to  string
		last      time.Duration
		wantStart time.Time
		wantEnd   time.Time
		wantErr   string
	}{
		{name: "trailing window", last: 2 * time.Hour, wantStart: now.Add(-2 * time.Hour), wantEnd: now},
		{name: "from only", from: "2026-03-01T08:00:00", wantStart: now.Add(-4 * time.Hour), wantEnd: now},
		{name: "from and to", from: "2026-02-01T00:00:00Z", to: "2026-02-02T00:00:00Z",
			wantStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)},
		{name: "nothing", wantErr: "required"},
		{name: "both forms", from: "2026-02-01T00:00:00Z", last: time.Hour, wantErr: "cannot be combined"},
		{name: "reversed", from: "2026-02-02T00:00:00Z", to: "2026-02-01T00:00:00Z", wantErr: "before"},
		{name: "garbage", from: "yesterday", wantErr: "invalid --from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periodFrom, periodTo, periodLast = tt.from, tt.to, tt.last
			t.Cleanup(func() { periodFrom, periodTo, periodLast = "", "", 0 })

			start, end, err := periodRange(now)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(start), "start %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end %s", end)
		})
	}
}
