package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{"url", "postgres://u:p@localhost:5432/moodwatch?sslmode=disable", "moodwatch", false},
		{"keyword form", "host=localhost user=u dbname=archive", "archive", false},
		{"garbage", "postgres://%zz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DatabaseName(tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig("postgres://localhost/moodwatch")

	assert.Equal(t, "postgres://localhost/moodwatch", cfg.DSN)
	assert.Equal(t, 4, cfg.MaxOpenConns)
	assert.Equal(t, 2, cfg.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	assert.NoError(t, HealthCheck(context.Background(), pingerFunc(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok, "health check bounds the ping")
		return nil
	})))

	err := HealthCheck(context.Background(), pingerFunc(func(ctx context.Context) error {
		return errors.New("connection refused")
	}))
	assert.ErrorContains(t, err, "connection refused")
}
