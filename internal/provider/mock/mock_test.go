package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

func TestProvider_DetectEmotions(t *testing.T) {
	p := New()
	ctx := context.Background()

	tests := []struct {
		name      string
		frame     []byte
		wantFaces int
	}{
		{
			name:      "valid frame",
			frame:     make([]byte, 5000),
			wantFaces: 1,
		},
		{
			name:      "frame too small",
			frame:     make([]byte, 100),
			wantFaces: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faces, err := p.DetectEmotions(ctx, tt.frame)
			require.NoError(t, err)
			assert.Len(t, faces, tt.wantFaces)
		})
	}
}

func TestProvider_DetectEmotions_Normalized(t *testing.T) {
	frame := make([]byte, 5000)
	for i := range frame {
		frame[i] = byte(i % 256)
	}

	faces, err := New().DetectEmotions(context.Background(), frame)
	require.NoError(t, err)
	require.Len(t, faces, 1)

	emotions := faces[0].Emotions
	assert.Len(t, emotions, len(domain.DetectionOrder))

	sum := 0.0
	for _, label := range domain.DetectionOrder {
		v, ok := emotions[label]
		require.True(t, ok, label)
		assert.Greater(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestProvider_DetectEmotions_Deterministic(t *testing.T) {
	p := New()
	ctx := context.Background()

	a := make([]byte, 4096)
	b := make([]byte, 4096)
	b[0] = 1

	first, err := p.DetectEmotions(ctx, a)
	require.NoError(t, err)
	second, err := p.DetectEmotions(ctx, a)
	require.NoError(t, err)
	other, err := p.DetectEmotions(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, first[0].Emotions, second[0].Emotions)
	assert.NotEqual(t, first[0].Emotions, other[0].Emotions)
}

func TestProvider_DetectEmotions_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().DetectEmotions(ctx, make([]byte, 5000))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProvider_Ready(t *testing.T) {
	assert.NoError(t, New().Ready(context.Background()))

	boom := errors.New("model not loaded")
	assert.ErrorIs(t, NewUnavailable(boom).Ready(context.Background()), boom)
}
