package sampler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/capture"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/provider"
)

type fakeSource struct {
	openErr  error
	frameErr error
	closed   atomic.Bool
}

func (f *fakeSource) Open(ctx context.Context) error { return f.openErr }

func (f *fakeSource) Frame(ctx context.Context) ([]byte, error) {
	if f.frameErr != nil {
		return nil, f.frameErr
	}
	return []byte("frame"), nil
}

func (f *fakeSource) Close() error {
	f.closed.Store(true)
	return nil
}

type fakeDetector struct {
	readyErr error

	mu    sync.Mutex
	calls int
	// detect returns the faces for the n-th call (0-based).
	detect func(n int) ([]provider.DetectedFace, error)
}

func (f *fakeDetector) DetectEmotions(ctx context.Context, frame []byte) ([]provider.DetectedFace, error) {
	f.mu.Lock()
	n := f.calls
	f.calls++
	f.mu.Unlock()
	if f.detect == nil {
		return nil, nil
	}
	return f.detect(n)
}

func (f *fakeDetector) Ready(ctx context.Context) error { return f.readyErr }

type captureSink struct {
	mu       sync.Mutex
	payloads []*Payload
	err      error
}

func (c *captureSink) Send(ctx context.Context, p *Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, p)
	return c.err
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func face(emotions domain.Emotions) provider.DetectedFace {
	return provider.DetectedFace{Confidence: 0.99, Emotions: emotions}
}

func TestSelectFace(t *testing.T) {
	_, ok := SelectFace(nil)
	assert.False(t, ok)

	first := face(domain.Emotions{"happy": 1})
	got, ok := SelectFace([]provider.DetectedFace{first, face(domain.Emotions{"sad": 1})})
	assert.True(t, ok)
	assert.Equal(t, first, got)
}

func TestSampler_Start_CapabilityDenied(t *testing.T) {
	tests := []struct {
		name     string
		source   *fakeSource
		detector *fakeDetector
		closed   bool
	}{
		{
			name:     "camera permission denied",
			source:   &fakeSource{openErr: capture.ErrPermissionDenied},
			detector: &fakeDetector{},
		},
		{
			name:     "detector failed to load",
			source:   &fakeSource{},
			detector: &fakeDetector{readyErr: errors.New("model not loaded")},
			closed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.detector, tt.source, DefaultConfig())

			err := s.Start(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCapabilityDenied)
			assert.Equal(t, StateIdle, s.State())
			assert.Equal(t, tt.closed, tt.source.closed.Load())
		})
	}
}

func TestSampler_Lifecycle(t *testing.T) {
	detector := &fakeDetector{
		detect: func(n int) ([]provider.DetectedFace, error) {
			return []provider.DetectedFace{face(domain.Emotions{"happy": 0.9, "neutral": 0.05, "sad": 0.05})}, nil
		},
	}
	source := &fakeSource{}
	sink := &captureSink{}

	s := New(detector, source, Config{
		DetectionInterval: 5 * time.Millisecond,
		SendInterval:      10 * time.Millisecond,
		Capacity:          10,
	}, WithSinks(sink))

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, StateRunning, s.State())
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
	assert.Regexp(t, `^session_[0-9a-f-]{36}$`, s.SessionID())

	assert.Eventually(t, func() bool { return sink.count() >= 2 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.Equal(t, StateStopped, s.State())
	assert.True(t, source.closed.Load())
	assert.ErrorIs(t, s.Stop(), ErrNotRunning)

	sink.mu.Lock()
	p := sink.payloads[0]
	sink.mu.Unlock()
	assert.Equal(t, s.SessionID(), p.SessionID)
	require.NotEmpty(t, p.RecentEmotions)
	assert.Equal(t, "happy", p.RecentEmotions[0].DominantEmotion)
	assert.Equal(t, 0.9, p.RecentEmotions[0].Confidence)

	status := s.Stats()
	assert.False(t, status.IsRunning)
	assert.Positive(t, status.FrameCount)
	assert.Equal(t, status.FrameCount, status.DetectionCount)
	assert.LessOrEqual(t, status.EmotionDataCount, 10)
}

func TestSampler_StopBeforeStart(t *testing.T) {
	s := New(&fakeDetector{}, &fakeSource{}, DefaultConfig())
	assert.ErrorIs(t, s.Stop(), ErrNotRunning)
}

func TestSampler_StartContextEnds(t *testing.T) {
	source := &fakeSource{}
	s := New(&fakeDetector{}, source, Config{
		DetectionInterval: 5 * time.Millisecond,
		SendInterval:      5 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	assert.True(t, s.Stats().IsRunning)

	cancel()
	s.Wait()

	assert.Equal(t, StateStopped, s.State())
	assert.False(t, s.Stats().IsRunning)
	assert.True(t, source.closed.Load())
	assert.ErrorIs(t, s.Stop(), ErrNotRunning)
}

func TestSampler_UptimeFreezesOnStop(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	var now atomic.Int64
	now.Store(start.UnixMilli())
	clock := func() time.Time { return time.UnixMilli(now.Load()) }

	s := New(&fakeDetector{}, &fakeSource{}, Config{
		DetectionInterval: time.Hour,
		SendInterval:      time.Hour,
	}, WithClock(clock))

	require.NoError(t, s.Start(context.Background()))
	now.Store(start.Add(2 * time.Second).UnixMilli())
	assert.Equal(t, int64(2000), s.Stats().Uptime)

	require.NoError(t, s.Stop())
	now.Store(start.Add(10 * time.Second).UnixMilli())
	assert.Equal(t, int64(2000), s.Stats().Uptime)
}

func TestSampler_Detect_KeepsLatestReadings(t *testing.T) {
	var tick atomic.Int64
	clock := func() time.Time { return time.UnixMilli(tick.Load()) }

	detector := &fakeDetector{
		detect: func(n int) ([]provider.DetectedFace, error) {
			tick.Store(int64(n))
			return []provider.DetectedFace{face(domain.Emotions{"happy": 0.5, "sad": 0.2})}, nil
		},
	}
	s := New(detector, &fakeSource{}, DefaultConfig(), WithClock(clock))

	for i := 0; i < 150; i++ {
		s.detect(context.Background())
	}

	readings := s.buffer.Snapshot()
	require.Len(t, readings, 100)
	for i, r := range readings {
		assert.Equal(t, int64(50+i), r.Timestamp)
	}
	assert.Equal(t, int64(150), s.Stats().DetectionCount)
}

func TestSampler_LatestFace(t *testing.T) {
	detector := &fakeDetector{
		detect: func(n int) ([]provider.DetectedFace, error) {
			if n == 0 {
				return nil, nil
			}
			f := face(domain.Emotions{"surprised": 0.6, "happy": 0.4})
			f.Age = 41
			f.Gender = "male"
			return []provider.DetectedFace{f}, nil
		},
	}
	s := New(detector, &fakeSource{}, DefaultConfig())

	s.detect(context.Background())
	_, ok := s.LatestFace()
	assert.False(t, ok)

	s.detect(context.Background())
	data, ok := s.LatestFace()
	require.True(t, ok)
	assert.Equal(t, 41.0, data.Age)
	assert.Equal(t, "male", data.Gender)
	assert.Equal(t, 0.6, data.Emotions["surprised"])
}

func TestSampler_Detect_FailuresAreSwallowed(t *testing.T) {
	tests := []struct {
		name          string
		source        *fakeSource
		detect        func(n int) ([]provider.DetectedFace, error)
		wantFrames    int64
		wantDetection int64
	}{
		{
			name:   "frame grab fails",
			source: &fakeSource{frameErr: errors.New("camera unplugged")},
		},
		{
			name:   "detector fails",
			source: &fakeSource{},
			detect: func(int) ([]provider.DetectedFace, error) {
				return nil, errors.New("inference failed")
			},
			wantFrames: 1,
		},
		{
			name:       "no faces",
			source:     &fakeSource{},
			wantFrames: 1,
		},
		{
			name:   "face without emotions",
			source: &fakeSource{},
			detect: func(int) ([]provider.DetectedFace, error) {
				return []provider.DetectedFace{{Confidence: 0.9}}, nil
			},
			wantFrames:    1,
			wantDetection: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeDetector{detect: tt.detect}, tt.source, DefaultConfig())

			s.detect(context.Background())

			st := s.Stats()
			assert.Equal(t, tt.wantFrames, st.FrameCount)
			assert.Equal(t, tt.wantDetection, st.DetectionCount)
			assert.Zero(t, st.EmotionDataCount)
		})
	}
}

func TestSampler_Send(t *testing.T) {
	t.Run("empty buffer sends nothing", func(t *testing.T) {
		sink := &captureSink{}
		s := New(&fakeDetector{}, &fakeSource{}, DefaultConfig(), WithSinks(sink))

		s.send(context.Background())
		assert.Zero(t, sink.count())
	})

	t.Run("every sink gets the batch even if one fails", func(t *testing.T) {
		failing := &captureSink{err: errors.New("503 Service Unavailable")}
		ok := &captureSink{}
		s := New(&fakeDetector{}, &fakeSource{}, DefaultConfig(), WithSinks(failing, ok))
		s.buffer.Push(domain.NewReading(time.Now(), domain.Emotions{"sad": 1}))

		s.send(context.Background())
		s.send(context.Background())

		assert.Equal(t, 2, failing.count())
		assert.Equal(t, 2, ok.count())
	})
}
