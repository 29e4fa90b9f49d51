package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/capture"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/provider"
)

// State is the sampler lifecycle position.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// Config holds the sampler cadence and buffer settings
type Config struct {
	DetectionInterval time.Duration
	SendInterval      time.Duration
	Capacity          int
	// SessionID overrides the generated per-run session id.
	SessionID string
	// Lang selects the display label of the summary's most frequent emotion.
	Lang string
}

// DefaultConfig returns 100ms detection and send ticks over a 100-reading buffer.
func DefaultConfig() Config {
	return Config{
		DetectionInterval: 100 * time.Millisecond,
		SendInterval:      100 * time.Millisecond,
		Capacity:          100,
	}
}

// SelectFace is the face selection policy: the first face in the
// detector's order.
func SelectFace(faces []provider.DetectedFace) (provider.DetectedFace, bool) {
	if len(faces) == 0 {
		return provider.DetectedFace{}, false
	}
	return faces[0], true
}

// Sampler runs a detection loop that fills a bounded reading buffer and an
// independent send loop that hands batch payloads to its sinks.
type Sampler struct {
	detector provider.EmotionDetector
	source   capture.FrameSource
	sinks    []Sink
	config   Config
	logger   *slog.Logger
	now      func() time.Time

	buffer *Ring[domain.Reading]

	mu             sync.Mutex
	state          State
	sessionID      string
	startTime      time.Time
	stopTime       time.Time
	lastFrameTime  time.Time
	frameCount     int64
	detectionCount int64
	lastFace       *domain.FaceData
	cancel         context.CancelFunc
	done           chan struct{}
}

// Option configures a Sampler
type Option func(*Sampler)

// WithSinks adds batch destinations. With no sinks the send loop is idle.
func WithSinks(sinks ...Sink) Option {
	return func(s *Sampler) {
		s.sinks = append(s.sinks, sinks...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sampler) {
		s.logger = logger
	}
}

// WithClock replaces time.Now for timestamps and uptime.
func WithClock(now func() time.Time) Option {
	return func(s *Sampler) {
		s.now = now
	}
}

// New creates an idle sampler. Zero config fields take their defaults.
func New(detector provider.EmotionDetector, source capture.FrameSource, config Config, opts ...Option) *Sampler {
	def := DefaultConfig()
	if config.DetectionInterval <= 0 {
		config.DetectionInterval = def.DetectionInterval
	}
	if config.SendInterval <= 0 {
		config.SendInterval = def.SendInterval
	}
	if config.Capacity <= 0 {
		config.Capacity = def.Capacity
	}

	s := &Sampler{
		detector: detector,
		source:   source,
		config:   config,
		logger:   slog.Default(),
		now:      time.Now,
		buffer:   NewRing[domain.Reading](config.Capacity),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the frame source, checks the detector and launches both
// loops. A camera or detector failure returns domain.ErrCapabilityDenied and
// leaves the sampler idle. The loops run until Stop or until ctx is done;
// in the latter case the sampler moves to stopped on its own.
func (s *Sampler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("%w (state %s)", ErrAlreadyStarted, s.state)
	}

	if err := s.source.Open(ctx); err != nil {
		return domain.ErrCapabilityDenied.WithError(fmt.Errorf("open frame source: %w", err))
	}
	if err := s.detector.Ready(ctx); err != nil {
		_ = s.source.Close()
		return domain.ErrCapabilityDenied.WithError(fmt.Errorf("detector not ready: %w", err))
	}

	s.sessionID = s.config.SessionID
	if s.sessionID == "" {
		s.sessionID = "session_" + uuid.NewString()
	}
	s.startTime = s.now()

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		s.run(groupCtx, s.config.DetectionInterval, s.detect)
		return nil
	})
	group.Go(func() error {
		s.run(groupCtx, s.config.SendInterval, s.send)
		return nil
	})

	done := make(chan struct{})
	go s.watch(group, done)

	s.cancel = cancel
	s.done = done
	s.state = StateRunning

	s.logger.Info("sampler started",
		"session_id", s.sessionID,
		"detection_interval", s.config.DetectionInterval,
		"send_interval", s.config.SendInterval,
		"capacity", s.config.Capacity,
		"sinks", len(s.sinks),
	)
	return nil
}

// Stop cancels both loops and any in-flight detection or send, waits for
// them and releases the frame source.
func (s *Sampler) Stop() error {
	s.mu.Lock()
	if s.state != StateRunning {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrNotRunning, state)
	}
	s.state = StateStopped
	s.stopTime = s.now()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.closeSource()
	s.logger.Info("sampler stopped", "session_id", s.SessionID())
	return nil
}

// watch waits for both loops. When they end without Stop, because the Start
// context is done, it moves the sampler to stopped and releases the source.
func (s *Sampler) watch(group *errgroup.Group, done chan struct{}) {
	defer close(done)
	_ = group.Wait()

	s.mu.Lock()
	ended := s.state == StateRunning
	if ended {
		s.state = StateStopped
		s.stopTime = s.now()
	}
	sessionID := s.sessionID
	s.mu.Unlock()

	if ended {
		s.closeSource()
		s.logger.Warn("sampler loops ended without stop", "session_id", sessionID)
	}
}

func (s *Sampler) closeSource() {
	if err := s.source.Close(); err != nil {
		s.logger.Warn("failed to close frame source", "error", err)
	}
}

// Wait blocks until the loops exit, either through Stop or through the
// Start context ending.
func (s *Sampler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Sampler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sampler) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Stats returns the counters and the buffer fill.
func (s *Sampler) Stats() Status {
	s.mu.Lock()
	st := s.statsLocked()
	state := s.state
	s.mu.Unlock()

	return Status{
		Stats:            st,
		State:            state,
		IsRunning:        state == StateRunning,
		EmotionDataCount: s.buffer.Len(),
	}
}

// Latest returns up to n of the newest readings, oldest first. n <= 0
// means RecentCount.
func (s *Sampler) Latest(n int) []domain.Reading {
	if n <= 0 {
		n = RecentCount
	}
	return s.buffer.Last(n)
}

// LatestFace returns the most recent face with emotions, including its age
// and gender estimates. ok is false until one is detected.
func (s *Sampler) LatestFace() (domain.FaceData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastFace == nil {
		return domain.FaceData{}, false
	}
	return *s.lastFace, true
}

// Capacity is the buffer capacity.
func (s *Sampler) Capacity() int {
	return s.buffer.Cap()
}

// Payload builds the batch body from the current buffer.
func (s *Sampler) Payload() *Payload {
	readings := s.buffer.Snapshot()

	s.mu.Lock()
	st := s.statsLocked()
	sessionID := s.sessionID
	s.mu.Unlock()

	recent := readings
	if len(recent) > RecentCount {
		recent = recent[len(recent)-RecentCount:]
	}

	return &Payload{
		Timestamp:      s.now().UnixMilli(),
		SessionID:      sessionID,
		Stats:          st,
		RecentEmotions: recent,
		Summary:        Summarize(readings, s.config.Lang),
		Readings:       readings,
	}
}

func (s *Sampler) statsLocked() Stats {
	st := Stats{
		FrameCount:     s.frameCount,
		DetectionCount: s.detectionCount,
	}
	if s.startTime.IsZero() {
		return st
	}

	st.StartTime = s.startTime.UnixMilli()
	if !s.lastFrameTime.IsZero() {
		st.LastFrameTime = s.lastFrameTime.UnixMilli()
	}
	end := s.now()
	if !s.stopTime.IsZero() {
		end = s.stopTime
	}
	uptime := end.Sub(s.startTime)
	st.Uptime = uptime.Milliseconds()
	if secs := uptime.Seconds(); secs > 0 {
		st.FPS = int(math.Round(float64(s.frameCount) / secs))
	}
	return st
}

func (s *Sampler) run(ctx context.Context, interval time.Duration, tick func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// detect handles one detection tick. Failures are logged and the tick is
// dropped.
func (s *Sampler) detect(ctx context.Context) {
	frame, err := s.source.Frame(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("failed to grab frame", "error", err)
		}
		return
	}

	s.mu.Lock()
	s.frameCount++
	s.lastFrameTime = s.now()
	s.mu.Unlock()

	faces, err := s.detector.DetectEmotions(ctx, frame)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("emotion detection failed", "error", err)
		}
		return
	}

	face, ok := SelectFace(faces)
	if !ok {
		return
	}

	s.mu.Lock()
	s.detectionCount++
	s.mu.Unlock()

	if len(face.Emotions) == 0 {
		return
	}

	reading := domain.NewReading(s.now(), face.Emotions)
	s.buffer.Push(reading)

	data := face.FaceData()
	s.mu.Lock()
	s.lastFace = &data
	s.mu.Unlock()

	s.logger.Debug("emotion detected",
		"dominant", reading.DominantEmotion,
		"confidence", reading.Confidence,
		"faces", len(faces),
	)
}

// send handles one send tick. Each sink gets the same payload concurrently;
// failures are logged and not retried.
func (s *Sampler) send(ctx context.Context) {
	if len(s.sinks) == 0 || s.buffer.Len() == 0 {
		return
	}

	payload := s.Payload()

	var group errgroup.Group
	for _, sink := range s.sinks {
		group.Go(func() error {
			if err := sink.Send(ctx, payload); err != nil {
				if ctx.Err() == nil {
					s.logger.Error("failed to send batch", "sink", sinkName(sink), "error", err)
				}
				return nil
			}
			s.logger.Debug("batch sent",
				"sink", sinkName(sink),
				"readings", payload.Summary.TotalReadings,
			)
			return nil
		})
	}
	_ = group.Wait()
}
