package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/api"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/archive"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/backend"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/capture"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/config"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/database"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/face"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/mqttsink"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/sampler"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateSampler(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting moodwatch sampler",
		slog.String("environment", cfg.Environment),
		slog.String("provider", cfg.FaceProvider),
		slog.Duration("detection_interval", cfg.DetectionInterval),
		slog.Duration("send_interval", cfg.SendInterval),
		slog.Int("capacity", cfg.BufferCapacity),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detector, err := face.NewEmotionDetector(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create detector: %w", err)
	}

	checks := map[string]handler.ReadinessCheck{}
	var sinks []sampler.Sink

	if cfg.SinkURL != "" {
		sinks = append(sinks, sampler.NewHTTPSink(sampler.HTTPSinkConfig{
			URL:    cfg.SinkURL,
			Secret: cfg.SinkSecret,
		}))
		logger.Info("http sink enabled", slog.String("url", cfg.SinkURL))
	}

	if cfg.MQTTBrokerURL != "" {
		mq, err := mqttsink.Connect(mqttsink.DefaultConfig(cfg.MQTTBrokerURL, cfg.MQTTTopic, cfg.MQTTClientID), logger)
		if err != nil {
			return fmt.Errorf("failed to connect mqtt: %w", err)
		}
		defer mq.Close()
		sinks = append(sinks, mq)
	}

	var store *archive.Store
	if cfg.ArchiveDatabaseURL != "" {
		pool, err := database.NewPgxPool(ctx, database.DefaultPoolConfig(cfg.ArchiveDatabaseURL))
		if err != nil {
			return fmt.Errorf("failed to connect archive: %w", err)
		}
		defer pool.Close()

		store = archive.New(pool)
		sinks = append(sinks, store)
		checks["archive"] = func(ctx context.Context) error {
			return database.HealthCheck(ctx, pool)
		}
		logger.Info("archive sink enabled")
	}

	hub := ws.NewHub()
	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	go hub.Run(hubCtx)
	sinks = append(sinks, hub)

	samplerCfg := sampler.Config{
		DetectionInterval: cfg.DetectionInterval,
		SendInterval:      cfg.SendInterval,
		Capacity:          cfg.BufferCapacity,
		SessionID:         cfg.SessionID,
		Lang:              cfg.SummaryLang,
	}
	s := sampler.New(detector, newFrameSource(cfg), samplerCfg,
		sampler.WithSinks(sinks...),
		sampler.WithLogger(logger),
	)

	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sampler: %w", err)
	}
	hub.Publish(s.SessionID(), ws.EventSamplerState, map[string]string{"state": string(s.State())})

	var recorder *backend.Recorder
	if cfg.BackendSession {
		recorder, err = newRecorder(cfg, s, logger)
		if err != nil {
			_ = s.Stop()
			return err
		}
		if err := recorder.Start(ctx); err != nil {
			_ = s.Stop()
			return fmt.Errorf("failed to start backend session: %w", err)
		}
	}

	checks["sampler"] = func(ctx context.Context) error {
		if s.State() != sampler.StateRunning {
			return sampler.ErrNotRunning
		}
		return nil
	}

	deps := &api.Dependencies{
		Sampler:   s,
		Hub:       hub,
		Checks:    checks,
		RateLimit: cfg.StatusRateLimit,
	}
	if store != nil {
		deps.Archive = store
	}

	router := api.NewRouter(logger, deps)
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.StatusPort)
		logger.Info("status server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		stopRecorder(recorder, logger)
		_ = s.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	stopRecorder(recorder, logger)
	// The signal context also ends the sampler loops, so it may already be stopped.
	if err := s.Stop(); err != nil && !errors.Is(err, sampler.ErrNotRunning) {
		logger.Error("sampler stop error", slog.Any("error", err))
	}
	s.Wait()
	hub.Publish(s.SessionID(), ws.EventSamplerState, map[string]string{"state": string(s.State())})

	// Let the final state event reach subscribers before the hub closes them.
	time.Sleep(100 * time.Millisecond)

	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	logger.Info("sampler stopped",
		slog.Int64("frames", s.Stats().FrameCount),
		slog.Int64("detections", s.Stats().DetectionCount),
	)
	return nil
}

func newFrameSource(cfg *config.Config) capture.FrameSource {
	if cfg.FrameSourceURL != "" {
		return capture.NewSnapshotSource(capture.DefaultSnapshotConfig(cfg.FrameSourceURL))
	}
	return capture.NewDirSource(cfg.FrameDir)
}

func newRecorder(cfg *config.Config, s *sampler.Sampler, logger *slog.Logger) (*backend.Recorder, error) {
	path := cfg.TokenFile
	if path == "" {
		p, err := backend.DefaultTokenPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve token file: %w", err)
		}
		path = p
	}

	client := backend.NewClient(backend.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
	}, backend.WithTokenStore(backend.NewFileTokenStore(path)), backend.WithLogger(logger))

	return backend.NewRecorder(client, cfg.AutoSaveInterval, s.LatestFace), nil
}

func stopRecorder(r *backend.Recorder, logger *slog.Logger) {
	if r == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Stop(ctx); err != nil {
		logger.Error("failed to end backend session", slog.Any("error", err))
	}
}
