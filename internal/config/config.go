package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"development"`

	// Backend API
	APIBaseURL       string        `envconfig:"API_BASE_URL" default:"http://localhost:5000"`
	APITimeout       time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	TokenFile        string        `envconfig:"TOKEN_FILE"`
	AutoSaveInterval time.Duration `envconfig:"AUTO_SAVE_INTERVAL" default:"5s"`
	BackendSession   bool          `envconfig:"BACKEND_SESSION" default:"false"`

	// Sampler
	DetectionInterval time.Duration `envconfig:"DETECTION_INTERVAL" default:"100ms"`
	SendInterval      time.Duration `envconfig:"SEND_INTERVAL" default:"100ms"`
	BufferCapacity    int           `envconfig:"BUFFER_CAPACITY" default:"100"`
	SessionID         string        `envconfig:"SESSION_ID"`
	SummaryLang       string        `envconfig:"SUMMARY_LANG" default:"en"`

	// Sinks
	SinkURL            string `envconfig:"SINK_URL"`
	SinkSecret         string `envconfig:"SINK_SECRET"`
	MQTTBrokerURL      string `envconfig:"MQTT_BROKER_URL"`
	MQTTTopic          string `envconfig:"MQTT_TOPIC" default:"moodwatch/emotions"`
	MQTTClientID       string `envconfig:"MQTT_CLIENT_ID" default:"moodwatch-sampler"`
	ArchiveDatabaseURL string `envconfig:"ARCHIVE_DATABASE_URL"`

	// Provider
	FaceProvider string `envconfig:"FACE_PROVIDER" default:"deepface"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Frame source
	FrameSourceURL string `envconfig:"FRAME_SOURCE_URL"`
	FrameDir       string `envconfig:"FRAME_DIR"`

	// Status server
	StatusPort      int `envconfig:"STATUS_PORT" default:"3000"`
	StatusRateLimit int `envconfig:"STATUS_RATE_LIMIT" default:"600"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// ValidateSampler checks the settings the sampler daemon cannot run without.
func (c *Config) ValidateSampler() error {
	if c.FrameSourceURL == "" && c.FrameDir == "" {
		return fmt.Errorf("one of FRAME_SOURCE_URL or FRAME_DIR is required")
	}
	if c.FrameSourceURL != "" && c.FrameDir != "" {
		return fmt.Errorf("FRAME_SOURCE_URL and FRAME_DIR are mutually exclusive")
	}
	if c.DetectionInterval <= 0 || c.SendInterval <= 0 {
		return fmt.Errorf("DETECTION_INTERVAL and SEND_INTERVAL must be positive")
	}
	if c.BufferCapacity <= 0 {
		return fmt.Errorf("BUFFER_CAPACITY must be positive, got %d", c.BufferCapacity)
	}
	if c.SummaryLang != "en" && c.SummaryLang != "ar" {
		return fmt.Errorf("SUMMARY_LANG must be en or ar, got %q", c.SummaryLang)
	}
	switch c.FaceProvider {
	case "deepface", "rekognition", "mock":
	default:
		return fmt.Errorf("unknown FACE_PROVIDER %q", c.FaceProvider)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
