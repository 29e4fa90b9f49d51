package mqttsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/sampler"
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Config holds the broker connection and publish settings
type Config struct {
	BrokerURL      string
	ClientID       string
	Topic          string
	QoS            byte
	ConnectTimeout time.Duration
	PublishTimeout time.Duration
}

// DefaultConfig returns QoS 0 publishing with short timeouts.
func DefaultConfig(brokerURL, topic, clientID string) Config {
	return Config{
		BrokerURL:      brokerURL,
		ClientID:       clientID,
		Topic:          topic,
		QoS:            0,
		ConnectTimeout: 30 * time.Second,
		PublishTimeout: 5 * time.Second,
	}
}

// Publisher is the part of mqtt.Client the sink uses.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Sink publishes every batch payload as JSON to one topic.
type Sink struct {
	publisher Publisher
	client    mqtt.Client
	config    Config
}

// Connect dials the broker. The client reconnects on its own after a lost
// connection; publishes in between fail and are logged by the sampler.
func Connect(config Config, logger *slog.Logger) (*Sink, error) {
	opts := mqtt.NewClientOptions().AddBroker(config.BrokerURL).SetClientID(config.ClientID)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(5 * time.Second)
	opts.SetConnectTimeout(config.ConnectTimeout)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(mqtt.Client) {
		logger.Info("connected to mqtt broker", "broker", config.BrokerURL, "topic", config.Topic)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to %s: %w", config.BrokerURL, token.Error())
	}

	s := New(client, config)
	s.client = client
	return s, nil
}

// New wraps an existing publisher.
func New(publisher Publisher, config Config) *Sink {
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = 5 * time.Second
	}
	return &Sink{publisher: publisher, config: config}
}

func (s *Sink) Name() string {
	return "mqtt"
}

// Send publishes the payload and waits for the broker acknowledgement of
// the configured QoS, bounded by PublishTimeout and ctx.
func (s *Sink) Send(ctx context.Context, payload *sampler.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	timeout := s.config.PublishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}

	token := s.publisher.Publish(s.config.Topic, s.config.QoS, false, body)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("%w after %s", ErrPublishTimeout, timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", s.config.Topic, err)
	}
	return nil
}

// Close disconnects a client created by Connect.
func (s *Sink) Close() {
	if s.client != nil {
		s.client.Disconnect(250)
	}
}

var _ sampler.Sink = (*Sink)(nil)
