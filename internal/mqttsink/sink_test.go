package mqttsink

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/sampler"
)

type fakeToken struct {
	complete bool
	err      error
}

func (t *fakeToken) Wait() bool                     { return t.complete }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.complete }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.complete {
		close(ch)
	}
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type fakePublisher struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
	token    *fakeToken
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.topic = topic
	f.qos = qos
	f.retained = retained
	f.payload = payload.([]byte)
	return f.token
}

func TestSink_Send(t *testing.T) {
	pub := &fakePublisher{token: &fakeToken{complete: true}}
	cfg := DefaultConfig("tcp://localhost:1883", "moodwatch/emotions", "test")
	cfg.QoS = 1
	sink := New(pub, cfg)

	err := sink.Send(context.Background(), &sampler.Payload{SessionID: "session_1", Timestamp: 42})
	require.NoError(t, err)

	assert.Equal(t, "moodwatch/emotions", pub.topic)
	assert.Equal(t, byte(1), pub.qos)
	assert.False(t, pub.retained)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(pub.payload, &decoded))
	assert.Equal(t, "session_1", decoded["sessionId"])
	assert.Nil(t, decoded["summary"])
}

func TestSink_SendErrors(t *testing.T) {
	tests := []struct {
		name    string
		token   *fakeToken
		wantErr error
	}{
		{
			name:    "timeout",
			token:   &fakeToken{complete: false},
			wantErr: ErrPublishTimeout,
		},
		{
			name:  "broker error",
			token: &fakeToken{complete: true, err: errors.New("not connected")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := New(&fakePublisher{token: tt.token}, DefaultConfig("tcp://x:1883", "t", "c"))

			err := sink.Send(context.Background(), &sampler.Payload{})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSink_Name(t *testing.T) {
	assert.Equal(t, "mqtt", New(&fakePublisher{}, Config{}).Name())
}
