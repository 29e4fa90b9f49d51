package ws

import "time"

type EventType string

const (
	EventBatchSent    EventType = "batch.sent"
	EventSamplerState EventType = "sampler.state"
)

type Event struct {
	SessionID string      `json:"session_id"`
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
