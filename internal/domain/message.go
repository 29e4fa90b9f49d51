package domain

import (
	"strings"
	"time"
)

// HistoryPoint is one sample of the per-message emotion history.
type HistoryPoint struct {
	Timestamp         string             `json:"timestamp"`
	EmotionPercentage map[string]float64 `json:"emotion_percentage"`
}

// Message is a chat message annotated with the sender's emotional state.
type Message struct {
	ID                ID             `json:"id,omitempty"`
	UserID            ID             `json:"user_id,omitempty"`
	Timestamp         string         `json:"timestamp"`
	SenderName        string         `json:"sender_name,omitempty"`
	Gender            string         `json:"gender,omitempty"`
	ApproximateAge    int            `json:"approximate_age,omitempty"`
	DominantEmotion   string         `json:"dominant_emotion,omitempty"`
	EmotionHistory20s []HistoryPoint `json:"emotion_history_20s,omitempty"`
	MessageContent    string         `json:"message_content"`
}

// Time parses the message timestamp. Both RFC3339 and the backend's
// naive ISO format (no zone, interpreted as UTC) are accepted.
func (m Message) Time() (time.Time, error) {
	return ParseTimestamp(m.Timestamp)
}

// Sender returns the user-creation payload implied by the message.
func (m Message) Sender() NewUser {
	return NewUser{
		Name:           m.SenderName,
		Gender:         m.Gender,
		ApproximateAge: m.ApproximateAge,
	}
}

func (m Message) Validate() error {
	if strings.TrimSpace(m.MessageContent) == "" {
		return ErrValidationFailed.WithMessage("message_content is required", 422)
	}
	if m.Timestamp != "" {
		if _, err := m.Time(); err != nil {
			return ErrValidationFailed.WithMessage("timestamp must be ISO-8601", 422)
		}
	}
	return nil
}

// MessageUpdate carries the mutable message fields.
type MessageUpdate struct {
	MessageContent  *string `json:"message_content,omitempty"`
	DominantEmotion *string `json:"dominant_emotion,omitempty"`
}

// HistoryEntry is a persisted emotion-history record.
type HistoryEntry struct {
	ID                ID                 `json:"id"`
	MessageID         ID                 `json:"message_id,omitempty"`
	UserID            ID                 `json:"user_id,omitempty"`
	Timestamp         string             `json:"timestamp"`
	EmotionPercentage map[string]float64 `json:"emotion_percentage"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts the timestamp formats the backend produces.
func ParseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
