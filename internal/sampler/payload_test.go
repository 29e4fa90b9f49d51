package sampler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

func reading(dominant string, confidence float64) domain.Reading {
	return domain.Reading{DominantEmotion: dominant, Confidence: confidence}
}

func TestSummarize_Empty(t *testing.T) {
	assert.Nil(t, Summarize(nil, ""))
}

func TestSummarize(t *testing.T) {
	readings := []domain.Reading{
		reading("happy", 0.9),
		reading("sad", 0.6),
		reading("happy", 0.75),
	}

	s := Summarize(readings, "")
	require.NotNil(t, s)

	assert.Equal(t, "happy", s.MostFrequentEmotion)
	assert.Equal(t, 75.0, s.AverageConfidence)
	assert.Equal(t, 3, s.TotalReadings)
	assert.Equal(t, map[string]int{
		"happy": 2, "sad": 1, "angry": 0, "surprised": 0,
		"fearful": 0, "disgusted": 0, "neutral": 0,
	}, s.EmotionDistribution)
}

func TestSummarize_RoundsToOneDecimal(t *testing.T) {
	s := Summarize([]domain.Reading{reading("happy", 0.8123), reading("happy", 0.9)}, "")
	assert.Equal(t, 85.6, s.AverageConfidence)
}

func TestSummarize_TieGoesToLaterLabel(t *testing.T) {
	tests := []struct {
		name     string
		readings []domain.Reading
		want     string
	}{
		{
			name:     "happy and sad",
			readings: []domain.Reading{reading("happy", 1), reading("sad", 1)},
			want:     "sad",
		},
		{
			name:     "sad and neutral",
			readings: []domain.Reading{reading("neutral", 1), reading("sad", 1)},
			want:     "neutral",
		},
		{
			name:     "extra label ranks last",
			readings: []domain.Reading{reading("confused", 1), reading("neutral", 1)},
			want:     "confused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.readings, "").MostFrequentEmotion)
		})
	}
}

func TestSummarize_Arabic(t *testing.T) {
	s := Summarize([]domain.Reading{reading("happy", 1)}, "ar")
	assert.Equal(t, "سعيد", s.MostFrequentEmotion)
	assert.Contains(t, s.EmotionDistribution, "happy")
}

func TestSampler_Payload(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	now := start
	s := New(&fakeDetector{}, &fakeSource{}, Config{Capacity: 20, SessionID: "session_fixed"},
		WithClock(func() time.Time { return now }))
	s.startTime = start

	for i := 0; i < 15; i++ {
		s.buffer.Push(domain.NewReading(start.Add(time.Duration(i)*time.Millisecond), domain.Emotions{"happy": 0.9, "sad": 0.1}))
	}
	s.sessionID = "session_fixed"
	s.frameCount = 30
	now = start.Add(2 * time.Second)

	p := s.Payload()

	assert.Equal(t, now.UnixMilli(), p.Timestamp)
	assert.Equal(t, "session_fixed", p.SessionID)
	assert.Len(t, p.RecentEmotions, RecentCount)
	assert.Equal(t, start.Add(5*time.Millisecond).UnixMilli(), p.RecentEmotions[0].Timestamp)
	require.NotNil(t, p.Summary)
	assert.Equal(t, 15, p.Summary.TotalReadings)
	assert.Equal(t, int64(2000), p.Stats.Uptime)
	assert.Equal(t, 15, p.Stats.FPS)
	assert.Equal(t, start.UnixMilli(), p.Stats.StartTime)

	require.Len(t, p.Readings, 15)
	assert.Equal(t, start.UnixMilli(), p.Readings[0].Timestamp)

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"readings"`)
}
