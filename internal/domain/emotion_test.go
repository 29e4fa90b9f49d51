package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmotions_Dominant(t *testing.T) {
	tests := []struct {
		name           string
		emotions       Emotions
		wantLabel      string
		wantConfidence float64
	}{
		{
			name:           "clear argmax",
			emotions:       Emotions{"happy": 0.9, "neutral": 0.05, "sad": 0.05},
			wantLabel:      "happy",
			wantConfidence: 0.9,
		},
		{
			name:           "tie goes to later label in detection order",
			emotions:       Emotions{"neutral": 0.5, "happy": 0.5},
			wantLabel:      "happy",
			wantConfidence: 0.5,
		},
		{
			name:           "unknown label competes after canonical ones",
			emotions:       Emotions{"confused": 0.6, "sad": 0.4},
			wantLabel:      "confused",
			wantConfidence: 0.6,
		},
		{
			name:      "empty mapping",
			emotions:  Emotions{},
			wantLabel: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, conf := tt.emotions.Dominant()
			assert.Equal(t, tt.wantLabel, label)
			assert.InDelta(t, tt.wantConfidence, conf, 1e-9)
		})
	}
}

func TestEmotions_DominantIsStable(t *testing.T) {
	e := Emotions{"angry": 0.3, "fearful": 0.3, "sad": 0.3, "neutral": 0.1}
	first, _ := e.Dominant()
	for i := 0; i < 50; i++ {
		got, _ := e.Dominant()
		assert.Equal(t, first, got)
	}
	assert.Equal(t, "fearful", first)
}

func TestEmotions_Vector(t *testing.T) {
	v := Emotions{"happy": 0.75, "surprised": 0.25}.Vector()

	assert.Len(t, v, 7)
	assert.InDelta(t, 0.0, v[0], 1e-6)
	assert.InDelta(t, 0.75, v[1], 1e-6)
	assert.InDelta(t, 0.25, v[6], 1e-6)
}

func TestEmotionLabel(t *testing.T) {
	assert.Equal(t, "سعيد", EmotionLabel("happy", "ar"))
	assert.Equal(t, "happy", EmotionLabel("happy", "en"))
	assert.Equal(t, "bored", EmotionLabel("bored", "ar"))
	assert.Equal(t, "أنثى", GenderLabel("female", "ar"))
	assert.Equal(t, "other", GenderLabel("other", "ar"))
	assert.Equal(t, "neutral", CanonicalEmotion("محايد"))
	assert.Equal(t, "happy", CanonicalEmotion("happy"))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{65, "1:05"},
		{3600, "60:00"},
		{-3, "0:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds))
	}
}

func TestNewReading(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	src := Emotions{"happy": 0.9, "neutral": 0.05, "sad": 0.05}

	r := NewReading(at, src)
	src["happy"] = 0

	assert.Equal(t, int64(1700000000123), r.Timestamp)
	assert.Equal(t, "happy", r.DominantEmotion)
	assert.InDelta(t, 0.9, r.Confidence, 1e-9)
	assert.InDelta(t, 0.9, r.Emotions["happy"], 1e-9, "reading must not alias the input map")
	assert.True(t, r.Time().Equal(at))
}

func TestNewSnapshot(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	s := NewSnapshot("sess-1", at, FaceData{
		Emotions: Emotions{"sad": 0.7, "neutral": 0.3},
		Age:      31.6,
		Gender:   "male",
	})

	assert.Equal(t, "sess-1", s.SessionID)
	assert.Equal(t, "2024-05-01T10:00:00Z", s.Timestamp)
	assert.Equal(t, "sad", s.DominantEmotion)
	if assert.NotNil(t, s.Age) {
		assert.InDelta(t, 31.6, *s.Age, 1e-9)
	}
	if assert.NotNil(t, s.Gender) {
		assert.Equal(t, "male", *s.Gender)
	}
	assert.NotNil(t, s.FaceLandmarks)
	assert.Equal(t, 0.8, s.ConfidenceScores["emotion"])
	assert.Equal(t, 0.7, s.ConfidenceScores["age"])
	assert.Equal(t, 0.9, s.ConfidenceScores["gender"])

	empty := NewSnapshot("sess-1", at, FaceData{Emotions: Emotions{"happy": 1}})
	assert.Nil(t, empty.Age)
	assert.Nil(t, empty.Gender)
}
