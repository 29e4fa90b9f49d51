package domain

import "time"

// Reading is one detection result for the selected face. Readings are never
// mutated after construction.
type Reading struct {
	Timestamp       int64    `json:"timestamp"`
	Emotions        Emotions `json:"emotions"`
	DominantEmotion string   `json:"dominantEmotion"`
	Confidence      float64  `json:"confidence"`
}

// NewReading builds a reading from an emotion mapping. The mapping is copied.
func NewReading(at time.Time, emotions Emotions) Reading {
	cp := make(Emotions, len(emotions))
	for k, v := range emotions {
		cp[k] = v
	}
	dominant, confidence := cp.Dominant()
	return Reading{
		Timestamp:       at.UnixMilli(),
		Emotions:        cp,
		DominantEmotion: dominant,
		Confidence:      confidence,
	}
}

func (r Reading) Time() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}

// FaceData is what the detection step knows about a face beyond its
// emotions. Zero values mean unknown.
type FaceData struct {
	Emotions  Emotions     `json:"emotions"`
	Age       float64      `json:"age,omitempty"`
	Gender    string       `json:"gender,omitempty"`
	Landmarks [][2]float64 `json:"landmarks,omitempty"`
}

// Snapshot is the body of an emotion snapshot upload.
type Snapshot struct {
	SessionID        string             `json:"session_id"`
	Timestamp        string             `json:"timestamp"`
	DominantEmotion  string             `json:"dominant_emotion"`
	EmotionScores    Emotions           `json:"emotion_scores"`
	Age              *float64           `json:"age"`
	Gender           *string            `json:"gender"`
	FaceLandmarks    [][2]float64       `json:"face_landmarks"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
}

// Default confidence attached to snapshots when the engine reports none.
const (
	DefaultEmotionConfidence = 0.8
	DefaultAgeConfidence     = 0.7
	DefaultGenderConfidence  = 0.9
)

// NewSnapshot derives the upload body from face data.
func NewSnapshot(sessionID string, at time.Time, face FaceData) Snapshot {
	dominant, _ := face.Emotions.Dominant()
	s := Snapshot{
		SessionID:       sessionID,
		Timestamp:       at.UTC().Format(time.RFC3339Nano),
		DominantEmotion: dominant,
		EmotionScores:   face.Emotions,
		FaceLandmarks:   face.Landmarks,
		ConfidenceScores: map[string]float64{
			"emotion": DefaultEmotionConfidence,
			"age":     DefaultAgeConfidence,
			"gender":  DefaultGenderConfidence,
		},
	}
	if face.Age > 0 {
		age := face.Age
		s.Age = &age
	}
	if face.Gender != "" {
		g := face.Gender
		s.Gender = &g
	}
	if s.FaceLandmarks == nil {
		s.FaceLandmarks = [][2]float64{}
	}
	return s
}
