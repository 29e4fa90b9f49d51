package provider

import (
	"context"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

// EmotionDetector is the face-expression capability used by the sampler.
type EmotionDetector interface {
	// DetectEmotions returns the faces found in frame in the engine's order.
	// Emotions are normalized to [0,1] and to the labels in domain.DetectionOrder.
	DetectEmotions(ctx context.Context, frame []byte) ([]DetectedFace, error)

	// Ready fails when the engine cannot serve detections (model not loaded,
	// credentials rejected, service down).
	Ready(ctx context.Context) error
}

// DetectedFace represents a detected face in the frame
type DetectedFace struct {
	BoundingBox BoundingBox     `json:"bounding_box"`
	Confidence  float64         `json:"confidence"`
	Emotions    domain.Emotions `json:"emotions"`
	Age         float64         `json:"age,omitempty"`
	Gender      string          `json:"gender,omitempty"`
	Pose        *Pose           `json:"pose,omitempty"`
	Landmarks   [][2]float64    `json:"landmarks,omitempty"`
}

// FaceData strips the geometry from the face.
func (f DetectedFace) FaceData() domain.FaceData {
	return domain.FaceData{
		Emotions:  f.Emotions,
		Age:       f.Age,
		Gender:    f.Gender,
		Landmarks: f.Landmarks,
	}
}

// Pose represents face orientation angles
type Pose struct {
	Pitch float64 `json:"pitch"` // up/down rotation
	Roll  float64 `json:"roll"`  // tilted rotation
	Yaw   float64 `json:"yaw"`   // left/right rotation
}

// BoundingBox represents the face area in the image
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
