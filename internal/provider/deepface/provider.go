package deepface

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/provider"
)

const (
	// minFaceArea is the minimum face area (in pixels²) for reliable detection
	minFaceArea = 2500 // 50x50 pixels
	// maxFaceArea is used for confidence scaling
	maxFaceArea = 250000 // 500x500 pixels
)

// DeepFace emotion keys that differ from ours.
var emotionLabels = map[string]string{
	"disgust":  domain.EmotionDisgusted,
	"fear":     domain.EmotionFearful,
	"surprise": domain.EmotionSurprised,
}

var genderLabels = map[string]string{
	"man":   "male",
	"woman": "female",
}

// Provider implements provider.EmotionDetector using DeepFace API
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// DetectEmotions analyzes the frame. A frame without a face yields no
// faces and no error.
func (p *Provider) DetectEmotions(ctx context.Context, frame []byte) ([]provider.DetectedFace, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(frame)

	resp, err := p.client.Analyze(ctx, imageBase64)
	if err != nil {
		if isNoFace(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("detect emotions: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Results))
	for _, result := range resp.Results {
		faceArea := float64(result.Region.W * result.Region.H)
		confidence := result.FaceConfidence
		if confidence <= 0 {
			confidence = calculateConfidence(faceArea)
		}

		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X:      float64(result.Region.X),
				Y:      float64(result.Region.Y),
				Width:  float64(result.Region.W),
				Height: float64(result.Region.H),
			},
			Confidence: confidence,
			Emotions:   normalizeEmotions(result.Emotion),
			Age:        result.Age,
			Gender:     normalizeGender(result.DominantGender),
		})
	}

	return faces, nil
}

// Ready probes the service.
func (p *Provider) Ready(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// normalizeEmotions maps DeepFace percentages to [0,1] fractions keyed by
// our labels.
func normalizeEmotions(in map[string]float64) domain.Emotions {
	out := make(domain.Emotions, len(in))
	for k, v := range in {
		label := strings.ToLower(k)
		if mapped, ok := emotionLabels[label]; ok {
			label = mapped
		}
		out[label] = math.Max(0, math.Min(1, v/100))
	}
	return out
}

func normalizeGender(g string) string {
	if mapped, ok := genderLabels[strings.ToLower(g)]; ok {
		return mapped
	}
	return strings.ToLower(g)
}

// isNoFace matches DeepFace's enforce_detection rejection.
func isNoFace(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == 400 && strings.Contains(strings.ToLower(se.Body), "face could not be detected")
}

// calculateConfidence estimates confidence based on face area
// Older DeepFace releases don't return face_confidence, so we estimate
// based on face size
func calculateConfidence(faceArea float64) float64 {
	if faceArea < minFaceArea {
		return 0.5 // Low confidence for very small faces
	}
	// Scale from 0.7 to 0.99 based on face area
	normalized := math.Min(1.0, (faceArea-minFaceArea)/(maxFaceArea-minFaceArea))
	return 0.7 + (normalized * 0.29)
}

// Ensure Provider implements provider.EmotionDetector
var _ provider.EmotionDetector = (*Provider)(nil)
