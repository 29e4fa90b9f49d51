package mock

import (
	"context"
	"crypto/sha256"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/provider"
)

// minFrameSize below which a frame is treated as containing no face
const minFrameSize = 1000

// Provider implementa provider.EmotionDetector para testes e desenvolvimento.
// The same frame always yields the same emotions.
type Provider struct {
	notReady error
}

// New cria uma nova instância do MockProvider
func New() *Provider {
	return &Provider{}
}

// NewUnavailable returns a provider whose Ready fails with err.
func NewUnavailable(err error) *Provider {
	return &Provider{notReady: err}
}

// DetectEmotions derives a normalized emotion mapping from the frame hash.
func (p *Provider) DetectEmotions(ctx context.Context, frame []byte) ([]provider.DetectedFace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(frame) < minFrameSize {
		return nil, nil
	}

	return []provider.DetectedFace{
		{
			BoundingBox: provider.BoundingBox{
				X:      0.1,
				Y:      0.1,
				Width:  0.8,
				Height: 0.8,
			},
			Confidence: 0.99,
			Emotions:   generateEmotions(frame),
			Age:        float64(20 + sha256.Sum256(frame)[0]%40),
			Gender:     "female",
		},
	}, nil
}

// Ready reports the configured readiness.
func (p *Provider) Ready(ctx context.Context) error {
	return p.notReady
}

// generateEmotions gera probabilidades determinísticas baseadas no hash do frame
func generateEmotions(frame []byte) domain.Emotions {
	hash := sha256.Sum256(frame)

	weights := make([]float64, len(domain.DetectionOrder))
	total := 0.0
	for i := range weights {
		weights[i] = float64(hash[i]) + 1
		total += weights[i]
	}

	emotions := make(domain.Emotions, len(weights))
	for i, label := range domain.DetectionOrder {
		emotions[label] = weights[i] / total
	}
	return emotions
}

var _ provider.EmotionDetector = (*Provider)(nil)
