package rekognition

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
)

// Rekognition emotion types mapped to our labels. UNKNOWN is dropped;
// CONFUSED has no counterpart and is kept under its own name.
var emotionLabels = map[types.EmotionName]string{
	types.EmotionNameHappy:     domain.EmotionHappy,
	types.EmotionNameSad:       domain.EmotionSad,
	types.EmotionNameAngry:     domain.EmotionAngry,
	types.EmotionNameFear:      domain.EmotionFearful,
	types.EmotionNameDisgusted: domain.EmotionDisgusted,
	types.EmotionNameSurprised: domain.EmotionSurprised,
	types.EmotionNameCalm:      domain.EmotionNeutral,
	types.EmotionNameConfused:  "confused",
}

// Provider implements provider.EmotionDetector using AWS Rekognition DetectFaces
type Provider struct {
	client *Client
}

// Ensure Provider implements provider.EmotionDetector interface at compile time
var _ provider.EmotionDetector = (*Provider)(nil)

// NewProvider creates a new Rekognition provider
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}
	return &Provider{client: client}, nil
}

// validateImage checks if image data is valid for Rekognition processing
func validateImage(image []byte) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}
	if len(image) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(image), minImageSize)
	}
	if len(image) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}
	return nil
}

// DetectEmotions runs DetectFaces with all attributes. Faces come back in
// Rekognition's order; an image without faces is not an error.
func (p *Provider) DetectEmotions(ctx context.Context, frame []byte) ([]provider.DetectedFace, error) {
	if err := validateImage(frame); err != nil {
		return nil, err
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: frame,
		},
		Attributes: []types.Attribute{types.AttributeAll},
	}

	output, err := p.client.api.DetectFaces(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", translateError(err))
	}

	faces := make([]provider.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		confidence := float64(aws.ToFloat32(detail.Confidence)) / 100
		if confidence < p.client.config.MinFaceConfidence {
			continue
		}
		faces = append(faces, convertFace(detail, confidence))
	}

	return faces, nil
}

// Ready checks that AWS credentials resolve.
func (p *Provider) Ready(ctx context.Context) error {
	return p.client.CheckCredentials(ctx)
}

func convertFace(detail types.FaceDetail, confidence float64) provider.DetectedFace {
	face := provider.DetectedFace{
		Confidence: confidence,
		Emotions:   convertEmotions(detail.Emotions),
	}

	if bb := detail.BoundingBox; bb != nil {
		face.BoundingBox = provider.BoundingBox{
			X:      float64(aws.ToFloat32(bb.Left)),
			Y:      float64(aws.ToFloat32(bb.Top)),
			Width:  float64(aws.ToFloat32(bb.Width)),
			Height: float64(aws.ToFloat32(bb.Height)),
		}
	}

	if ar := detail.AgeRange; ar != nil && ar.High != nil {
		face.Age = float64(aws.ToInt32(ar.Low)+aws.ToInt32(ar.High)) / 2
	}

	if g := detail.Gender; g != nil && g.Value != "" {
		face.Gender = strings.ToLower(string(g.Value))
	}

	if pose := detail.Pose; pose != nil {
		face.Pose = &provider.Pose{
			Pitch: float64(aws.ToFloat32(pose.Pitch)),
			Roll:  float64(aws.ToFloat32(pose.Roll)),
			Yaw:   float64(aws.ToFloat32(pose.Yaw)),
		}
	}

	for _, lm := range detail.Landmarks {
		face.Landmarks = append(face.Landmarks, [2]float64{
			float64(aws.ToFloat32(lm.X)),
			float64(aws.ToFloat32(lm.Y)),
		})
	}

	return face
}

// convertEmotions maps Rekognition percentages to [0,1] fractions.
func convertEmotions(in []types.Emotion) domain.Emotions {
	out := make(domain.Emotions, len(in))
	for _, e := range in {
		label, ok := emotionLabels[e.Type]
		if !ok {
			continue
		}
		out[label] = float64(aws.ToFloat32(e.Confidence)) / 100
	}
	return out
}
