package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/config"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/provider"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/provider/rekognition"
)

// ProviderType defines supported emotion detection provider types
type ProviderType string

const (
	// ProviderTypeDeepFace is the DeepFace provider (local HTTP service)
	ProviderTypeDeepFace ProviderType = "deepface"
	// ProviderTypeRekognition is the AWS Rekognition provider (cloud)
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock derives emotions from the frame bytes
	ProviderTypeMock ProviderType = "mock"
)

// NewEmotionDetector creates an EmotionDetector based on configuration.
//
// Environment variables:
//   - FACE_PROVIDER: "deepface", "rekognition" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5005")
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY: via the AWS SDK credential chain
func NewEmotionDetector(ctx context.Context, cfg *config.Config) (provider.EmotionDetector, error) {
	switch ProviderType(cfg.FaceProvider) {
	case ProviderTypeRekognition:
		return createRekognitionProvider(ctx, cfg)

	case ProviderTypeDeepFace, "":
		return createDeepFaceProvider(cfg), nil

	case ProviderTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.FaceProvider, ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}

// createRekognitionProvider creates an AWS Rekognition provider instance
func createRekognitionProvider(ctx context.Context, cfg *config.Config) (provider.EmotionDetector, error) {
	rekogConfig := rekognition.DefaultConfig()
	if cfg.AWSRegion != "" {
		rekogConfig.Region = cfg.AWSRegion
	}

	prov, err := rekognition.NewProvider(ctx, rekogConfig)
	if err != nil {
		return nil, fmt.Errorf("create rekognition provider in %s: %w", rekogConfig.Region, err)
	}

	return prov, nil
}

// createDeepFaceProvider creates a DeepFace provider instance
func createDeepFaceProvider(cfg *config.Config) provider.EmotionDetector {
	deepfaceConfig := deepface.DefaultConfig()
	if cfg.DeepFaceURL != "" {
		deepfaceConfig.BaseURL = cfg.DeepFaceURL
	}

	return deepface.NewProvider(deepfaceConfig)
}
