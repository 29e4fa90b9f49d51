package face_test

import (
	"context"
	"fmt"
	"log"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/config"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/face"
)

// ExampleNewEmotionDetector_mock demonstrates the deterministic detector used in development
func ExampleNewEmotionDetector_mock() {
	ctx := context.Background()

	cfg := &config.Config{FaceProvider: "mock"}

	detector, err := face.NewEmotionDetector(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to create detector: %v", err)
	}

	frame := make([]byte, 4096)
	faces, err := detector.DetectEmotions(ctx, frame)
	if err != nil {
		log.Fatalf("failed to detect emotions: %v", err)
	}

	fmt.Printf("Detected %d faces\n", len(faces))
	// Output: Detected 1 faces
}

// ExampleNewEmotionDetector_environmentBased demonstrates runtime provider selection
func ExampleNewEmotionDetector_environmentBased() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// FACE_PROVIDER selects the implementation:
	// - "deepface" (default) -> DeepFace HTTP service
	// - "rekognition" -> AWS Rekognition
	// - "mock" -> frame-hash emotions
	detector, err := face.NewEmotionDetector(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to create detector: %v", err)
	}

	if err := detector.Ready(ctx); err != nil {
		log.Printf("detector not ready: %v", err)
	}
}
