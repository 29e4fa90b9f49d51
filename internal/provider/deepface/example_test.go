package deepface_test

import (
	"context"
	"fmt"
	"log"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/provider/deepface"
)

func ExampleProvider_DetectEmotions() {
	// Create provider with default config
	config := deepface.DefaultConfig()
	detector := deepface.NewProvider(config)

	// Frame bytes (in practice, grabbed from a capture.FrameSource)
	var frame []byte

	faces, err := detector.DetectEmotions(context.Background(), frame)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Detected %d faces\n", len(faces))
	for i, face := range faces {
		dominant, p := face.Emotions.Dominant()
		fmt.Printf("Face %d: %s (%.2f), age=%.0f, gender=%s\n", i, dominant, p, face.Age, face.Gender)
	}
}
