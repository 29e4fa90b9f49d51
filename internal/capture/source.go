package capture

import "context"

// FrameSource yields encoded still images (JPEG/PNG) on demand.
type FrameSource interface {
	// Open acquires the device. Permission failures wrap ErrPermissionDenied.
	Open(ctx context.Context) error
	Frame(ctx context.Context) ([]byte, error)
	Close() error
}
