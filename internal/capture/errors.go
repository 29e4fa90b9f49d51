package capture

import "errors"

var (
	// ErrPermissionDenied is returned by Open when the camera refuses access.
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNotOpen          = errors.New("frame source not open")
	ErrNoFrames         = errors.New("no frames available")
)
