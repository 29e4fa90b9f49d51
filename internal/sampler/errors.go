package sampler

import "errors"

var (
	ErrAlreadyStarted = errors.New("sampler already started")
	ErrNotRunning     = errors.New("sampler not running")
)
