package batch

import "errors"

// Sentinel kinds for batch errors.
var (
	ErrQueueClosed = errors.New("queue closed")
)
