package pipeline

import "errors"

// Failure classes reported per item. Callers match with errors.Is.
var (
	// ErrTransfer covers connection failures and non-200 responses. The
	// item produced no file.
	ErrTransfer = errors.New("transfer failed")
	// ErrEmbedding covers photo, video, and sidecar metadata failures.
	// The downloaded file is intact on disk.
	ErrEmbedding = errors.New("embedding failed")
)
