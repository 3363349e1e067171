package snapshot

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrLocked  = errors.New("snapshot is being written by another process")
	ErrInvalid = errors.New("invalid snapshot")
)
