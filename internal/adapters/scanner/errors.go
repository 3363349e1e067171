package scanner

import (
	"errors"
	"fmt"
)

// Sentinel kinds for scan outcomes. These allow errors.Is from callers.
var (
	ErrSkipped        = errors.New("directory skipped")
	ErrParse          = errors.New("manifest parse failed")
	ErrRootUnreadable = errors.New("evals root unreadable")
)

// ManifestError reports a manifest that exists but could not be turned into a record.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrParse and the underlying cause.
func (e *ManifestError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
