package images

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrMissingFile = errors.New("file is required")
	// ErrOriginalMissing means the record exists but its stored file does not.
	ErrOriginalMissing = errors.New("stored file missing")
)
