package directory

import "errors"

// Sentinel kinds for directory lookups.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEventNotFound   = errors.New("event not found")
)
