package geo

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnavailable = errors.New("distance provider unavailable")
	ErrNotFound    = errors.New("address not found")
)
