package matching

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoAddress = errors.New("volunteer address incomplete")
)
