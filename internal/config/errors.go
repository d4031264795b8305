package config

import (
	"errors"
)

// Sentinel error kinds for this package. Load wraps provider and unmarshal
// failures in ErrLoadConfig and post-load validation failures in
// ErrInvalidConfig, so callers can errors.Is on the phase that failed.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
