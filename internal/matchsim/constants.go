package matchsim

import "time"

// HTTP status code constants.
const (
	StatusOK = 200
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	// SettleDelay gives the worker pool time to record notifications
	// after a batch run before they are read back.
	SettleDelay          = 2 * time.Second
	PercentageMultiplier = 100
)
