package script

import "errors"

// Errors returned by the runner.
var (
	// ErrClosed is returned when running on a closed runner.
	ErrClosed = errors.New("script runner is closed")

	// ErrTimeout is returned when a script runs past its deadline.
	ErrTimeout = errors.New("script timed out")
)
