package measure

import "errors"

// Errors returned by oracles.
var (
	// ErrUnavailable indicates the oracle cannot measure right now.
	ErrUnavailable = errors.New("measurement unavailable")
)
