package markup

import "errors"

// Errors returned by markup operations.
var (
	// ErrEmptySource indicates a conversion was given no input.
	ErrEmptySource = errors.New("empty source")
)
