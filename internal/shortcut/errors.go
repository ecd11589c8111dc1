package shortcut

import "errors"

var (
	// ErrEmptyChord is returned for a blank key chord.
	ErrEmptyChord = errors.New("empty key chord")

	// ErrInvalidChord is returned for a key chord that cannot be parsed.
	ErrInvalidChord = errors.New("invalid key chord")
)
