package search

import "errors"

var (
	// ErrEmptyQuery is returned when searching for the empty string.
	ErrEmptyQuery = errors.New("empty search query")

	// ErrNotFound is returned when a match no longer lies inside the text.
	ErrNotFound = errors.New("match not found")
)
