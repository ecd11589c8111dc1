package page

import "errors"

// Errors returned by page operations.
var (
	// ErrPageNotFound indicates no page has the requested order or ID.
	ErrPageNotFound = errors.New("page not found")

	// ErrLastPage indicates an attempt to remove the only remaining page.
	ErrLastPage = errors.New("cannot remove the last page")

	// ErrUnknownPreset indicates an unrecognized margin preset name.
	ErrUnknownPreset = errors.New("unknown margin preset")

	// ErrInvalidZoom indicates a zoom percentage outside the allowed range.
	ErrInvalidZoom = errors.New("invalid zoom")
)
