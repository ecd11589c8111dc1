package history

import "errors"

// ErrUnknownAction is returned when an action name is not recognized.
var ErrUnknownAction = errors.New("unknown action type")
