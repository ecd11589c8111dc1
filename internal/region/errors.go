package region

import "errors"

// ErrUnknownRegion is returned when a region name is not content, header or footer.
var ErrUnknownRegion = errors.New("unknown region")
