package config

import (
	"errors"

	"github.com/dshills/pagewright/internal/config/loader"
)

// ErrInvalid indicates a configuration value failed validation.
var ErrInvalid = errors.New("invalid configuration")

// ParseError reports a malformed configuration file.
type ParseError = loader.ParseError
