// Package config holds pagewright's typed configuration.
//
// Values are layered, each overriding the one below:
//
//	PAGEWRIGHT_* environment variables
//	config file (TOML or YAML, chosen by extension)
//	built-in defaults
//
// A missing file is not an error. Watch reloads the file when it changes
// so page geometry can be re-applied to an open document.
package config
