package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads configuration from a TOML file.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a TOML loader for path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{fs: OSFS{}, path: path}
}

// Load implements Loader.
func (l *TOMLLoader) Load() (map[string]any, error) {
	data, err := readFile(l.fs, l.path)
	if err != nil || data == nil {
		return nil, err
	}

	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		perr := &ParseError{Path: l.path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return config, nil
}
