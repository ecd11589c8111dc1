package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads configuration from a YAML file.
type YAMLLoader struct {
	fs   FileSystem
	path string
}

// NewYAMLLoader creates a YAML loader for path.
func NewYAMLLoader(path string) *YAMLLoader {
	return &YAMLLoader{fs: OSFS{}, path: path}
}

// Load implements Loader.
func (l *YAMLLoader) Load() (map[string]any, error) {
	data, err := readFile(l.fs, l.path)
	if err != nil || data == nil {
		return nil, err
	}

	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ParseError{Path: l.path, Message: err.Error(), Err: err}
	}
	return normalize(config), nil
}

// normalize converts the map[any]any nodes yaml can produce for
// non-string keys into map[string]any.
func normalize(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalize(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	default:
		return v
	}
}
