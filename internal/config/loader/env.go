package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix prefixes every recognized environment variable.
const DefaultEnvPrefix = "PAGEWRIGHT_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string
	mapping map[string]string // env var -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a loader recognizing prefix+SECTION_KEY variables.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
	}
}

// defaultEnvMapping maps PAGEWRIGHT_PAGE_ZOOM to page.zoom and so on.
func defaultEnvMapping(prefix string) map[string]string {
	paths := []string{
		"page.width",
		"page.height",
		"page.margins",
		"page.zoom",
		"page.max_pages",
		"page.defer_continuations",
		"history.max_entries",
		"history.batch_window_ms",
		"measure.font_size",
		"measure.dpi",
		"measure.line_spacing",
		"measure.paragraph_spacing",
		"measure.cache_size",
		"measure.font_file",
		"logging.level",
	}
	m := make(map[string]string, len(paths))
	for _, p := range paths {
		env := prefix + strings.ToUpper(strings.ReplaceAll(p, ".", "_"))
		m[env] = p
	}
	return m
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load implements Loader. Empty values count as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			setByPath(config, path, parseValue(val))
		}
	}
	return config, nil
}

// parseValue converts an environment string to a bool, integer or float
// where it parses as one.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
