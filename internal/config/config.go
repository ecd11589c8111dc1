package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/pagewright/internal/config/loader"
	"github.com/dshills/pagewright/internal/history"
	"github.com/dshills/pagewright/internal/logging"
	"github.com/dshills/pagewright/internal/measure"
	"github.com/dshills/pagewright/internal/page"
	"github.com/dshills/pagewright/internal/paginate"
)

// Config is the complete configuration.
type Config struct {
	Page    PageConfig    `toml:"page" yaml:"page"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Measure MeasureConfig `toml:"measure" yaml:"measure"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// PageConfig sets page geometry and pagination limits.
type PageConfig struct {
	Width              float64 `toml:"width" yaml:"width"`
	Height             float64 `toml:"height" yaml:"height"`
	Margins            string  `toml:"margins" yaml:"margins"`
	Zoom               float64 `toml:"zoom" yaml:"zoom"`
	MaxPages           int     `toml:"max_pages" yaml:"max_pages"`
	DeferContinuations bool    `toml:"defer_continuations" yaml:"defer_continuations"`
}

// HistoryConfig sets the undo bound and batching window.
type HistoryConfig struct {
	MaxEntries    int `toml:"max_entries" yaml:"max_entries"`
	BatchWindowMS int `toml:"batch_window_ms" yaml:"batch_window_ms"`
}

// MeasureConfig sets the font metrics used to measure content height.
type MeasureConfig struct {
	FontSize         float64 `toml:"font_size" yaml:"font_size"`
	DPI              float64 `toml:"dpi" yaml:"dpi"`
	LineSpacing      float64 `toml:"line_spacing" yaml:"line_spacing"`
	ParagraphSpacing float64 `toml:"paragraph_spacing" yaml:"paragraph_spacing"`
	CacheSize        int     `toml:"cache_size" yaml:"cache_size"`
	FontFile         string  `toml:"font_file" yaml:"font_file"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Page: PageConfig{
			Width:    page.A4Width,
			Height:   page.A4Height,
			Margins:  string(page.Normal),
			Zoom:     page.DefaultZoom,
			MaxPages: paginate.DefaultMaxPages,
		},
		History: HistoryConfig{
			MaxEntries:    history.DefaultMaxEntries,
			BatchWindowMS: int(history.DefaultBatchWindow / time.Millisecond),
		},
		Measure: MeasureConfig{
			FontSize:    measure.DefaultFontSize,
			DPI:         measure.DefaultDPI,
			LineSpacing: measure.DefaultLineSpacing,
			CacheSize:   measure.DefaultCacheSize,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path, applies environment overrides and validates the result.
// An empty path or a missing file yields the defaults plus environment.
func Load(path string) (Config, error) {
	return load(loader.OSFS{}, path, loader.NewEnvLoader(loader.DefaultEnvPrefix))
}

func load(fsys loader.FileSystem, path string, env loader.Loader) (Config, error) {
	var layers []loader.Loader
	if path != "" {
		l, err := loader.ForPath(fsys, path)
		if err != nil {
			return Config{}, err
		}
		layers = append(layers, l)
	}
	if env != nil {
		layers = append(layers, env)
	}

	merged := make(map[string]any)
	for _, l := range layers {
		m, err := l.Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg, err := decode(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode overlays a merged map onto the defaults. The map is re-encoded as
// TOML so both file formats share one set of field rules.
func decode(m map[string]any) (Config, error) {
	cfg := Default()
	if len(m) == 0 {
		return cfg, nil
	}
	coerceFloats(m)
	data, err := toml.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("encoding merged config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return cfg, nil
}

// floatFields are written as integers in files ("zoom = 125") but decode
// into float64.
var floatFields = map[string][]string{
	"page":    {"width", "height", "zoom"},
	"measure": {"font_size", "dpi", "line_spacing", "paragraph_spacing"},
}

func coerceFloats(m map[string]any) {
	for section, keys := range floatFields {
		sec, ok := m[section].(map[string]any)
		if !ok {
			continue
		}
		for _, k := range keys {
			switch v := sec[k].(type) {
			case int:
				sec[k] = float64(v)
			case int64:
				sec[k] = float64(v)
			}
		}
	}
}

// Validate rejects values the engine cannot use.
func (c Config) Validate() error {
	var problems []string
	if c.Page.Width <= 0 || c.Page.Height <= 0 {
		problems = append(problems, "page width and height must be positive")
	}
	if preset, err := page.ParsePreset(c.Page.Margins); err != nil {
		problems = append(problems, err.Error())
	} else if m := preset.Margins(); c.Page.Width > 0 && c.Page.Height > 0 &&
		(c.Page.Width-m.Left-m.Right <= 0 || c.Page.Height-m.Top-m.Bottom <= 0) {
		problems = append(problems, fmt.Sprintf("page %vx%v leaves no room inside %s margins",
			c.Page.Width, c.Page.Height, preset))
	}
	if err := page.ValidateZoom(c.Page.Zoom); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Page.MaxPages < 0 {
		problems = append(problems, "page.max_pages must not be negative")
	}
	if c.History.MaxEntries < 0 || c.History.BatchWindowMS < 0 {
		problems = append(problems, "history limits must not be negative")
	}
	if c.Measure.FontSize <= 0 || c.Measure.DPI <= 0 || c.Measure.LineSpacing <= 0 {
		problems = append(problems, "font size, dpi and line spacing must be positive")
	}
	if c.Measure.CacheSize < 0 {
		problems = append(problems, "measure.cache_size must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.Logging.Level))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Geometry returns the page geometry the page section describes.
func (c Config) Geometry() (page.Geometry, error) {
	preset, err := page.ParsePreset(c.Page.Margins)
	if err != nil {
		return page.Geometry{}, err
	}
	g := page.DefaultGeometry().WithPreset(preset)
	g.Width = c.Page.Width
	g.Height = c.Page.Height
	return g.WithZoom(c.Page.Zoom)
}

// BatchWindow returns the history batching window.
func (c Config) BatchWindow() time.Duration {
	return time.Duration(c.History.BatchWindowMS) * time.Millisecond
}

// LogLevel returns the parsed logging level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}
