package page

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// A4 at 96 DPI, in device-independent pixels.
const (
	InchToPx = 96.0
	A4Width  = 8.27 * InchToPx
	A4Height = 11.69 * InchToPx
)

// Zoom limits, in percent.
const (
	MinZoom     = 10.0
	MaxZoom     = 500.0
	DefaultZoom = 100.0
)

// ZoomLevels are the zoom percentages offered to the user.
var ZoomLevels = []float64{50, 75, 90, 100, 125, 150, 175, 200}

// Preset names a set of page margins.
type Preset string

// Margin presets.
const (
	Normal   Preset = "normal"
	Narrow   Preset = "narrow"
	Moderate Preset = "moderate"
	Wide     Preset = "wide"
)

// Margins are the four edge distances of a page in pixels.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

var presetMargins = map[Preset]Margins{
	Normal:   {Top: InchToPx, Bottom: InchToPx, Left: InchToPx, Right: InchToPx},
	Narrow:   {Top: InchToPx * 0.5, Bottom: InchToPx * 0.5, Left: InchToPx * 0.5, Right: InchToPx * 0.5},
	Moderate: {Top: InchToPx, Bottom: InchToPx, Left: InchToPx * 0.75, Right: InchToPx * 0.75},
	Wide:     {Top: InchToPx, Bottom: InchToPx, Left: InchToPx * 1.5, Right: InchToPx * 1.5},
}

// ParsePreset resolves a preset name, ignoring case.
func ParsePreset(name string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := presetMargins[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// Margins returns the edge distances for the preset.
// Unknown presets resolve to Normal.
func (p Preset) Margins() Margins {
	if m, ok := presetMargins[p]; ok {
		return m
	}
	return presetMargins[Normal]
}

// String returns the preset name.
func (p Preset) String() string {
	return string(p)
}

// Presets returns every preset name in sorted order.
func Presets() []Preset {
	out := make([]Preset, 0, len(presetMargins))
	for p := range presetMargins {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Geometry is the read-only page configuration consumed by pagination.
type Geometry struct {
	Width   float64
	Height  float64
	Preset  Preset
	Margins Margins
	Zoom    float64 // percent
}

// DefaultGeometry returns an A4 page with normal margins at 100% zoom.
func DefaultGeometry() Geometry {
	return Geometry{
		Width:   A4Width,
		Height:  A4Height,
		Preset:  Normal,
		Margins: Normal.Margins(),
		Zoom:    DefaultZoom,
	}
}

// WithPreset returns a copy of g using the preset's margins.
func (g Geometry) WithPreset(p Preset) Geometry {
	g.Preset = p
	g.Margins = p.Margins()
	return g
}

// WithZoom returns a copy of g at the given zoom percentage.
func (g Geometry) WithZoom(percent float64) (Geometry, error) {
	if err := ValidateZoom(percent); err != nil {
		return g, err
	}
	g.Zoom = percent
	return g, nil
}

// ValidateZoom checks that percent is within [MinZoom, MaxZoom].
func ValidateZoom(percent float64) error {
	if math.IsNaN(percent) || percent < MinZoom || percent > MaxZoom {
		return fmt.Errorf("%w: %v%% (allowed %v-%v)", ErrInvalidZoom, percent, MinZoom, MaxZoom)
	}
	return nil
}

// ZoomFactor returns the zoom as a multiplier.
func (g Geometry) ZoomFactor() float64 {
	if g.Zoom <= 0 {
		return 1
	}
	return g.Zoom / 100
}

// MaxContentHeight returns the usable content height of a page:
// (height - top - bottom) * zoom.
func (g Geometry) MaxContentHeight() float64 {
	return (g.Height - g.Margins.Top - g.Margins.Bottom) * g.ZoomFactor()
}

// ContentWidth returns the width content is laid out at.
func (g Geometry) ContentWidth() float64 {
	return (g.Width - g.Margins.Left - g.Margins.Right) * g.ZoomFactor()
}

// Label returns the footer page label, e.g. "Page 2 of 5".
func Label(order, total int) string {
	return fmt.Sprintf("Page %d of %d", order, total)
}
