package measure

import (
	"github.com/dshills/pagewright/internal/markup"
)

// Oracle reports the rendered height of markup at a given width.
// Implementations must be deterministic for identical inputs.
type Oracle interface {
	MeasureHeight(m markup.Markup, widthPx float64) (float64, error)
}

// Func adapts an ordinary function to the Oracle interface.
type Func func(m markup.Markup, widthPx float64) (float64, error)

// MeasureHeight calls f.
func (f Func) MeasureHeight(m markup.Markup, widthPx float64) (float64, error) {
	return f(m, widthPx)
}

// Unavailable is an oracle that never measures.
var Unavailable Oracle = Func(func(markup.Markup, float64) (float64, error) {
	return 0, ErrUnavailable
})
