package measure

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/net/html"

	"github.com/dshills/pagewright/internal/markup"
)

// Default face settings.
const (
	DefaultFontSize    = 12.0 // points
	DefaultDPI         = 96.0
	DefaultLineSpacing = 1.2
)

// headingScale maps heading elements to their font size relative to body text.
var headingScale = map[string]float64{
	"h1": 2.0,
	"h2": 1.5,
	"h3": 1.17,
	"h4": 1.0,
	"h5": 0.83,
	"h6": 0.67,
}

// blockElements start a new line box when opened or closed.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "tr": true, "ul": true,
}

// FaceOracle measures markup by wrapping its text with real glyph advances.
// Block elements start new lines, <br> forces a break, headings are scaled,
// and words wider than the line break anywhere (word-wrap: break-word).
type FaceOracle struct {
	mu sync.Mutex

	face        font.Face
	ttf         []byte
	sizePt      float64
	dpi         float64
	lineSpacing float64
	paraSpacing float64 // extra space after each block, in lines
}

// FaceOption configures a FaceOracle.
type FaceOption func(*FaceOracle)

// WithFontSize sets the body font size in points.
func WithFontSize(pt float64) FaceOption {
	return func(o *FaceOracle) {
		if pt > 0 {
			o.sizePt = pt
		}
	}
}

// WithDPI sets the resolution used to convert points to pixels.
func WithDPI(dpi float64) FaceOption {
	return func(o *FaceOracle) {
		if dpi > 0 {
			o.dpi = dpi
		}
	}
}

// WithLineSpacing sets the line height as a multiple of the font height.
func WithLineSpacing(mult float64) FaceOption {
	return func(o *FaceOracle) {
		if mult > 0 {
			o.lineSpacing = mult
		}
	}
}

// WithParagraphSpacing adds space after every block, in lines.
func WithParagraphSpacing(lines float64) FaceOption {
	return func(o *FaceOracle) {
		if lines >= 0 {
			o.paraSpacing = lines
		}
	}
}

// WithFontData uses the given TrueType/OpenType font instead of Go Regular.
func WithFontData(ttf []byte) FaceOption {
	return func(o *FaceOracle) {
		if len(ttf) > 0 {
			o.ttf = ttf
		}
	}
}

// NewFaceOracle creates an oracle backed by a font face.
// If the font cannot be parsed, it falls back to the fixed 7x13 bitmap face
// and returns the parse error alongside the working oracle.
func NewFaceOracle(opts ...FaceOption) (*FaceOracle, error) {
	o := &FaceOracle{
		ttf:         goregular.TTF,
		sizePt:      DefaultFontSize,
		dpi:         DefaultDPI,
		lineSpacing: DefaultLineSpacing,
	}
	for _, opt := range opts {
		opt(o)
	}

	f, err := opentype.Parse(o.ttf)
	if err != nil {
		o.face = basicfont.Face7x13
		return o, fmt.Errorf("parsing font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    o.sizePt,
		DPI:     o.dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		o.face = basicfont.Face7x13
		return o, fmt.Errorf("creating face: %w", err)
	}
	o.face = face
	return o, nil
}

// LineHeight returns the pixel height of one body text line.
func (o *FaceOracle) LineHeight() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lineHeight(1)
}

// MeasureHeight implements Oracle.
func (o *FaceOracle) MeasureHeight(m markup.Markup, widthPx float64) (float64, error) {
	if widthPx <= 0 || math.IsNaN(widthPx) {
		return 0, ErrUnavailable
	}
	if m == "" {
		return 0, nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	var height float64
	for _, b := range layoutBlocks(m) {
		if b.fixed > 0 {
			height += b.fixed
			continue
		}
		lines := o.countLines(b, widthPx)
		if lines == 0 {
			continue
		}
		lh := o.lineHeight(b.scale)
		height += float64(lines)*lh + o.paraSpacing*lh
	}
	return math.Ceil(height), nil
}

func (o *FaceOracle) lineHeight(scale float64) float64 {
	return fixedToFloat(o.face.Metrics().Height) * o.lineSpacing * scale
}

func (o *FaceOracle) advance(s string, scale float64) float64 {
	if s == "" {
		return 0
	}
	return fixedToFloat(font.MeasureString(o.face, s)) * scale
}

// countLines wraps each hard line of a block at width.
func (o *FaceOracle) countLines(b *block, width float64) int {
	text := b.text.String()
	if text == "" {
		return 0
	}

	hard := strings.Split(text, "\n")
	// A trailing <br> does not open a new line unless it is the only content.
	if len(hard) > 1 && hard[len(hard)-1] == "" {
		hard = hard[:len(hard)-1]
	}

	total := 0
	for _, line := range hard {
		total += o.wrap(line, width, b.scale)
	}
	return total
}

func (o *FaceOracle) wrap(line string, width, scale float64) int {
	if strings.TrimSpace(line) == "" {
		return 1
	}

	count := 1
	cur := 0.0
	state := -1
	rest := line
	var seg string
	for len(rest) > 0 {
		seg, rest, _, state = uniseg.FirstLineSegmentInString(rest, state)
		visible := o.advance(strings.TrimRightFunc(seg, unicode.IsSpace), scale)
		full := o.advance(seg, scale)

		if cur > 0 && cur+visible > width {
			count++
			cur = 0
		}
		if cur == 0 && visible > width {
			extra := int(math.Ceil(visible/width)) - 1
			count += extra
			cur = visible - float64(extra)*width + (full - visible)
			continue
		}
		cur += full
	}
	return count
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// block is one line box worth of text.
type block struct {
	scale float64
	pre   bool
	text  strings.Builder
	fixed float64 // explicit pixel height (images, rules)
}

// layoutBlocks flattens markup into a sequence of blocks.
func layoutBlocks(m markup.Markup) []*block {
	var (
		blocks []*block
		scales = []float64{1}
		pres   = []bool{false}
	)

	cur := &block{scale: 1}
	flush := func() {
		if cur.text.Len() > 0 || cur.fixed > 0 {
			blocks = append(blocks, cur)
		}
		cur = &block{scale: scales[len(scales)-1], pre: pres[len(pres)-1]}
	}

	z := html.NewTokenizer(strings.NewReader(string(m)))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.TextToken:
			appendText(cur, string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			name := tok.Data
			switch {
			case name == "br":
				cur.text.WriteByte('\n')
			case name == "hr":
				flush()
				cur.fixed = 1
				flush()
			case name == "img":
				flush()
				cur.fixed = imageHeight(tok)
				flush()
			case blockElements[name] && tt == html.StartTagToken:
				flush()
				scale := scales[len(scales)-1]
				if s, ok := headingScale[name]; ok {
					scale = s
				}
				scales = append(scales, scale)
				pres = append(pres, pres[len(pres)-1] || name == "pre")
				cur.scale = scale
				cur.pre = pres[len(pres)-1]
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if blockElements[string(name)] {
				if len(scales) > 1 {
					scales = scales[:len(scales)-1]
					pres = pres[:len(pres)-1]
				}
				flush()
			}
		}
	}
	flush()
	return blocks
}

// appendText adds text to a block, collapsing whitespace outside <pre>.
func appendText(b *block, s string) {
	if b.pre {
		b.text.WriteString(s)
		return
	}
	prevSpace := b.text.Len() == 0 || strings.HasSuffix(b.text.String(), " ") || strings.HasSuffix(b.text.String(), "\n")
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.text.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		b.text.WriteRune(r)
		prevSpace = false
	}
}

// imageHeight returns the declared height of an <img>, or a one-line default.
func imageHeight(tok html.Token) float64 {
	for _, a := range tok.Attr {
		if a.Key != "height" {
			continue
		}
		v := strings.TrimSuffix(strings.TrimSpace(a.Val), "px")
		if h, err := strconv.ParseFloat(v, 64); err == nil && h > 0 {
			return h
		}
	}
	return 20
}
