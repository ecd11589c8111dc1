package markup

import (
	"strings"
	"unicode"

	nethtml "golang.org/x/net/html"
)

// UnitKind classifies a split unit.
type UnitKind uint8

const (
	// UnitText is a run of non-whitespace text.
	UnitText UnitKind = iota

	// UnitSpace is a run of whitespace.
	UnitSpace

	// UnitStartTag is an opening tag such as <p>.
	UnitStartTag

	// UnitEndTag is a closing tag such as </p>.
	UnitEndTag

	// UnitVoidTag is a self-closing or void element such as <br> or <img>.
	UnitVoidTag

	// UnitOther covers comments and doctypes.
	UnitOther
)

// String returns the unit kind name.
func (k UnitKind) String() string {
	switch k {
	case UnitText:
		return "text"
	case UnitSpace:
		return "space"
	case UnitStartTag:
		return "start"
	case UnitEndTag:
		return "end"
	case UnitVoidTag:
		return "void"
	case UnitOther:
		return "other"
	default:
		return "unknown"
	}
}

// Unit is one indivisible piece of markup.
type Unit struct {
	Kind UnitKind
	Raw  string
}

// IsContent returns true if the unit renders something on its own:
// visible text or a void element.
func (u Unit) IsContent() bool {
	return u.Kind == UnitText || u.Kind == UnitVoidTag
}

// voidElements are elements that never have a closing tag.
var voidElements = map[string]bool{
	"area": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// Tokenize breaks markup into split units.
// Joining every Unit.Raw in order reproduces m byte for byte.
func Tokenize(m Markup) []Unit {
	if m == "" {
		return nil
	}

	src := string(m)
	units := make([]Unit, 0, 16)
	z := nethtml.NewTokenizer(strings.NewReader(src))
	off := 0

	for off < len(src) {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			break
		}

		n := len(z.Raw())
		if n == 0 {
			continue
		}
		if off+n > len(src) {
			n = len(src) - off
		}
		raw := src[off : off+n]
		off += n

		switch tt {
		case nethtml.TextToken:
			units = appendTextUnits(units, raw)
		case nethtml.StartTagToken:
			name, _ := z.TagName()
			if voidElements[string(name)] {
				units = append(units, Unit{Kind: UnitVoidTag, Raw: raw})
			} else {
				units = append(units, Unit{Kind: UnitStartTag, Raw: raw})
			}
		case nethtml.SelfClosingTagToken:
			units = append(units, Unit{Kind: UnitVoidTag, Raw: raw})
		case nethtml.EndTagToken:
			units = append(units, Unit{Kind: UnitEndTag, Raw: raw})
		default:
			units = append(units, Unit{Kind: UnitOther, Raw: raw})
		}
	}

	// Whatever the tokenizer refused is kept as text so nothing is lost.
	if off < len(src) {
		units = appendTextUnits(units, src[off:])
	}

	return units
}

// appendTextUnits splits raw text into alternating whitespace and word runs.
func appendTextUnits(units []Unit, raw string) []Unit {
	start := 0
	inSpace := false
	for i, r := range raw {
		space := unicode.IsSpace(r)
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			units = append(units, textUnit(raw[start:i], inSpace))
			start = i
			inSpace = space
		}
	}
	if start < len(raw) {
		units = append(units, textUnit(raw[start:], inSpace))
	}
	return units
}

func textUnit(raw string, space bool) Unit {
	if space {
		return Unit{Kind: UnitSpace, Raw: raw}
	}
	return Unit{Kind: UnitText, Raw: raw}
}

// Join concatenates unit raw text.
func Join(units []Unit) Markup {
	var sb strings.Builder
	for _, u := range units {
		sb.WriteString(u.Raw)
	}
	return Markup(sb.String())
}

// PrefixEnds returns the byte offsets at which each unit of m ends.
// ends[i] is the length of the prefix that contains units 0..i.
func PrefixEnds(units []Unit) []int {
	ends := make([]int, len(units))
	off := 0
	for i, u := range units {
		off += len(u.Raw)
		ends[i] = off
	}
	return ends
}
