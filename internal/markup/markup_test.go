package markup

import (
	"strings"
	"testing"
)

func TestTokenizeRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"Hello",
		"Hello world",
		"<p>Hello <b>bold</b> world</p>",
		"<p>one</p>\n<p>two &amp; three</p>",
		"line<br>break<br/>here",
		"<img src=\"a.png\"> caption",
		"<!-- note --><p>x</p>",
		"stray < less than",
		"unterminated <b",
		"  leading and trailing  ",
		"<p>héllo wörld</p>",
	}

	for _, src := range tests {
		units := Tokenize(Markup(src))
		if got := Join(units); string(got) != src {
			t.Errorf("Join(Tokenize(%q)) = %q", src, got)
		}
	}
}

func TestTokenizeKinds(t *testing.T) {
	units := Tokenize("<p>Hi there<br></p>")
	want := []struct {
		kind UnitKind
		raw  string
	}{
		{UnitStartTag, "<p>"},
		{UnitText, "Hi"},
		{UnitSpace, " "},
		{UnitText, "there"},
		{UnitVoidTag, "<br>"},
		{UnitEndTag, "</p>"},
	}

	if len(units) != len(want) {
		t.Fatalf("got %d units, want %d: %+v", len(units), len(want), units)
	}
	for i, w := range want {
		if units[i].Kind != w.kind || units[i].Raw != w.raw {
			t.Errorf("unit %d = {%s %q}, want {%s %q}", i, units[i].Kind, units[i].Raw, w.kind, w.raw)
		}
	}
}

func TestUnitIsContent(t *testing.T) {
	tests := []struct {
		unit Unit
		want bool
	}{
		{Unit{Kind: UnitText, Raw: "a"}, true},
		{Unit{Kind: UnitVoidTag, Raw: "<br>"}, true},
		{Unit{Kind: UnitSpace, Raw: " "}, false},
		{Unit{Kind: UnitStartTag, Raw: "<p>"}, false},
		{Unit{Kind: UnitEndTag, Raw: "</p>"}, false},
		{Unit{Kind: UnitOther, Raw: "<!-- -->"}, false},
	}
	for _, tt := range tests {
		if got := tt.unit.IsContent(); got != tt.want {
			t.Errorf("%s.IsContent() = %v, want %v", tt.unit.Kind, got, tt.want)
		}
	}
}

func TestPrefixEnds(t *testing.T) {
	units := Tokenize("<b>ab</b> c")
	ends := PrefixEnds(units)
	if ends[len(ends)-1] != len("<b>ab</b> c") {
		t.Errorf("last end = %d, want %d", ends[len(ends)-1], len("<b>ab</b> c"))
	}
	for i := 1; i < len(ends); i++ {
		if ends[i] <= ends[i-1] {
			t.Errorf("ends not increasing at %d: %v", i, ends)
		}
	}
}

func TestMarkupText(t *testing.T) {
	tests := []struct {
		in   Markup
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"<p>a <b>b</b></p><p>c</p>", "a bc"},
		{"x &amp; y", "x & y"},
		{"<!-- hidden -->shown", "shown"},
	}
	for _, tt := range tests {
		if got := tt.in.Text(); got != tt.want {
			t.Errorf("%q.Text() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarkupTextLen(t *testing.T) {
	if got := Markup("<i>héllo</i>").TextLen(); got != 5 {
		t.Errorf("TextLen() = %d, want 5", got)
	}
}

func TestMarkupIsBlank(t *testing.T) {
	tests := []struct {
		in   Markup
		want bool
	}{
		{"", true},
		{"   \n\t", true},
		{"<br>", false},
		{" a ", false},
	}
	for _, tt := range tests {
		if got := tt.in.IsBlank(); got != tt.want {
			t.Errorf("%q.IsBlank() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMarkupSlice(t *testing.T) {
	m := Markup("abcdef")
	if got := m.Slice(2, 4); got != "cd" {
		t.Errorf("Slice(2, 4) = %q, want %q", got, "cd")
	}
	if got := m.Slice(-3, 100); got != m {
		t.Errorf("Slice(-3, 100) = %q, want %q", got, m)
	}
	if got := m.Slice(4, 2); got != "" {
		t.Errorf("Slice(4, 2) = %q, want empty", got)
	}
}

func TestFromText(t *testing.T) {
	m := FromText("a < b & c")
	if m != "a &lt; b &amp; c" {
		t.Errorf("FromText = %q", m)
	}
	if m.Text() != "a < b & c" {
		t.Errorf("Text() = %q", m.Text())
	}
}

func TestParseRender(t *testing.T) {
	root := Parse("<p>Hello <b>world</b></p>")
	if root.Data != "div" {
		t.Fatalf("root = %q, want div", root.Data)
	}
	if got := Render(root); got != "<p>Hello <b>world</b></p>" {
		t.Errorf("Render = %q", got)
	}
	if got := TextContent(root); got != "Hello world" {
		t.Errorf("TextContent = %q", got)
	}

	nodes := TextNodes(root)
	if len(nodes) != 2 || nodes[0].Data != "Hello " || nodes[1].Data != "world" {
		t.Errorf("TextNodes = %d nodes", len(nodes))
	}
}

func TestParseEmpty(t *testing.T) {
	root := Parse("")
	if root.FirstChild != nil {
		t.Error("empty markup should have no children")
	}
	if Render(root) != "" {
		t.Error("empty tree should render empty")
	}
}

func TestFromMarkdown(t *testing.T) {
	m, err := FromMarkdown([]byte("# Title\n\nSome *emphasis* here."))
	if err != nil {
		t.Fatalf("FromMarkdown: %v", err)
	}
	if !strings.Contains(string(m), "<h1>Title</h1>") {
		t.Errorf("missing heading in %q", m)
	}
	if !strings.Contains(string(m), "<em>emphasis</em>") {
		t.Errorf("missing emphasis in %q", m)
	}

	if _, err := FromMarkdown([]byte("  \n")); err != ErrEmptySource {
		t.Errorf("blank source err = %v, want ErrEmptySource", err)
	}
}
