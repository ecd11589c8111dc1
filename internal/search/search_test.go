package search

import (
	"errors"
	"testing"

	"github.com/dshills/pagewright/internal/markup"
	"github.com/dshills/pagewright/internal/page"
)

func TestFind(t *testing.T) {
	pages := []page.Page{
		{ID: 1, Order: 1, Content: "<p>Hello <b>World</b></p>"},
		{ID: 2, Order: 2, Content: "<p>hello hello</p>"},
	}

	got, err := Find(pages, "HELLO")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []Match{
		{Page: 1, Index: 0, Length: 5},
		{Page: 2, Index: 0, Length: 5},
		{Page: 2, Index: 6, Length: 5},
	}
	if len(got) != len(want) {
		t.Fatalf("Find() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if _, err := Find(pages, ""); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Find(\"\") err = %v", err)
	}
}

func TestFindAcrossTagsAndNonOverlapping(t *testing.T) {
	pages := []page.Page{{Order: 1, Content: "<p>lo <i>wo</i>rld aaaa</p>"}}

	got, _ := Find(pages, "o wor")
	if len(got) != 1 || got[0].Index != 1 {
		t.Errorf("Find across tags = %+v", got)
	}
	if n := Count(pages[0].Content, "aa"); n != 2 {
		t.Errorf("Count(aa) = %d, want 2", n)
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name  string
		in    markup.Markup
		index int
		n     int
		repl  string
		want  markup.Markup
	}{
		{"inside one node", "<p>Hello World</p>", 6, 5, "Go", "<p>Hello Go</p>"},
		{"keeps formatting", "<p>Hello <b>World</b></p>", 6, 5, "Gophers", "<p>Hello <b>Gophers</b></p>"},
		{"spans nodes", "<p>Hello <b>World</b></p>", 3, 5, "X", "<p>HelX<b>rld</b></p>"},
		{"escapes", "<p>a b</p>", 2, 1, "<c>", "<p>a &lt;c&gt;</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Replace(tt.in, tt.index, tt.n, tt.repl)
			if err != nil {
				t.Fatalf("Replace: %v", err)
			}
			if got != tt.want {
				t.Errorf("Replace() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplaceOutOfRange(t *testing.T) {
	in := markup.Markup("<p>abc</p>")
	for _, tc := range [][2]int{{2, 5}, {-1, 1}, {0, 0}} {
		got, err := Replace(in, tc[0], tc[1], "x")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Replace(%d, %d) err = %v, want ErrNotFound", tc[0], tc[1], err)
		}
		if got != in {
			t.Errorf("Replace(%d, %d) changed markup to %q", tc[0], tc[1], got)
		}
	}
}

func TestReplaceAll(t *testing.T) {
	got, n, err := ReplaceAll("<p>Cat and <em>cat</em> and CAT</p>", "cat", "dog")
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
	if want := markup.Markup("<p>dog and <em>dog</em> and dog</p>"); got != want {
		t.Errorf("ReplaceAll() = %q, want %q", got, want)
	}

	same, n, _ := ReplaceAll("<p>none</p>", "cat", "dog")
	if n != 0 || same != "<p>none</p>" {
		t.Errorf("no-match ReplaceAll = %q, %d", same, n)
	}
	if _, _, err := ReplaceAll("x", "", "y"); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("empty query err = %v", err)
	}
}

func TestReplaceKeepsRawMarkup(t *testing.T) {
	tests := []struct {
		name  string
		in    markup.Markup
		index int
		n     int
		repl  string
		want  markup.Markup
	}{
		{"open fragment stays open", "<p>aaaa bbbb ", 5, 4, "BBBB", "<p>aaaa BBBB "},
		{"close fragment stays closed", "tail <b>end</b></p>", 0, 4, "TAIL", "TAIL <b>end</b></p>"},
		{"untouched entities kept", "<p>a &amp; b</p><p>cat</p>", 5, 3, "dog", "<p>a &amp; b</p><p>dog</p>"},
		{"attributes kept", `<p class='x'>hi</p>`, 0, 2, "yo", `<p class='x'>yo</p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Replace(tt.in, tt.index, tt.n, tt.repl)
			if err != nil {
				t.Fatalf("Replace: %v", err)
			}
			if got != tt.want {
				t.Errorf("Replace() = %q, want %q", got, tt.want)
			}
		})
	}

	got, n, err := ReplaceAll("<p>cat cat", "CAT", "dog")
	if err != nil || n != 2 {
		t.Fatalf("ReplaceAll = %d, %v", n, err)
	}
	if got != "<p>dog dog" {
		t.Errorf("ReplaceAll() = %q, want %q", got, "<p>dog dog")
	}
}
