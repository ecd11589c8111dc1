package measure

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/pagewright/internal/markup"
)

func newTestOracle(t *testing.T) *FaceOracle {
	t.Helper()
	o, err := NewFaceOracle()
	if err != nil {
		t.Fatalf("NewFaceOracle: %v", err)
	}
	return o
}

func TestFaceOracleEmpty(t *testing.T) {
	o := newTestOracle(t)
	h, err := o.MeasureHeight("", 600)
	if err != nil {
		t.Fatalf("MeasureHeight: %v", err)
	}
	if h != 0 {
		t.Errorf("height = %v, want 0", h)
	}
}

func TestFaceOracleUnavailable(t *testing.T) {
	o := newTestOracle(t)
	if _, err := o.MeasureHeight("Hello", 0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("zero width err = %v, want ErrUnavailable", err)
	}
	if _, err := o.MeasureHeight("Hello", -10); !errors.Is(err, ErrUnavailable) {
		t.Errorf("negative width err = %v, want ErrUnavailable", err)
	}
}

func TestFaceOracleSingleLine(t *testing.T) {
	o := newTestOracle(t)
	h, err := o.MeasureHeight("Hello", 600)
	if err != nil {
		t.Fatalf("MeasureHeight: %v", err)
	}
	lh := o.LineHeight()
	if h < lh-1 || h > lh+1 {
		t.Errorf("height = %v, want about one line (%v)", h, lh)
	}
}

func TestFaceOracleParagraphsStack(t *testing.T) {
	o := newTestOracle(t)
	one, _ := o.MeasureHeight("<p>alpha</p>", 600)
	three, _ := o.MeasureHeight("<p>alpha</p><p>beta</p><p>gamma</p>", 600)
	if three <= one*2 {
		t.Errorf("three paragraphs = %v, one = %v; want roughly triple", three, one)
	}
}

func TestFaceOracleWrapsAtWidth(t *testing.T) {
	o := newTestOracle(t)
	text := markup.Markup(strings.Repeat("word ", 200))
	wide, _ := o.MeasureHeight(text, 2000)
	narrow, _ := o.MeasureHeight(text, 200)
	if narrow <= wide {
		t.Errorf("narrow = %v, wide = %v; narrower width should be taller", narrow, wide)
	}
}

func TestFaceOracleMonotonic(t *testing.T) {
	o := newTestOracle(t)
	var sb strings.Builder
	prev := 0.0
	for i := 0; i < 50; i++ {
		sb.WriteString("<p>some paragraph text that wraps</p>")
		h, err := o.MeasureHeight(markup.Markup(sb.String()), 150)
		if err != nil {
			t.Fatalf("MeasureHeight: %v", err)
		}
		if h < prev {
			t.Fatalf("height decreased from %v to %v at %d", prev, h, i)
		}
		prev = h
	}
}

func TestFaceOracleBreakAndHeading(t *testing.T) {
	o := newTestOracle(t)
	plain, _ := o.MeasureHeight("a", 600)
	broken, _ := o.MeasureHeight("a<br>b", 600)
	if broken <= plain {
		t.Errorf("a<br>b = %v, want taller than a = %v", broken, plain)
	}

	heading, _ := o.MeasureHeight("<h1>a</h1>", 600)
	if heading <= plain {
		t.Errorf("h1 = %v, want taller than body = %v", heading, plain)
	}

	trailing, _ := o.MeasureHeight("<p>a<br></p>", 600)
	if trailing != plain {
		t.Errorf("trailing <br> = %v, want %v", trailing, plain)
	}
}

func TestFaceOracleImageHeight(t *testing.T) {
	o := newTestOracle(t)
	h, _ := o.MeasureHeight(`<img src="x.png" height="300">`, 600)
	if h != 300 {
		t.Errorf("image height = %v, want 300", h)
	}
}

func TestFaceOracleBadFontFallsBack(t *testing.T) {
	o, err := NewFaceOracle(WithFontData([]byte("not a font")))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if o == nil {
		t.Fatal("oracle should still be usable")
	}
	h, err := o.MeasureHeight("Hello", 300)
	if err != nil || h <= 0 {
		t.Errorf("fallback MeasureHeight = %v, %v", h, err)
	}
}

func TestCached(t *testing.T) {
	calls := 0
	inner := Func(func(m markup.Markup, w float64) (float64, error) {
		calls++
		return float64(len(m)), nil
	})

	c := NewCached(inner, 2)
	for i := 0; i < 3; i++ {
		h, err := c.MeasureHeight("abc", 100)
		if err != nil || h != 3 {
			t.Fatalf("MeasureHeight = %v, %v", h, err)
		}
	}
	if calls != 1 {
		t.Errorf("inner calls = %d, want 1", calls)
	}
	hits, misses := c.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats() = %d, %d; want 2, 1", hits, misses)
	}

	// Different width is a different key.
	c.MeasureHeight("abc", 200)
	if calls != 2 {
		t.Errorf("inner calls = %d, want 2", calls)
	}

	// Overflowing the cache clears it.
	c.MeasureHeight("abcd", 100)
	c.MeasureHeight("abc", 100)
	if calls != 4 {
		t.Errorf("inner calls = %d, want 4", calls)
	}
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	calls := 0
	inner := Func(func(markup.Markup, float64) (float64, error) {
		calls++
		return 0, ErrUnavailable
	})
	c := NewCached(inner, 0)
	c.MeasureHeight("x", 1)
	c.MeasureHeight("x", 1)
	if calls != 2 {
		t.Errorf("inner calls = %d, want 2", calls)
	}
}

func TestUnavailable(t *testing.T) {
	if _, err := Unavailable.MeasureHeight("x", 100); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
