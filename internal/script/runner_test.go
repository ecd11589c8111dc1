package script

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/pagewright/internal/document"
	"github.com/dshills/pagewright/internal/markup"
	"github.com/dshills/pagewright/internal/measure"
	"github.com/dshills/pagewright/internal/page"
)

func charOracle(capacity int) measure.Oracle {
	maxHeight := page.DefaultGeometry().MaxContentHeight()
	return measure.Func(func(m markup.Markup, _ float64) (float64, error) {
		return float64(m.TextLen()) / float64(capacity) * maxHeight, nil
	})
}

func newRunner(t *testing.T, capacity int) (*Runner, *document.Document, *bytes.Buffer) {
	t.Helper()
	clock := NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	d := document.New(charOracle(capacity), document.WithClock(clock.Now))
	var out bytes.Buffer
	r := NewRunner(d, WithOutput(&out), WithClock(clock))
	t.Cleanup(func() {
		r.Close()
		d.Close()
	})
	return r, d, &out
}

func TestRunEditUndoRedo(t *testing.T) {
	r, d, out := newRunner(t, 50)

	err := r.Run(context.Background(), "basic", `
		doc.edit(1, "<p>Hello</p>")
		doc.save("text")
		assert(doc.undo())
		print(doc.content(1) == "")
		assert(doc.redo())
		print(doc.content(1))
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "true\n<p>Hello</p>\n" {
		t.Errorf("output = %q", got)
	}
	if p, _ := d.Page(1); p.Content != "<p>Hello</p>" {
		t.Errorf("content = %q", p.Content)
	}
}

func TestRunBatchingWithClock(t *testing.T) {
	r, _, out := newRunner(t, 50)

	err := r.Run(context.Background(), "batch", `
		for _, s in ipairs({"a", "ab", "abc"}) do
			doc.edit(1, s)
			doc.save("TEXT")
			doc.advance(100)
		end
		doc.undo()
		print(doc.content(1) == "", doc.can_undo())

		doc.edit(1, "x")
		doc.save("TEXT")
		doc.advance(2000)
		doc.edit(1, "xy")
		print(doc.save("TEXT"))
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "true\tfalse\nfalse\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunPagination(t *testing.T) {
	r, d, out := newRunner(t, 10)

	err := r.Run(context.Background(), "pages", `
		local split, n = doc.edit(1, "aaaa bbbb cccc")
		print(split, n, doc.label(2))
		doc.edit(1, "ab")
		assert(doc.backspace(2))
		print(doc.pages(), doc.selection())
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "true\t2\tPage 2 of 2\n1\t2\t2\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if d.PageCount() != 1 {
		t.Errorf("PageCount() = %d", d.PageCount())
	}
}

func TestRunFindReplace(t *testing.T) {
	r, _, out := newRunner(t, 50)

	err := r.Run(context.Background(), "search", `
		doc.edit(1, "<p>cat Cat dog</p>")
		local m = doc.find("cat")
		print(#m, m[2].index, m[2].length)
		print(doc.replace_all("cat", "cow"), doc.content(1))
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "2\t4\t3\n2\t<p>cow cow dog</p>\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunRaisesOnBadInput(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bad zoom", `doc.zoom(3)`, "invalid zoom"},
		{"bad preset", `doc.margins("huge")`, "unknown margin preset"},
		{"bad action", `doc.save("TYPE")`, "unknown action"},
		{"missing page", `doc.edit(4, "x")`, "no page 4"},
		{"header missing page", `doc.header(2, "x")`, "page not found"},
		{"syntax", `doc.edit(`, "load"},
		{"advance without clock", `doc.advance(10)`, "no manual clock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := document.New(charOracle(10))
			defer d.Close()
			r := NewRunner(d, WithOutput(&bytes.Buffer{}))
			defer r.Close()

			err := r.Run(context.Background(), tt.name, tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestSandboxRemovesLoaders(t *testing.T) {
	r, _, out := newRunner(t, 10)

	err := r.Run(context.Background(), "sandbox", `print(dofile, load, require, io, os)`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "nil\tnil\tnil\tnil\tnil\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunTimeout(t *testing.T) {
	d := document.New(charOracle(10))
	defer d.Close()
	r := NewRunner(d, WithTimeout(50*time.Millisecond))
	defer r.Close()

	err := r.Run(context.Background(), "spin", `while true do end`)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Run error = %v, want ErrTimeout", err)
	}
}

func TestRunAfterClose(t *testing.T) {
	d := document.New(charOracle(10))
	defer d.Close()
	r := NewRunner(d)
	r.Close()
	r.Close()

	if err := r.Run(context.Background(), "x", ""); !errors.Is(err, ErrClosed) {
		t.Errorf("Run error = %v, want ErrClosed", err)
	}
}

func TestGroup(t *testing.T) {
	r, d, _ := newRunner(t, 50)

	err := r.Run(context.Background(), "group", `
		doc.group("paste", function()
			doc.edit(1, "a")
			doc.save("PASTE")
			doc.advance(5000)
			doc.edit(1, "ab")
			doc.save("STRUCTURE")
		end)
		doc.undo()
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p, _ := d.Page(1); p.Content != "" {
		t.Errorf("content after undo = %q", p.Content)
	}
}
