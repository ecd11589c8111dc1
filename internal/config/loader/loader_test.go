package loader

import (
	"errors"
	"io/fs"
	"testing"
	"time"
)

// memFS is an in-memory file system for testing.
type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m[path]; ok {
		return memFileInfo(path), nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo string

func (f memFileInfo) Name() string       { return string(f) }
func (f memFileInfo) Size() int64        { return 0 }
func (f memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f memFileInfo) ModTime() time.Time { return time.Time{} }
func (f memFileInfo) IsDir() bool        { return false }
func (f memFileInfo) Sys() any           { return nil }

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"pagewright.toml", false},
		{"pagewright.yaml", false},
		{"PAGEWRIGHT.YML", false},
		{"pagewright.json", true},
		{"pagewright", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := ForPath(memFS{}, tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ForPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestTOMLLoader(t *testing.T) {
	fsys := memFS{"/c.toml": `
[page]
zoom = 125
margins = "narrow"

[history]
batch_window_ms = 500
`}
	l, _ := ForPath(fsys, "/c.toml")
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	page, ok := got["page"].(map[string]any)
	if !ok {
		t.Fatalf("page section = %T", got["page"])
	}
	if page["zoom"] != int64(125) || page["margins"] != "narrow" {
		t.Errorf("page = %v", page)
	}
}

func TestYAMLLoader(t *testing.T) {
	fsys := memFS{"/c.yaml": "page:\n  zoom: 75\nlogging:\n  level: debug\n"}
	l, _ := ForPath(fsys, "/c.yaml")
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got["page"].(map[string]any)["zoom"] != 75 {
		t.Errorf("page = %v", got["page"])
	}
	if got["logging"].(map[string]any)["level"] != "debug" {
		t.Errorf("logging = %v", got["logging"])
	}
}

func TestLoaderMissingFile(t *testing.T) {
	for _, path := range []string{"/none.toml", "/none.yaml"} {
		l, _ := ForPath(memFS{}, path)
		got, err := l.Load()
		if got != nil || err != nil {
			t.Errorf("Load(%s) = %v, %v; want nil, nil", path, got, err)
		}
	}
}

func TestLoaderParseError(t *testing.T) {
	fsys := memFS{
		"/bad.toml": "[page\nzoom = ",
		"/bad.yaml": "page: [unclosed",
	}
	for path := range fsys {
		l, _ := ForPath(fsys, path)
		_, err := l.Load()
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Load(%s) error = %v, want *ParseError", path, err)
			continue
		}
		if perr.Path != path {
			t.Errorf("ParseError.Path = %q", perr.Path)
		}
	}
}

func TestEnvLoader(t *testing.T) {
	t.Setenv("PAGEWRIGHT_PAGE_ZOOM", "150")
	t.Setenv("PAGEWRIGHT_PAGE_MARGINS", "wide")
	t.Setenv("PAGEWRIGHT_MEASURE_LINE_SPACING", "1.5")
	t.Setenv("PAGEWRIGHT_PAGE_DEFER_CONTINUATIONS", "yes")

	got, err := NewEnvLoader(DefaultEnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	page := got["page"].(map[string]any)
	if page["zoom"] != int64(150) || page["margins"] != "wide" || page["defer_continuations"] != true {
		t.Errorf("page = %v", page)
	}
	if got["measure"].(map[string]any)["line_spacing"] != 1.5 {
		t.Errorf("measure = %v", got["measure"])
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{"page": map[string]any{"zoom": 100, "margins": "normal"}}
	src := map[string]any{"page": map[string]any{"zoom": 50}, "logging": map[string]any{"level": "warn"}}

	got := DeepMerge(dst, src)
	page := got["page"].(map[string]any)
	if page["zoom"] != 50 || page["margins"] != "normal" {
		t.Errorf("page = %v", page)
	}
	if _, ok := got["logging"]; !ok {
		t.Error("logging section not merged")
	}
}
