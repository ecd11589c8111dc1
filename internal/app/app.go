// Package app wires configuration, logging, measurement and the document
// together and keeps them in step when the configuration file changes.
package app

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dshills/pagewright/internal/config"
	"github.com/dshills/pagewright/internal/config/watcher"
	"github.com/dshills/pagewright/internal/document"
	"github.com/dshills/pagewright/internal/logging"
	"github.com/dshills/pagewright/internal/measure"
	"github.com/dshills/pagewright/internal/notify"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML or YAML configuration file. Empty uses
	// defaults plus environment.
	ConfigPath string

	// Watch reloads ConfigPath when it changes.
	Watch bool

	// LogLevel overrides the configured level when set.
	LogLevel string

	// LogOutput receives log lines. Defaults to stderr.
	LogOutput io.Writer

	// Oracle replaces the font-metric oracle.
	Oracle measure.Oracle

	// Clock replaces the history clock.
	Clock func() time.Time
}

// Application owns one document and its supporting services.
type Application struct {
	mu sync.Mutex

	opts    Options
	cfg     config.Config
	log     *logging.Logger
	oracle  measure.Oracle
	cache   *measure.Cached
	hub     *notify.Hub
	doc     *document.Document
	watcher *watcher.Watcher
	closed  bool
}

// New creates and starts an application.
func New(opts Options) (*Application, error) {
	a := &Application{opts: opts}
	if err := a.bootstrap(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// bootstrap initializes components in dependency order.
func (a *Application) bootstrap() error {
	cfg, cfgErr := config.Load(a.opts.ConfigPath)
	if cfgErr != nil {
		cfg = config.Default()
	}
	a.cfg = cfg

	a.log = newLogger(cfg, a.opts)
	if cfgErr != nil {
		a.log.Warn("config %s: %v; using defaults", a.opts.ConfigPath, cfgErr)
	}

	if err := a.initOracle(); err != nil {
		return err
	}

	a.hub = notify.New()

	docOpts, err := a.documentOptions(cfg)
	if err != nil {
		return &InitError{Component: "document", Err: err}
	}
	a.doc = document.New(a.oracle, docOpts...)

	if a.opts.Watch && a.opts.ConfigPath != "" {
		w, err := config.Watch(a.opts.ConfigPath, a.log.WithComponent("watcher"), a.reload)
		if err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
		a.watcher = w
	}

	a.log.Info("ready: %d pages, zoom %v%%, margins %s", a.doc.PageCount(), cfg.Page.Zoom, cfg.Page.Margins)
	return nil
}

func (a *Application) initOracle() error {
	if a.opts.Oracle != nil {
		a.oracle = a.opts.Oracle
		return nil
	}

	m := a.cfg.Measure
	faceOpts := []measure.FaceOption{
		measure.WithFontSize(m.FontSize),
		measure.WithDPI(m.DPI),
		measure.WithLineSpacing(m.LineSpacing),
		measure.WithParagraphSpacing(m.ParagraphSpacing),
	}
	if m.FontFile != "" {
		ttf, err := os.ReadFile(m.FontFile)
		if err != nil {
			return &InitError{Component: "font", Err: err}
		}
		faceOpts = append(faceOpts, measure.WithFontData(ttf))
	}

	face, err := measure.NewFaceOracle(faceOpts...)
	if err != nil {
		// face still works with the fallback bitmap font
		a.log.Warn("font: %v; using fallback face", err)
	}
	if m.CacheSize > 0 {
		a.cache = measure.NewCached(face, m.CacheSize)
		a.oracle = a.cache
	} else {
		a.oracle = face
	}
	return nil
}

func (a *Application) documentOptions(cfg config.Config) ([]document.Option, error) {
	g, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}
	opts := []document.Option{
		document.WithGeometry(g),
		document.WithLogger(a.log.WithComponent("document")),
		document.WithHub(a.hub),
		document.WithMaxPages(cfg.Page.MaxPages),
		document.WithMaxHistory(cfg.History.MaxEntries),
		document.WithBatchWindow(cfg.BatchWindow()),
	}
	if cfg.Page.DeferContinuations {
		opts = append(opts, document.WithDeferredPagination())
	}
	if a.opts.Clock != nil {
		opts = append(opts, document.WithClock(a.opts.Clock))
	}
	return opts, nil
}

// reload applies a changed configuration to the open document. Geometry
// and history limits change live; measurement and logging settings need a
// restart.
func (a *Application) reload(cfg config.Config, err error) {
	if err != nil {
		a.log.Warn("config reload: %v; keeping current settings", err)
		return
	}
	if err := a.Apply(cfg); err != nil {
		a.log.Warn("config reload: %v", err)
	}
}

// Apply re-applies page and history settings from cfg. An invalid cfg is
// rejected before anything changes.
func (a *Application) Apply(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	prev := a.cfg
	a.mu.Unlock()

	if cfg.Page.Margins != prev.Page.Margins {
		if err := a.doc.SetMargins(cfg.Page.Margins); err != nil {
			return fmt.Errorf("margins: %w", err)
		}
	}
	if cfg.Page.Zoom != prev.Page.Zoom {
		if err := a.doc.SetZoom(cfg.Page.Zoom); err != nil {
			return fmt.Errorf("zoom: %w", err)
		}
	}
	a.doc.SetHistoryLimits(cfg.History.MaxEntries, cfg.BatchWindow())
	a.log.SetLevel(cfg.LogLevel())

	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	a.hub.Publish(notify.Event{Topic: notify.TopicConfigLoad, Kind: notify.KindChanged, Value: cfg, Source: "config"})
	return nil
}

// Config returns the active configuration.
func (a *Application) Config() config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Document returns the open document.
func (a *Application) Document() *document.Document {
	return a.doc
}

// Events returns the hub document and config events are published on.
func (a *Application) Events() *notify.Hub {
	return a.hub
}

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger {
	return a.log
}

// CacheStats returns measurement cache hits and misses, or zeros when the
// cache is disabled.
func (a *Application) CacheStats() (hits, misses uint64) {
	if a.cache == nil {
		return 0, 0
	}
	return a.cache.Stats()
}

// Close stops the watcher and releases the hub.
func (a *Application) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			a.log.Warn("stopping watcher: %v", err)
		}
	}
	if a.doc != nil {
		a.doc.Close()
	}
	if a.hub != nil {
		a.hub.Close()
	}
}
