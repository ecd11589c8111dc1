package config

import (
	"github.com/dshills/pagewright/internal/config/watcher"
	"github.com/dshills/pagewright/internal/logging"
)

// Watch reloads path whenever it changes and passes the result to fn.
// Reload errors are passed through so the caller can keep its current
// configuration. The returned watcher is running; Stop it when done.
func Watch(path string, log *logging.Logger, fn func(Config, error)) (*watcher.Watcher, error) {
	w, err := watcher.New(watcher.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		fn(Load(path))
	})
	w.Start()
	return w, nil
}
