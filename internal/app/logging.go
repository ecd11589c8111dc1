package app

import (
	"github.com/dshills/pagewright/internal/config"
	"github.com/dshills/pagewright/internal/logging"
)

func newLogger(cfg config.Config, opts Options) *logging.Logger {
	lc := logging.DefaultConfig()
	lc.Level = cfg.LogLevel()
	if opts.LogLevel != "" {
		lc.Level = logging.ParseLevel(opts.LogLevel)
	}
	if opts.LogOutput != nil {
		lc.Output = opts.LogOutput
	}
	return logging.New(lc)
}
