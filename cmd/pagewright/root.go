package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/pagewright/internal/app"
)

var (
	cfgFile      string
	logLevel     string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pagewright",
	Short: "Paginate rich-text documents and replay editing sessions",
	Long: `Pagewright splits rich-text content across fixed-size pages and keeps an
undo/redo history of the document.

  paginate FILE     lay out an HTML, Markdown or text file and list its pages
  replay SCRIPT     run a Lua editing session against a fresh document
  presets           list margin presets and zoom levels`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (.toml or .yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "override the configured log level",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "text", "output format: text or yaml",
	)

	rootCmd.AddCommand(paginateCmd, replayCmd, presetsCmd)
}

func appOptions() app.Options {
	return app.Options{
		ConfigPath: cfgFile,
		LogLevel:   logLevel,
	}
}
