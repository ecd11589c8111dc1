package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/pagewright/internal/app"
	"github.com/dshills/pagewright/internal/script"
)

var (
	replayTimeout time.Duration
	replayFull    bool
	replayQuiet   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay SCRIPT.lua",
	Short: "Run a Lua editing session",
	Long: `Replay runs a Lua script against a fresh document and prints the resulting
pages. The script drives the document through the global doc table:

  doc.edit(page, markup)     doc.backspace(page)     doc.header(page, text)
  doc.save(action[, area])   doc.undo()              doc.redo()
  doc.zoom(percent)          doc.margins(name)       doc.find(query)
  doc.replace_all(q, r)      doc.settle()            doc.advance(ms)

Time is simulated: history batching only sees the time scripts pass to
doc.advance.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clock := script.NewClock(time.Now())
		opts := appOptions()
		opts.Clock = clock.Now

		a, err := app.New(opts)
		if err != nil {
			return err
		}
		defer a.Close()

		runnerOpts := []script.Option{
			script.WithClock(clock),
			script.WithLogger(a.Logger()),
			script.WithTimeout(replayTimeout),
			script.WithOutput(cmd.OutOrStdout()),
		}
		r := script.NewRunner(a.Document(), runnerOpts...)
		defer r.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := r.RunFile(ctx, args[0]); err != nil {
			return err
		}
		a.Document().Settle()

		if replayQuiet {
			return nil
		}
		return printSummary(cmd.OutOrStdout(), summarize(a.Document(), replayFull), outputFormat)
	},
}

func init() {
	replayCmd.Flags().DurationVar(&replayTimeout, "timeout", script.DefaultTimeout, "abort the script after this long")
	replayCmd.Flags().BoolVar(&replayFull, "full", false, "print each page's markup")
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "print only what the script prints")
}
