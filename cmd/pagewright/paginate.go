package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/pagewright/internal/app"
)

var paginateFull bool

var paginateCmd = &cobra.Command{
	Use:   "paginate FILE",
	Short: "Lay out a file and list its pages",
	Long: `Paginate loads an HTML, Markdown (.md) or plain text (.txt) file into a new
document and prints how its content was split across pages.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(appOptions())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Open(args[0]); err != nil {
			return err
		}
		return printSummary(cmd.OutOrStdout(), summarize(a.Document(), paginateFull), outputFormat)
	},
}

func init() {
	paginateCmd.Flags().BoolVar(&paginateFull, "full", false, "print each page's markup")
}
