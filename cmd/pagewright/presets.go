package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/pagewright/internal/page"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List margin presets and zoom levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PRESET\tTOP\tBOTTOM\tLEFT\tRIGHT")
		for _, p := range page.Presets() {
			m := p.Margins()
			fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t%.0f\t%.0f\n", p, m.Top, m.Bottom, m.Left, m.Right)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nzoom levels: %v\n", page.ZoomLevels)
		return nil
	},
}
