package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/snapedit/internal/adjust"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in filter presets",
	Run: func(cmd *cobra.Command, _ []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBRIGHTNESS\tCONTRAST\tSATURATION\tEXPOSURE")
		for _, p := range adjust.Presets() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
				p.ID, p.Name, p.Vector.Brightness, p.Vector.Contrast, p.Vector.Saturation, p.Vector.Exposure)
		}
		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
