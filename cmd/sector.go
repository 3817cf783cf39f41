package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var sectorFlags queryFlags

var sectorCmd = &cobra.Command{
	Use:   "sector",
	Short: "Classify a paper's own institutional sector",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		eng := newEngine(cfg)

		s, workRef, err := eng.Sector.ClassifyQuery(ctx, sectorFlags.query())
		if err != nil {
			return eris.Wrap(err, "classify sector")
		}

		out := map[string]any{"sector": s}
		if workRef != "" {
			out["work_ref"] = workRef
		}
		return printJSON(out)
	},
}

func init() {
	sectorFlags.register(sectorCmd)
	rootCmd.AddCommand(sectorCmd)
}
