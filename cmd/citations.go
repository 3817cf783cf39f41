package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scholarlab/citelens/internal/citations"
	"github.com/scholarlab/citelens/internal/sector"
)

var (
	citationsFlags        queryFlags
	citationsAffiliations bool
)

var citationsCmd = &cobra.Command{
	Use:   "citations",
	Short: "Aggregate a paper's citing works into time series",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		eng := newEngine(cfg)

		result, err := eng.Aggregator.Aggregate(ctx, citationsFlags.query(), citations.Options{
			IncludeAffiliations: citationsAffiliations,
		})
		if err != nil {
			return eris.Wrap(err, "aggregate citations")
		}

		zap.L().Info("citations aggregated",
			zap.Int("total", result.Total),
			zap.String("source", result.Provider),
			zap.String("doi", result.DOI),
		)
		return printJSON(result)
	},
}

var affiliationsFlags queryFlags

var affiliationsCmd = &cobra.Command{
	Use:   "affiliations",
	Short: "Count citing works by institutional sector",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		eng := newEngine(cfg)

		counts := eng.Aggregator.AffiliationCounts(ctx, affiliationsFlags.query(), sector.Full)
		return printJSON(map[string]any{
			"counts": counts,
			"total":  counts.Total(),
		})
	},
}

func init() {
	citationsFlags.register(citationsCmd)
	citationsCmd.Flags().BoolVar(&citationsAffiliations, "affiliations", false, "classify citing works by sector during the walk")
	rootCmd.AddCommand(citationsCmd)

	affiliationsFlags.register(affiliationsCmd)
	rootCmd.AddCommand(affiliationsCmd)
}
