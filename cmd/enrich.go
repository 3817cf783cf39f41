package main

import (
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scholarlab/citelens/internal/citations"
	"github.com/scholarlab/citelens/internal/store"
)

var enrichLimit int

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Refresh citation counts for all stored papers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		eng := newEngine(cfg)

		papers, err := st.ListPapers(ctx)
		if err != nil {
			return eris.Wrap(err, "list papers")
		}
		if len(papers) == 0 {
			zap.L().Info("no papers to enrich")
			return nil
		}
		if enrichLimit > 0 && len(papers) > enrichLimit {
			papers = papers[:enrichLimit]
		}

		zap.L().Info("enriching papers",
			zap.Int("papers", len(papers)),
			zap.Int("concurrency", cfg.Enrich.Concurrency),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Enrich.Concurrency)

		var succeeded, failed atomic.Int64

		for _, paper := range papers {
			paper := paper
			g.Go(func() error {
				log := zap.L().With(zap.String("paper", paper.ID), zap.String("title", paper.Title))

				result, err := eng.Aggregator.Aggregate(gctx, paper.Query(), citations.Options{})
				if err != nil {
					failed.Add(1)
					log.Error("aggregation failed", zap.Error(err))
					return nil // don't abort the batch on individual failure
				}

				if err := st.UpdateCitationCount(gctx, paper.ID, result.Total); err != nil {
					failed.Add(1)
					log.Error("update citation count failed", zap.Error(err))
					return nil
				}

				succeeded.Add(1)
				log.Info("paper enriched",
					zap.Int("citations", result.Total),
					zap.String("source", result.Provider),
				)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "enrich batch")
		}

		zap.L().Info("enrich complete",
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

func init() {
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "max number of papers to process (0 = all)")
	rootCmd.AddCommand(enrichCmd)
}
