package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resolveFlags queryFlags

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a paper's canonical identity across providers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		eng := newEngine(cfg)

		q := resolveFlags.query()
		identity, err := eng.Resolver.Resolve(ctx, q)
		if err != nil {
			return eris.Wrap(err, "resolve")
		}
		if identity == nil {
			zap.L().Info("identity unresolved", zap.String("title", q.Title))
			return printJSON(map[string]any{"doi": nil})
		}

		return printJSON(map[string]any{
			"doi": identity.DOI,
			"via": identity.Provider,
		})
	},
}

func init() {
	resolveFlags.register(resolveCmd)
	rootCmd.AddCommand(resolveCmd)
}
