package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scholarlab/citelens/internal/citations"
	"github.com/scholarlab/citelens/internal/config"
	"github.com/scholarlab/citelens/internal/provider"
	"github.com/scholarlab/citelens/internal/resolve"
	"github.com/scholarlab/citelens/internal/sector"
	"github.com/scholarlab/citelens/pkg/crossref"
	"github.com/scholarlab/citelens/pkg/openalex"
	"github.com/scholarlab/citelens/pkg/semanticscholar"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "citelens",
	Short: "Citation analytics across bibliographic providers",
	Long:  "Resolves paper identities against Semantic Scholar, OpenAlex, and Crossref, walks their citing-works listings, and derives citation time series and affiliation-sector counts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// engine bundles the wired analytics components.
type engine struct {
	Providers  *provider.Registry
	Resolver   *resolve.Resolver
	Aggregator *citations.Aggregator
	Sector     *sector.Service
}

// newEngine constructs the provider clients from configuration and wires
// the resolver, aggregator, and sector service over them. Registry order
// is the provider preference order: Semantic Scholar first for citing
// listings, OpenAlex for metadata and affiliations, Crossref last as a
// resolution-only backstop.
func newEngine(c *config.Config) *engine {
	s2 := semanticscholar.NewClient(
		semanticscholar.WithAPIKey(c.SemanticScholar.APIKey),
		semanticscholar.WithBaseURL(c.SemanticScholar.BaseURL),
		semanticscholar.WithRateLimit(c.SemanticScholar.RateLimit),
	)
	oa := openalex.NewClient(
		openalex.WithMailto(c.OpenAlex.Mailto),
		openalex.WithBaseURL(c.OpenAlex.BaseURL),
		openalex.WithRateLimit(c.OpenAlex.RateLimit),
	)
	cr := crossref.NewClient(
		crossref.WithMailto(c.Crossref.Mailto),
		crossref.WithBaseURL(c.Crossref.BaseURL),
		crossref.WithRateLimit(c.Crossref.RateLimit),
	)

	registry := provider.NewRegistry(
		provider.NewSemanticScholar(s2),
		provider.NewOpenAlex(oa),
		provider.NewCrossref(cr),
	)
	resolver := resolve.New(registry)

	return &engine{
		Providers:  registry,
		Resolver:   resolver,
		Aggregator: citations.New(registry, resolver, sector.TwoFlag, c.Citations),
		Sector:     sector.NewService(registry, resolver, sector.TwoFlag),
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
