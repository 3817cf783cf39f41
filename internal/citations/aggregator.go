// Package citations walks provider citing-works collections and aggregates
// them into time series and sector counts.
package citations

import (
	"context"

	"go.uber.org/zap"

	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/internal/provider"
	"github.com/scholarlab/citelens/internal/resolve"
	"github.com/scholarlab/citelens/internal/sector"
	"github.com/scholarlab/citelens/internal/timeseries"
)

// Config bounds the pagination walks. The caps guard against misbehaving
// providers; they are sized for papers with tens of thousands of citations.
type Config struct {
	PageSize            int `yaml:"page_size" mapstructure:"page_size"`
	MaxPages            int `yaml:"max_pages" mapstructure:"max_pages"`
	FallbackPageSize    int `yaml:"fallback_page_size" mapstructure:"fallback_page_size"`
	FallbackMaxPages    int `yaml:"fallback_max_pages" mapstructure:"fallback_max_pages"`
	AffiliationMaxPages int `yaml:"affiliation_max_pages" mapstructure:"affiliation_max_pages"`
}

// DefaultConfig returns the production walk bounds.
func DefaultConfig() Config {
	return Config{
		PageSize:            100,
		MaxPages:            200,
		FallbackPageSize:    200,
		FallbackMaxPages:    25,
		AffiliationMaxPages: 50,
	}
}

// Options selects optional aggregation work.
type Options struct {
	// IncludeAffiliations classifies each citing work's sector during the
	// same pagination walk.
	IncludeAffiliations bool
}

// Result is the aggregated citation analytics for one paper. It is always
// well-formed: an unresolved paper yields empty series and zero totals.
type Result struct {
	Yearly   []model.YearCount  `json:"series"`
	Monthly  []model.MonthCount `json:"series_monthly"`
	Growth   []model.YoYGrowth  `json:"growth"`
	Total    int                `json:"total"`
	DOI      string             `json:"doi,omitempty"`
	Provider string             `json:"source,omitempty"`
	Sectors  *sector.Counts     `json:"sector_counts,omitempty"`
}

// Aggregator builds citation analytics by walking providers in registry
// preference order: the first provider whose citing listing yields at
// least one record serves the request exclusively, the rest are fallback.
type Aggregator struct {
	providers *provider.Registry
	resolver  *resolve.Resolver
	vocab     sector.Vocabulary
	cfg       Config
}

// New creates an Aggregator. The vocabulary classifies citing works when
// affiliation enrichment is requested.
func New(providers *provider.Registry, resolver *resolve.Resolver, vocab sector.Vocabulary, cfg Config) *Aggregator {
	return &Aggregator{providers: providers, resolver: resolver, vocab: vocab, cfg: cfg}
}

// Aggregate resolves the query against each provider in turn, walks the
// winning provider's citing-works collection, and aggregates the records.
// Provider failures are never surfaced; only a query with no signal at all
// is an error.
func (a *Aggregator) Aggregate(ctx context.Context, q model.PaperQuery, opts Options) (*Result, error) {
	if !q.HasSignal() {
		return nil, resolve.ErrNoQuerySignal
	}
	q.DOI = resolve.StripDOIURL(q.DOI)

	var (
		records    []model.CitationRecord
		counts     sector.Counts
		haveCounts bool
	)
	usedProvider := ""
	usedDOI := q.DOI

	for _, p := range a.providers.InOrder() {
		ref, work := a.citingRef(ctx, p, q)
		if ref == "" {
			continue
		}
		if work != nil && usedDOI == "" {
			usedDOI = resolve.StripDOIURL(work.DOI)
		}

		withInst := opts.IncludeAffiliations && p.SupportsAffiliations()
		pageSize, maxPages := a.walkBounds(p)
		recs, c := a.walk(ctx, p, ref, a.vocab, walkOptions{
			pageSize:     pageSize,
			maxPages:     maxPages,
			institutions: withInst,
		})
		if len(recs) == 0 {
			// Nothing from this provider; fall back to the next one.
			continue
		}

		records = recs
		usedProvider = p.Name()
		if withInst {
			counts = c
			haveCounts = true
		}
		break
	}

	// When the serving provider carries no institution metadata, the sector
	// counts still come from an affiliation-capable provider's citing walk.
	if opts.IncludeAffiliations && !haveCounts {
		counts = a.AffiliationCounts(ctx, q, a.vocab)
		haveCounts = true
	}

	res := &Result{
		Yearly:   timeseries.ByYear(records),
		Monthly:  timeseries.ByMonth(records),
		Total:    len(records),
		DOI:      usedDOI,
		Provider: usedProvider,
	}
	res.Growth = timeseries.YoY(res.Yearly)
	if haveCounts {
		res.Sectors = &counts
	}
	return res, nil
}

// AffiliationCounts walks the citing works of the first affiliation-capable
// provider with cursor pagination, folding each work's sector into the
// accumulator. An unresolvable query yields zero counts.
func (a *Aggregator) AffiliationCounts(ctx context.Context, q model.PaperQuery, vocab sector.Vocabulary) sector.Counts {
	var counts sector.Counts
	p := a.providers.AffiliationCapable()
	if p == nil {
		return counts
	}
	w := a.resolver.FindWork(ctx, p, q)
	if w == nil || w.CitingRef == "" {
		return counts
	}
	_, counts = a.walk(ctx, p, w.CitingRef, vocab, walkOptions{
		pageSize:     a.cfg.FallbackPageSize,
		maxPages:     a.cfg.AffiliationMaxPages,
		institutions: true,
		cursor:       true,
	})
	return counts
}

// citingRef locates the citing-works collection for q on one provider. A
// trusted identifier that maps directly onto a listing reference skips the
// metadata round-trip entirely.
func (a *Aggregator) citingRef(ctx context.Context, p provider.Provider, q model.PaperQuery) (string, *provider.Work) {
	id := model.Identifier{DOI: q.DOI, ArXiv: q.ArXiv}
	if !id.Empty() {
		if ref := p.IdentifierRef(id); ref != "" {
			return ref, nil
		}
	}
	w := a.resolver.FindWork(ctx, p, q)
	if w == nil || w.CitingRef == "" {
		return "", nil
	}
	return w.CitingRef, w
}

func (a *Aggregator) walkBounds(p provider.Provider) (pageSize, maxPages int) {
	if p.Name() == provider.NameSemanticScholar {
		return a.cfg.PageSize, a.cfg.MaxPages
	}
	return a.cfg.FallbackPageSize, a.cfg.FallbackMaxPages
}

type walkOptions struct {
	pageSize     int
	maxPages     int
	institutions bool
	cursor       bool
}

// walk exhausts one provider's citing-works collection: it follows the
// provider's next tokens until the collection ends, the page cap is hit,
// the context is cancelled, or a page fails. Sector counts accumulate as a
// pure fold over the page sequence.
func (a *Aggregator) walk(ctx context.Context, p provider.Provider, ref string, vocab sector.Vocabulary, opts walkOptions) ([]model.CitationRecord, sector.Counts) {
	var (
		records []model.CitationRecord
		counts  sector.Counts
	)

	token := ""
	for page := 0; page < opts.maxPages; page++ {
		if ctx.Err() != nil {
			break
		}
		pg, err := p.ListCiting(ctx, ref, token, provider.ListOptions{
			PageSize:            opts.pageSize,
			IncludeInstitutions: opts.institutions,
			Cursor:              opts.cursor,
		})
		if err != nil {
			zap.L().Debug("citing walk stopped",
				zap.String("provider", p.Name()),
				zap.Int("page", page),
				zap.Error(err),
			)
			break
		}

		for _, w := range pg.Works {
			records = append(records, model.CitationRecord{Year: w.Year, Date: w.Date})
			if opts.institutions {
				counts = counts.Add(vocab.Classify(w.InstitutionTypes))
			}
		}

		if pg.Next == "" {
			break
		}
		token = pg.Next
	}

	return records, counts
}
