package resolve

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/internal/provider"
)

// ViaInput marks an identity whose DOI came verbatim from the caller's
// query, with no provider lookup.
const ViaInput = "input"

// searchLimit is the number of title-search candidates considered per
// provider.
const searchLimit = 10

// ErrNoQuerySignal is returned when a query carries none of DOI, arXiv id,
// or title. This is a caller input error, distinct from the legitimate
// "unresolved" outcome of an attempted search.
var ErrNoQuerySignal = eris.New("resolve: query carries no doi, arxiv id, or title")

// Resolver finds the canonical provider record for a paper query.
type Resolver struct {
	providers *provider.Registry
}

// New creates a Resolver over the given provider registry. Providers are
// tried in registry preference order.
func New(providers *provider.Registry) *Resolver {
	return &Resolver{providers: providers}
}

// Resolve returns the canonical identity for q, or (nil, nil) when no
// provider yields a match. An explicit DOI in the query is trusted outright
// and never second-guessed; a bare arXiv id goes through the per-provider
// identifier lookup so the fetched work's DOI surfaces.
func (r *Resolver) Resolve(ctx context.Context, q model.PaperQuery) (*model.CanonicalIdentity, error) {
	if !q.HasSignal() {
		return nil, ErrNoQuerySignal
	}

	if q.DOI != "" {
		return &model.CanonicalIdentity{
			Provider: ViaInput,
			DOI:      StripDOIURL(q.DOI),
		}, nil
	}

	for _, p := range r.providers.InOrder() {
		w := r.FindWork(ctx, p, q)
		if w == nil {
			continue
		}
		doi := StripDOIURL(w.DOI)
		if doi == "" && w.ID == "" {
			continue
		}
		zap.L().Debug("resolved identity",
			zap.String("provider", p.Name()),
			zap.String("doi", doi),
			zap.String("work_id", w.ID),
		)
		return &model.CanonicalIdentity{
			Provider:  p.Name(),
			WorkID:    w.ID,
			DOI:       doi,
			CitingRef: w.CitingRef,
		}, nil
	}

	return nil, nil
}

// FindWork locates the query's record on a single provider: direct
// identifier lookup when the query carries one, fuzzy title search
// otherwise. Provider failures are logged and treated as "no result".
func (r *Resolver) FindWork(ctx context.Context, p provider.Provider, q model.PaperQuery) *provider.Work {
	id := model.Identifier{DOI: q.DOI, ArXiv: q.ArXiv}
	if !id.Empty() {
		w, err := p.FetchByIdentifier(ctx, id)
		if err != nil {
			zap.L().Debug("identifier lookup failed",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
		}
		if w != nil {
			return w
		}
	}

	if q.Title == "" {
		return nil
	}
	candidates, err := p.SearchByTitle(ctx, q.Title, searchLimit)
	if err != nil {
		zap.L().Debug("title search failed",
			zap.String("provider", p.Name()),
			zap.Error(err),
		)
		return nil
	}
	return BestMatch(q, candidates)
}
