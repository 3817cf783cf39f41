package sector

import (
	"context"

	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/internal/provider"
	"github.com/scholarlab/citelens/internal/resolve"
)

// Service classifies a queried paper's own affiliation sector by resolving
// it against the first affiliation-capable provider.
type Service struct {
	providers *provider.Registry
	resolver  *resolve.Resolver
	vocab     Vocabulary
}

// NewService creates a classification service using the given vocabulary.
func NewService(providers *provider.Registry, resolver *resolve.Resolver, vocab Vocabulary) *Service {
	return &Service{providers: providers, resolver: resolver, vocab: vocab}
}

// ClassifyQuery resolves the query to a work with institution metadata and
// classifies it. An unresolvable query yields Unknown and an empty work
// ref; only a query with no signal at all is an error.
func (s *Service) ClassifyQuery(ctx context.Context, q model.PaperQuery) (Sector, string, error) {
	if !q.HasSignal() {
		return Unknown, "", resolve.ErrNoQuerySignal
	}

	p := s.providers.AffiliationCapable()
	if p == nil {
		return Unknown, "", nil
	}

	w := s.resolver.FindWork(ctx, p, q)
	if w == nil {
		return Unknown, "", nil
	}
	return s.vocab.Classify(w.InstitutionTypes), w.ID, nil
}
