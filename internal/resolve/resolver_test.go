package resolve

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/internal/provider"
)

// fakeProvider is a scriptable Provider for resolver tests.
type fakeProvider struct {
	name       string
	byID       *provider.Work
	byIDErr    error
	candidates []provider.Work
	searchErr  error

	fetchCalls  int
	searchCalls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) FetchByIdentifier(_ context.Context, id model.Identifier) (*provider.Work, error) {
	f.fetchCalls++
	if id.Empty() {
		return nil, nil
	}
	return f.byID, f.byIDErr
}

func (f *fakeProvider) SearchByTitle(context.Context, string, int) ([]provider.Work, error) {
	f.searchCalls++
	return f.candidates, f.searchErr
}

func (f *fakeProvider) IdentifierRef(model.Identifier) string { return "" }

func (f *fakeProvider) ListCiting(context.Context, string, string, provider.ListOptions) (*provider.CitingPage, error) {
	return nil, eris.New("not implemented")
}

func (f *fakeProvider) SupportsAffiliations() bool { return false }

func TestResolve_TrustsSuppliedDOI(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{name: "fake"}
	r := New(provider.NewRegistry(p))

	identity, err := r.Resolve(context.Background(), model.PaperQuery{DOI: "https://doi.org/10.1/xyz"})
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, ViaInput, identity.Provider)
	assert.Equal(t, "10.1/xyz", identity.DOI)
	assert.Zero(t, p.fetchCalls, "a supplied identifier is never second-guessed")
	assert.Zero(t, p.searchCalls)
}

func TestResolve_ArXivMapsToDOIViaProvider(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		name: "openalex",
		byID: &provider.Work{ID: "W42", DOI: "https://doi.org/10.2/mapped", Title: "Some Paper"},
	}
	r := New(provider.NewRegistry(p))

	identity, err := r.Resolve(context.Background(), model.PaperQuery{ArXiv: "2101.00001"})
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "openalex", identity.Provider)
	assert.Equal(t, "10.2/mapped", identity.DOI)
	assert.Equal(t, "W42", identity.WorkID)
	assert.Equal(t, 1, p.fetchCalls, "a bare arxiv id is looked up, not trusted")
}

func TestResolve_ArXivLookupFallsThroughProviders(t *testing.T) {
	t.Parallel()

	broken := &fakeProvider{name: "broken", byIDErr: eris.New("status 404")}
	match := &fakeProvider{
		name: "working",
		byID: &provider.Work{ID: "W1", DOI: "10.2/mapped"},
	}
	r := New(provider.NewRegistry(broken, match))

	identity, err := r.Resolve(context.Background(), model.PaperQuery{ArXiv: "2101.00001"})
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "working", identity.Provider)
	assert.Equal(t, "10.2/mapped", identity.DOI)
}

func TestResolve_ArXivUnresolved(t *testing.T) {
	t.Parallel()

	r := New(provider.NewRegistry(&fakeProvider{name: "fake", byIDErr: eris.New("status 404")}))

	identity, err := r.Resolve(context.Background(), model.PaperQuery{ArXiv: "2101.00001"})
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestResolve_NoSignal(t *testing.T) {
	t.Parallel()

	r := New(provider.NewRegistry(&fakeProvider{name: "fake"}))

	_, err := r.Resolve(context.Background(), model.PaperQuery{Authors: "Vaswani", Year: "2017"})
	assert.ErrorIs(t, err, ErrNoQuerySignal)
}

func TestResolve_TitleSearchAcrossProviders(t *testing.T) {
	t.Parallel()

	empty := &fakeProvider{name: "first"}
	match := &fakeProvider{
		name: "second",
		candidates: []provider.Work{{
			Provider:  "second",
			ID:        "W123",
			DOI:       "https://doi.org/10.1/abc",
			Title:     "Attention Is All You Need",
			CitingRef: "https://example.org/cited-by",
		}},
	}
	r := New(provider.NewRegistry(empty, match))

	identity, err := r.Resolve(context.Background(), model.PaperQuery{Title: "Attention Is All You Need"})
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "second", identity.Provider)
	assert.Equal(t, "10.1/abc", identity.DOI)
	assert.Equal(t, "W123", identity.WorkID)
	assert.Equal(t, "https://example.org/cited-by", identity.CitingRef)
	assert.Equal(t, 1, empty.searchCalls)
}

func TestResolve_UnresolvedIsNotAnError(t *testing.T) {
	t.Parallel()

	r := New(provider.NewRegistry(&fakeProvider{name: "fake"}))

	identity, err := r.Resolve(context.Background(), model.PaperQuery{Title: "Completely Unknown Paper"})
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestResolve_ProviderFailureFallsThrough(t *testing.T) {
	t.Parallel()

	broken := &fakeProvider{name: "broken", searchErr: eris.New("boom")}
	match := &fakeProvider{
		name:       "working",
		candidates: []provider.Work{{ID: "W1", DOI: "10.1/ok", Title: "Some Paper Title"}},
	}
	r := New(provider.NewRegistry(broken, match))

	identity, err := r.Resolve(context.Background(), model.PaperQuery{Title: "Some Paper Title"})
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "working", identity.Provider)
}

func TestFindWork_IdentifierLookupBeforeSearch(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		name: "fake",
		byID: &provider.Work{ID: "byid", Title: "Found By DOI"},
		candidates: []provider.Work{
			{ID: "bysearch", Title: "Found By Search"},
		},
	}
	r := New(provider.NewRegistry(p))

	w := r.FindWork(context.Background(), p, model.PaperQuery{DOI: "10.1/xyz", Title: "Found By Search"})
	require.NotNil(t, w)
	assert.Equal(t, "byid", w.ID)
	assert.Zero(t, p.searchCalls)
}

func TestFindWork_FallsBackToSearchOnLookupFailure(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		name:       "fake",
		byIDErr:    eris.New("status 404"),
		candidates: []provider.Work{{ID: "bysearch", Title: "Found By Search"}},
	}
	r := New(provider.NewRegistry(p))

	w := r.FindWork(context.Background(), p, model.PaperQuery{DOI: "10.1/xyz", Title: "Found By Search"})
	require.NotNil(t, w)
	assert.Equal(t, "bysearch", w.ID)
}
