package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/pkg/crossref"
)

// NameCrossref identifies the Crossref backend.
const NameCrossref = "crossref"

// Crossref adapts the Crossref REST API to the Provider contract. Crossref
// participates in identity resolution only; it exposes no citing-works
// listing at the granularity the engine needs.
type Crossref struct {
	client crossref.Client
}

// NewCrossref wraps a Crossref client.
func NewCrossref(client crossref.Client) *Crossref {
	return &Crossref{client: client}
}

func (p *Crossref) Name() string { return NameCrossref }

func (p *Crossref) FetchByIdentifier(ctx context.Context, id model.Identifier) (*Work, error) {
	if id.DOI == "" {
		// Crossref is keyed by DOI only.
		return nil, nil
	}
	item, err := p.client.GetWork(ctx, id.DOI)
	if err != nil {
		return nil, err
	}
	return p.toWork(item), nil
}

func (p *Crossref) SearchByTitle(ctx context.Context, title string, limit int) ([]Work, error) {
	items, err := p.client.QueryTitle(ctx, title, limit)
	if err != nil {
		return nil, err
	}
	works := make([]Work, 0, len(items))
	for i := range items {
		works = append(works, *p.toWork(&items[i]))
	}
	return works, nil
}

func (p *Crossref) IdentifierRef(model.Identifier) string { return "" }

func (p *Crossref) ListCiting(context.Context, string, string, ListOptions) (*CitingPage, error) {
	return nil, eris.New("crossref: citing-works listing not supported")
}

func (p *Crossref) SupportsAffiliations() bool { return false }

func (p *Crossref) toWork(item *crossref.Item) *Work {
	return &Work{
		Provider: NameCrossref,
		ID:       item.DOI,
		DOI:      item.DOI,
		Title:    item.PrimaryTitle(),
		Year:     item.Year(),
		Authors:  item.AuthorNames(),
	}
}
