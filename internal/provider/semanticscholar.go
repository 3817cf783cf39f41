package provider

import (
	"context"
	"strconv"

	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/pkg/semanticscholar"
)

// NameSemanticScholar identifies the Semantic Scholar backend.
const NameSemanticScholar = "s2"

const s2DefaultPageSize = 100

// SemanticScholar adapts the Semantic Scholar Graph API to the Provider
// contract. Citing works are paginated offset/limit style.
type SemanticScholar struct {
	client semanticscholar.Client
}

// NewSemanticScholar wraps a Semantic Scholar client.
func NewSemanticScholar(client semanticscholar.Client) *SemanticScholar {
	return &SemanticScholar{client: client}
}

func (p *SemanticScholar) Name() string { return NameSemanticScholar }

func (p *SemanticScholar) FetchByIdentifier(ctx context.Context, id model.Identifier) (*Work, error) {
	ref := p.IdentifierRef(id)
	if ref == "" {
		return nil, nil
	}
	paper, err := p.client.GetPaper(ctx, ref)
	if err != nil {
		return nil, err
	}
	return p.toWork(paper), nil
}

func (p *SemanticScholar) SearchByTitle(ctx context.Context, title string, limit int) ([]Work, error) {
	papers, err := p.client.SearchPapers(ctx, title, limit)
	if err != nil {
		return nil, err
	}
	works := make([]Work, 0, len(papers))
	for i := range papers {
		works = append(works, *p.toWork(&papers[i]))
	}
	return works, nil
}

// IdentifierRef builds the prefixed paper id Semantic Scholar accepts
// directly, so a trusted DOI or arXiv id needs no metadata round-trip
// before listing citations.
func (p *SemanticScholar) IdentifierRef(id model.Identifier) string {
	switch {
	case id.DOI != "":
		return "DOI:" + id.DOI
	case id.ArXiv != "":
		return "arXiv:" + id.ArXiv
	default:
		return ""
	}
}

func (p *SemanticScholar) ListCiting(ctx context.Context, ref, token string, opts ListOptions) (*CitingPage, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = s2DefaultPageSize
	}
	offset := 0
	if token != "" {
		o, err := strconv.Atoi(token)
		if err != nil {
			return nil, err
		}
		offset = o
	}

	page, err := p.client.ListCitations(ctx, ref, offset, pageSize)
	if err != nil {
		return nil, err
	}

	out := &CitingPage{Works: make([]CitingWork, 0, len(page.Data))}
	for _, cit := range page.Data {
		cp := cit.CitingPaper
		if cp == nil {
			continue
		}
		out.Works = append(out.Works, CitingWork{Year: cp.Year, Date: cp.PublicationDate})
	}
	// A short page signals the end of the collection.
	if len(page.Data) == pageSize {
		out.Next = strconv.Itoa(offset + pageSize)
	}
	return out, nil
}

// SupportsAffiliations is false: the citation listing carries no
// institution metadata at the fields we request.
func (p *SemanticScholar) SupportsAffiliations() bool { return false }

func (p *SemanticScholar) toWork(paper *semanticscholar.Paper) *Work {
	authors := make([]string, 0, len(paper.Authors))
	for _, a := range paper.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}
	return &Work{
		Provider:  NameSemanticScholar,
		ID:        paper.PaperID,
		DOI:       paper.ExternalIDs.DOI,
		Title:     paper.Title,
		Year:      paper.Year,
		Date:      paper.PublicationDate,
		Authors:   authors,
		CitingRef: paper.PaperID,
	}
}
