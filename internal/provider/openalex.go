package provider

import (
	"context"
	"strconv"
	"strings"

	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/pkg/openalex"
)

// NameOpenAlex identifies the OpenAlex backend.
const NameOpenAlex = "openalex"

const openAlexDefaultPageSize = 200

// OpenAlex adapts the OpenAlex works API to the Provider contract. Citing
// works are paginated either by page number or by opaque cursor; both
// terminate on a short page, the cursor walk additionally on a missing
// next cursor.
type OpenAlex struct {
	client openalex.Client
}

// NewOpenAlex wraps an OpenAlex client.
func NewOpenAlex(client openalex.Client) *OpenAlex {
	return &OpenAlex{client: client}
}

func (p *OpenAlex) Name() string { return NameOpenAlex }

func (p *OpenAlex) FetchByIdentifier(ctx context.Context, id model.Identifier) (*Work, error) {
	var key string
	switch {
	case id.DOI != "":
		key = "doi:" + id.DOI
	case id.ArXiv != "":
		key = "arXiv:" + id.ArXiv
	default:
		return nil, nil
	}
	work, err := p.client.GetWork(ctx, key)
	if err != nil {
		return nil, err
	}
	return p.toWork(work), nil
}

func (p *OpenAlex) SearchByTitle(ctx context.Context, title string, limit int) ([]Work, error) {
	results, err := p.client.SearchWorks(ctx, title, limit)
	if err != nil {
		return nil, err
	}
	works := make([]Work, 0, len(results))
	for i := range results {
		works = append(works, *p.toWork(&results[i]))
	}
	return works, nil
}

// IdentifierRef is always empty: the cited_by locator only comes with a
// work's metadata, so an identifier lookup has to happen first.
func (p *OpenAlex) IdentifierRef(model.Identifier) string { return "" }

func (p *OpenAlex) ListCiting(ctx context.Context, ref, token string, opts ListOptions) (*CitingPage, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = openAlexDefaultPageSize
	}
	selectFields := openalex.SelectDates
	if opts.IncludeInstitutions {
		selectFields = openalex.SelectDatesAuthorships
	}

	var (
		page *openalex.WorksPage
		err  error
	)
	if opts.Cursor {
		cursor := token
		if cursor == "" {
			cursor = openalex.CursorStart
		}
		page, err = p.client.ListCitedByCursor(ctx, ref, cursor, pageSize, selectFields)
	} else {
		pageNum := 1
		if token != "" {
			pageNum, err = strconv.Atoi(token)
			if err != nil {
				return nil, err
			}
		}
		page, err = p.client.ListCitedBy(ctx, ref, pageNum, pageSize, selectFields)
		if err == nil && len(page.Results) == pageSize {
			page.Meta.NextCursor = strconv.Itoa(pageNum + 1)
		} else if page != nil {
			page.Meta.NextCursor = ""
		}
	}
	if err != nil {
		return nil, err
	}

	out := &CitingPage{Works: make([]CitingWork, 0, len(page.Results))}
	for i := range page.Results {
		w := &page.Results[i]
		cw := CitingWork{Year: w.PublicationYear, Date: w.PublicationDate}
		if opts.IncludeInstitutions {
			cw.InstitutionTypes = institutionTypes(w.Authorships)
		}
		out.Works = append(out.Works, cw)
	}
	if len(page.Results) > 0 {
		out.Next = page.Meta.NextCursor
	}
	return out, nil
}

func (p *OpenAlex) SupportsAffiliations() bool { return true }

func (p *OpenAlex) toWork(w *openalex.Work) *Work {
	authors := make([]string, 0, len(w.Authorships))
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			authors = append(authors, a.Author.DisplayName)
		}
	}
	return &Work{
		Provider:         NameOpenAlex,
		ID:               w.ID,
		DOI:              stripDOIURL(w.DOI),
		Title:            w.Title,
		Year:             w.PublicationYear,
		Date:             w.PublicationDate,
		Authors:          authors,
		CitingRef:        w.CitedByAPIURL,
		InstitutionTypes: institutionTypes(w.Authorships),
	}
}

// institutionTypes collects the distinct lowercased institution-type
// strings across a work's authorships.
func institutionTypes(authorships []openalex.Authorship) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, a := range authorships {
		for _, inst := range a.Institutions {
			t := strings.ToLower(strings.TrimSpace(inst.Type))
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			types = append(types, t)
		}
	}
	return types
}

func stripDOIURL(doi string) string {
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	return strings.TrimPrefix(doi, "http://doi.org/")
}
