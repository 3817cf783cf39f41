package provider

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/pkg/semanticscholar"
)

type fakeS2Client struct {
	paper     *semanticscholar.Paper
	getErr    error
	papers    []semanticscholar.Paper
	citations map[int]*semanticscholar.CitationsPage

	lastID     string
	lastOffset int
	lastLimit  int
}

func (f *fakeS2Client) GetPaper(_ context.Context, id string) (*semanticscholar.Paper, error) {
	f.lastID = id
	return f.paper, f.getErr
}

func (f *fakeS2Client) SearchPapers(_ context.Context, _ string, limit int) ([]semanticscholar.Paper, error) {
	f.lastLimit = limit
	return f.papers, nil
}

func (f *fakeS2Client) ListCitations(_ context.Context, id string, offset, limit int) (*semanticscholar.CitationsPage, error) {
	f.lastID = id
	f.lastOffset = offset
	f.lastLimit = limit
	pg, ok := f.citations[offset]
	if !ok {
		return &semanticscholar.CitationsPage{}, nil
	}
	return pg, nil
}

func TestSemanticScholar_IdentifierRef(t *testing.T) {
	t.Parallel()

	p := NewSemanticScholar(&fakeS2Client{})

	assert.Equal(t, "DOI:10.1/xyz", p.IdentifierRef(model.Identifier{DOI: "10.1/xyz"}))
	assert.Equal(t, "arXiv:2101.00001", p.IdentifierRef(model.Identifier{ArXiv: "2101.00001"}))
	assert.Equal(t, "DOI:10.1/xyz", p.IdentifierRef(model.Identifier{DOI: "10.1/xyz", ArXiv: "2101.00001"}),
		"doi outranks arxiv")
	assert.Empty(t, p.IdentifierRef(model.Identifier{}))
}

func TestSemanticScholar_FetchByIdentifier(t *testing.T) {
	t.Parallel()

	client := &fakeS2Client{paper: &semanticscholar.Paper{
		PaperID:         "abc123",
		Title:           "Attention Is All You Need",
		Year:            2017,
		PublicationDate: "2017-06-12",
		ExternalIDs:     semanticscholar.ExternalIDs{DOI: "10.1/xyz"},
		Authors:         []semanticscholar.Author{{Name: "Ashish Vaswani"}, {Name: ""}},
	}}
	p := NewSemanticScholar(client)

	w, err := p.FetchByIdentifier(context.Background(), model.Identifier{DOI: "10.1/xyz"})
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, "DOI:10.1/xyz", client.lastID)
	assert.Equal(t, NameSemanticScholar, w.Provider)
	assert.Equal(t, "abc123", w.ID)
	assert.Equal(t, "10.1/xyz", w.DOI)
	assert.Equal(t, 2017, w.Year)
	assert.Equal(t, []string{"Ashish Vaswani"}, w.Authors)
	assert.Equal(t, "abc123", w.CitingRef)
}

func TestSemanticScholar_FetchByIdentifier_EmptyIdentifier(t *testing.T) {
	t.Parallel()

	p := NewSemanticScholar(&fakeS2Client{getErr: eris.New("should not be called")})

	w, err := p.FetchByIdentifier(context.Background(), model.Identifier{})
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestSemanticScholar_ListCiting_OffsetWalk(t *testing.T) {
	t.Parallel()

	two := func(offset int) *semanticscholar.CitationsPage {
		return &semanticscholar.CitationsPage{
			Offset: offset,
			Data: []semanticscholar.Citation{
				{CitingPaper: &semanticscholar.Paper{Year: 2020, PublicationDate: "2020-01-01"}},
				{CitingPaper: &semanticscholar.Paper{Year: 2021}},
			},
		}
	}
	client := &fakeS2Client{citations: map[int]*semanticscholar.CitationsPage{
		0: two(0),
		2: {Data: []semanticscholar.Citation{
			{CitingPaper: &semanticscholar.Paper{Year: 2022}},
			{CitingPaper: nil}, // dropped entries do not panic
		}},
	}}
	p := NewSemanticScholar(client)
	opts := ListOptions{PageSize: 2}

	first, err := p.ListCiting(context.Background(), "DOI:10.1/xyz", "", opts)
	require.NoError(t, err)
	require.Len(t, first.Works, 2)
	assert.Equal(t, "2020-01-01", first.Works[0].Date)
	assert.Equal(t, "2", first.Next, "a full page continues the walk")

	second, err := p.ListCiting(context.Background(), "DOI:10.1/xyz", first.Next, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, client.lastOffset)
	require.Len(t, second.Works, 1)
	assert.Empty(t, second.Next, "a short page ends the walk")
}

func TestSemanticScholar_ListCiting_BadToken(t *testing.T) {
	t.Parallel()

	p := NewSemanticScholar(&fakeS2Client{})

	_, err := p.ListCiting(context.Background(), "DOI:10.1/xyz", "not-a-number", ListOptions{})
	assert.Error(t, err)
}

func TestSemanticScholar_SearchByTitle(t *testing.T) {
	t.Parallel()

	client := &fakeS2Client{papers: []semanticscholar.Paper{
		{PaperID: "p1", Title: "First"},
		{PaperID: "p2", Title: "Second"},
	}}
	p := NewSemanticScholar(client)

	works, err := p.SearchByTitle(context.Background(), "first", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, client.lastLimit)
	require.Len(t, works, 2)
	assert.Equal(t, "p1", works[0].ID)
}

func TestSemanticScholar_NoAffiliations(t *testing.T) {
	t.Parallel()

	assert.False(t, NewSemanticScholar(&fakeS2Client{}).SupportsAffiliations())
}
