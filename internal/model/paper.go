package model

import "time"

// Identifier holds the persistent identifiers extracted from a free-form
// input string. Either field may be empty.
type Identifier struct {
	DOI   string `json:"doi,omitempty"`
	ArXiv string `json:"arxiv,omitempty"`
}

// Empty reports whether no identifier was extracted.
func (id Identifier) Empty() bool {
	return id.DOI == "" && id.ArXiv == ""
}

// PaperQuery describes a loosely-specified paper as supplied by the caller.
// All fields are optional free text; at least one of DOI, ArXiv, or Title
// must be present for resolution to be attempted.
type PaperQuery struct {
	DOI     string `json:"doi,omitempty"`
	ArXiv   string `json:"arxiv,omitempty"`
	Title   string `json:"title,omitempty"`
	Authors string `json:"authors,omitempty"`
	Year    string `json:"year,omitempty"`
}

// HasSignal reports whether the query carries enough information to attempt
// resolution at all.
func (q PaperQuery) HasSignal() bool {
	return q.DOI != "" || q.ArXiv != "" || q.Title != ""
}

// CanonicalIdentity is the outcome of identity resolution: the canonical
// record for a query in one provider. CitingRef is an opaque
// provider-specific locator used to enumerate citing works.
type CanonicalIdentity struct {
	Provider  string `json:"provider"`
	WorkID    string `json:"work_id,omitempty"`
	DOI       string `json:"doi,omitempty"`
	CitingRef string `json:"-"`
}

// CitationRecord is one citing work's minimal temporal fingerprint. Year is
// zero when unknown; Date is an ISO-like string (at least YYYY) or empty.
type CitationRecord struct {
	Year int    `json:"year,omitempty"`
	Date string `json:"date,omitempty"`
}

// YearCount is the number of citing works published in one calendar year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// MonthCount is the number of citing works published in one calendar month,
// keyed as zero-padded "YYYY-MM".
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// YoYGrowth is the percentage change in citation count between two
// consecutive calendar years. Years whose predecessor had zero citations
// carry no growth entry.
type YoYGrowth struct {
	Year          int     `json:"year"`
	GrowthPercent float64 `json:"growth"`
}

// Paper is a stored paper record.
type Paper struct {
	ID              string    `json:"id" yaml:"id"`
	Title           string    `json:"title" yaml:"title"`
	Author          string    `json:"author,omitempty" yaml:"author,omitempty"`
	Abstract        string    `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	DOI             string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	ArXivID         string    `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	PublicationDate string    `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`
	Conference      string    `json:"conference_name,omitempty" yaml:"conference_name,omitempty"`
	CitationCount   int       `json:"citation_number" yaml:"citation_number"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" yaml:"updated_at"`
}

// Query derives a PaperQuery from the stored record, taking the publication
// year from the leading four characters of the publication date.
func (p Paper) Query() PaperQuery {
	q := PaperQuery{
		DOI:     p.DOI,
		ArXiv:   p.ArXivID,
		Title:   p.Title,
		Authors: p.Author,
	}
	if len(p.PublicationDate) >= 4 {
		q.Year = p.PublicationDate[:4]
	}
	return q
}
