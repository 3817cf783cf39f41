package main

import (
	"github.com/spf13/cobra"

	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/internal/resolve"
)

// queryFlags holds the paper-query flags shared by the resolve, citations,
// and sector commands.
type queryFlags struct {
	identifier string
	doi        string
	arxiv      string
	title      string
	authors    string
	year       string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.identifier, "identifier", "", "free-form identifier: DOI URL, bare DOI, arXiv URL, or arXiv id")
	cmd.Flags().StringVar(&f.doi, "doi", "", "bare DOI")
	cmd.Flags().StringVar(&f.arxiv, "arxiv", "", "arXiv id (YYMM.NNNNN)")
	cmd.Flags().StringVar(&f.title, "title", "", "paper title")
	cmd.Flags().StringVar(&f.authors, "authors", "", "author names, comma/semicolon/and separated")
	cmd.Flags().StringVar(&f.year, "year", "", "publication year")
}

// query assembles a PaperQuery, extracting identifiers from the free-form
// flag when no explicit DOI or arXiv id was given.
func (f *queryFlags) query() model.PaperQuery {
	q := model.PaperQuery{
		DOI:     f.doi,
		ArXiv:   f.arxiv,
		Title:   f.title,
		Authors: f.authors,
		Year:    f.year,
	}
	if f.identifier != "" && q.DOI == "" && q.ArXiv == "" {
		doi, arxiv := resolve.ParseIdentifier(f.identifier)
		q.DOI = doi
		q.ArXiv = arxiv
	}
	return q
}
