// Package store persists paper records.
package store

import (
	"context"

	"github.com/scholarlab/citelens/internal/model"
)

// Store defines the paper record persistence interface: keyed reads and
// writes plus an ordered scan. The analytics engine itself is stateless;
// only the CLI surface reads and writes papers.
type Store interface {
	GetPaper(ctx context.Context, id string) (*model.Paper, error)
	// ListPapers returns all papers ordered by publication date descending.
	ListPapers(ctx context.Context) ([]model.Paper, error)
	// PutPaper inserts a paper, assigning an id when it has none.
	PutPaper(ctx context.Context, p *model.Paper) error
	// UpdateCitationCount records the aggregated citation total for a paper.
	UpdateCitationCount(ctx context.Context, id string, count int) error

	Migrate(ctx context.Context) error
	Close() error
}
