package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/scholarlab/citelens/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS papers (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	author           TEXT NOT NULL DEFAULT '',
	abstract         TEXT NOT NULL DEFAULT '',
	doi              TEXT NOT NULL DEFAULT '',
	arxiv_id         TEXT NOT NULL DEFAULT '',
	publication_date TEXT NOT NULL DEFAULT '',
	conference_name  TEXT NOT NULL DEFAULT '',
	citation_number  INTEGER NOT NULL DEFAULT 0,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_papers_publication_date ON papers(publication_date);
CREATE INDEX IF NOT EXISTS idx_papers_doi ON papers(doi);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const paperColumns = `id, title, author, abstract, doi, arxiv_id, publication_date, conference_name, citation_number, created_at, updated_at`

func (s *SQLiteStore) GetPaper(ctx context.Context, id string) (*model.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paperColumns+` FROM papers WHERE id = ?`, id)
	p, err := scanPaper(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: paper %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get paper")
	}
	return p, nil
}

func (s *SQLiteStore) ListPapers(ctx context.Context) ([]model.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paperColumns+` FROM papers ORDER BY publication_date DESC, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list papers")
	}
	defer rows.Close()

	var papers []model.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan paper")
		}
		papers = append(papers, *p)
	}
	return papers, eris.Wrap(rows.Err(), "sqlite: list papers")
}

func (s *SQLiteStore) PutPaper(ctx context.Context, p *model.Paper) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO papers (`+paperColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			abstract = excluded.abstract,
			doi = excluded.doi,
			arxiv_id = excluded.arxiv_id,
			publication_date = excluded.publication_date,
			conference_name = excluded.conference_name,
			citation_number = excluded.citation_number,
			updated_at = excluded.updated_at`,
		p.ID, p.Title, p.Author, p.Abstract, p.DOI, p.ArXivID,
		p.PublicationDate, p.Conference, p.CitationCount, p.CreatedAt, p.UpdatedAt)
	return eris.Wrap(err, "sqlite: put paper")
}

func (s *SQLiteStore) UpdateCitationCount(ctx context.Context, id string, count int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE papers SET citation_number = ?, updated_at = datetime('now') WHERE id = ?`,
		count, id)
	if err != nil {
		return eris.Wrap(err, "sqlite: update citation count")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: paper %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*model.Paper, error) {
	var p model.Paper
	err := row.Scan(&p.ID, &p.Title, &p.Author, &p.Abstract, &p.DOI, &p.ArXivID,
		&p.PublicationDate, &p.Conference, &p.CitationCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
