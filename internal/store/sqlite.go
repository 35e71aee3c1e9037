package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/praeto/tendertrack/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS tenders (
	source        TEXT NOT NULL,
	external_id   TEXT NOT NULL,
	title         TEXT NOT NULL,
	buyer         TEXT NOT NULL,
	category      TEXT NOT NULL,
	closing_date  TEXT,
	days_remaining INTEGER NOT NULL,
	value_zar     REAL NOT NULL,
	description   TEXT,
	document_link TEXT,
	priority_buyer INTEGER NOT NULL,
	scraped_at    TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'New',
	alert_sent    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (source, external_id)
);

CREATE TABLE IF NOT EXISTS seen_keys (
	source      TEXT NOT NULL,
	external_id TEXT NOT NULL,
	first_seen  TEXT NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (source, external_id)
);
`

// SQLite stores tenders and dedup keys in a single database file.
type SQLite struct {
	db   *sql.DB
	path string
}

// DefaultPath returns ~/.tendertrack/tenders.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".tendertrack", "tenders.db"), nil
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *SQLite) Path() string { return s.path }

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

// KnownKeys loads every dedup key committed by prior runs.
func (s *SQLite) KnownKeys(ctx context.Context) (map[model.DedupKey]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, external_id FROM seen_keys`)
	if err != nil {
		return nil, fmt.Errorf("query seen_keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	known := make(map[model.DedupKey]struct{})
	for rows.Next() {
		var k model.DedupKey
		if err := rows.Scan(&k.Source, &k.ExternalID); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		known[k] = struct{}{}
	}
	return known, rows.Err()
}

// AppendTenders inserts the batch and its dedup keys in one transaction.
// Either everything commits or nothing does; a failed batch leaves the
// key set untouched so the next run re-attempts the same candidates.
func (s *SQLite) AppendTenders(ctx context.Context, tenders []model.Tender) error {
	if len(tenders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertRow, err := tx.PrepareContext(ctx, `
		INSERT INTO tenders (source, external_id, title, buyer, category,
			closing_date, days_remaining, value_zar, description,
			document_link, priority_buyer, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = insertRow.Close() }()

	insertKey, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO seen_keys (source, external_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare key insert: %w", err)
	}
	defer func() { _ = insertKey.Close() }()

	for i := range tenders {
		t := &tenders[i]

		var closing any
		if t.ClosingDate != nil {
			closing = t.ClosingDate.Format("2006-01-02")
		}

		if _, err := insertRow.ExecContext(ctx,
			t.Source, t.ExternalID, t.Title, t.Buyer, t.Category,
			closing, t.DaysRemaining, t.Value, t.Description,
			t.DocumentLink, t.PriorityBuyer, t.ScrapedAt.Format("2006-01-02"),
		); err != nil {
			return fmt.Errorf("insert tender %s: %w", t.Key(), err)
		}

		if _, err := insertKey.ExecContext(ctx, t.Source, t.ExternalID); err != nil {
			return fmt.Errorf("insert key %s: %w", t.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// MarkAlerted flips alert_sent for a persisted tender.
func (s *SQLite) MarkAlerted(ctx context.Context, key model.DedupKey) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tenders SET alert_sent = 1 WHERE source = ? AND external_id = ?`,
		key.Source, key.ExternalID)
	if err != nil {
		return fmt.Errorf("mark alerted %s: %w", key, err)
	}
	return nil
}
