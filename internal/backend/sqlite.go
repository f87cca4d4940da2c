package backend

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/matsen/dimnet/internal/network"
	"github.com/matsen/dimnet/internal/query"
)

// SQLite runs queries against a local publication snapshot.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates a snapshot database at the given path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: creating snapshot directory: %w", network.ErrIO, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", network.ErrIO, err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating schema: %w", network.ErrIO, err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Dialect returns query.SQLite.
func (s *SQLite) Dialect() query.Dialect {
	return query.SQLite
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS publications (
			id TEXT PRIMARY KEY,
			year INTEGER NOT NULL,
			title TEXT NOT NULL,
			abstract TEXT
		);

		CREATE TABLE IF NOT EXISTS grid (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS publication_orgs (
			pub_id TEXT NOT NULL,
			org_id TEXT NOT NULL,
			PRIMARY KEY (pub_id, org_id)
		);

		CREATE TABLE IF NOT EXISTS publication_concepts (
			pub_id TEXT NOT NULL,
			concept TEXT NOT NULL,
			relevance REAL NOT NULL,
			PRIMARY KEY (pub_id, concept)
		);

		CREATE INDEX IF NOT EXISTS idx_publication_orgs_org ON publication_orgs(org_id);
		CREATE INDEX IF NOT EXISTS idx_publication_concepts_concept ON publication_concepts(concept);
	`

	_, err := db.Exec(schema)
	return err
}

// Query runs q with its parameters bound by name.
func (s *SQLite) Query(ctx context.Context, q query.Query) ([]network.Row, error) {
	args := make([]any, 0, len(q.Params))
	for _, p := range q.Params {
		args = append(args, sql.Named(p.Name, p.Value))
	}

	rows, err := s.db.QueryContext(ctx, q.Text, args...)
	if err != nil {
		return nil, queryFailed(q, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, queryFailed(q, err)
	}

	var out []network.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, queryFailed(q, fmt.Errorf("scanning row %d: %w", len(out), err))
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, network.Row(values))
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed(q, err)
	}
	return out, nil
}

// RebuildFromJSONL clears the snapshot and reloads it from a JSONL export.
// It returns the number of publications loaded.
func (s *SQLite) RebuildFromJSONL(jsonlPath string) (int, error) {
	pubs, err := ReadSnapshot(jsonlPath)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("%w: starting transaction: %w", network.ErrIO, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"publication_concepts", "publication_orgs", "grid", "publications"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("%w: clearing %s table: %w", network.ErrIO, table, err)
		}
	}

	pubStmt, err := tx.Prepare(`INSERT INTO publications (id, year, title, abstract) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%w: preparing publications insert: %w", network.ErrIO, err)
	}
	defer pubStmt.Close()

	gridStmt, err := tx.Prepare(`INSERT OR REPLACE INTO grid (id, name) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%w: preparing grid insert: %w", network.ErrIO, err)
	}
	defer gridStmt.Close()

	orgStmt, err := tx.Prepare(`INSERT OR IGNORE INTO publication_orgs (pub_id, org_id) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%w: preparing publication_orgs insert: %w", network.ErrIO, err)
	}
	defer orgStmt.Close()

	conceptStmt, err := tx.Prepare(`INSERT OR IGNORE INTO publication_concepts (pub_id, concept, relevance) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%w: preparing publication_concepts insert: %w", network.ErrIO, err)
	}
	defer conceptStmt.Close()

	seen := make(map[string]bool, len(pubs))
	for _, pub := range pubs {
		if seen[pub.ID] {
			return 0, fmt.Errorf("%w: duplicate publication %s", network.ErrMalformedRow, pub.ID)
		}
		seen[pub.ID] = true

		if _, err := pubStmt.Exec(pub.ID, pub.Year, pub.Title, nullableString(pub.Abstract)); err != nil {
			return 0, fmt.Errorf("%w: inserting publication %s: %w", network.ErrIO, pub.ID, err)
		}
		for _, org := range pub.ResearchOrgs {
			if org.ID == "" {
				continue
			}
			if _, err := gridStmt.Exec(org.ID, org.Name); err != nil {
				return 0, fmt.Errorf("%w: inserting organization %s: %w", network.ErrIO, org.ID, err)
			}
			if _, err := orgStmt.Exec(pub.ID, org.ID); err != nil {
				return 0, fmt.Errorf("%w: linking %s to %s: %w", network.ErrIO, pub.ID, org.ID, err)
			}
		}
		for _, c := range pub.Concepts {
			if c.Concept == "" {
				continue
			}
			if _, err := conceptStmt.Exec(pub.ID, c.Concept, c.Relevance); err != nil {
				return 0, fmt.Errorf("%w: inserting concept for %s: %w", network.ErrIO, pub.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing snapshot: %w", network.ErrIO, err)
	}
	return len(pubs), nil
}

// Count returns the number of publications in the snapshot.
func (s *SQLite) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM publications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting publications: %w", network.ErrIO, err)
	}
	return n, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
