// Package sqlitesource reads the feature catalog a build pipeline prepares
// for the index generator out of a SQLite database.
//
// The catalog holds one row per (token, feature id, rank) and keeps a unique
// covering index over exactly those columns. SQLite's BINARY collation orders
// UTF-8 text by code point, which is the same order the generator sorts keys
// into, so Entries streams rows in builder order straight off the index and
// the result can feed BuildIndex with AssumeSorted set.
package sqlitesource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Fayozjon/omim/searchindex"
)

var ErrBadRow = errors.New("sqlitesource: feature row out of range")

const schema = `
CREATE TABLE IF NOT EXISTS features (
	token      TEXT    NOT NULL,
	feature_id INTEGER NOT NULL,
	rank       INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_features_builder_order
	ON features(token, feature_id, rank);
`

// Catalog is a SQLite backed source of index entries.
type Catalog struct {
	db *sql.DB
}

// Open opens the catalog at path, creating the schema if it is absent.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return nil, errors.New("sqlitesource: path is required")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitesource: open %s: %w", path, err)
	}
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitesource: init schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put inserts entries into the catalog. Rows identical in all three columns
// collapse to one, matching what the generator would do with them anyway.
func (c *Catalog) Put(ctx context.Context, entries ...searchindex.Entry) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitesource: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO features (token, feature_id, rank) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlitesource: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx, e.Token, int64(e.Feature.ID), int64(e.Feature.Rank)); err != nil {
			return fmt.Errorf("sqlitesource: insert %q: %w", e.Token, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlitesource: commit: %w", err)
	}
	return nil
}

// Count returns the number of catalog rows.
func (c *Catalog) Count(ctx context.Context) (uint64, error) {
	var n int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM features`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlitesource: count: %w", err)
	}
	return uint64(n), nil
}

// Entries streams the catalog in builder order, calling fn once per row. A
// non-nil error from fn stops the scan and is returned as is.
func (c *Catalog) Entries(ctx context.Context, fn func(searchindex.Entry) error) error {
	rows, err := c.db.QueryContext(ctx,
		`SELECT token, feature_id, rank FROM features ORDER BY token, feature_id, rank`)
	if err != nil {
		return fmt.Errorf("sqlitesource: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			token string
			id    int64
			rank  int64
		)
		if err = rows.Scan(&token, &id, &rank); err != nil {
			return fmt.Errorf("sqlitesource: scan: %w", err)
		}
		if id < 0 || id > math.MaxUint32 || rank < 0 || rank > math.MaxUint8 {
			return fmt.Errorf("token %q id %d rank %d: %w", token, id, rank, ErrBadRow)
		}
		e := searchindex.Entry{
			Token:   token,
			Feature: searchindex.Feature{ID: uint32(id), Rank: uint8(rank)},
		}
		if err = fn(e); err != nil {
			return err
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("sqlitesource: iterate: %w", err)
	}
	return nil
}

// ReadAll collects the whole catalog in builder order.
func (c *Catalog) ReadAll(ctx context.Context) ([]searchindex.Entry, error) {
	var entries []searchindex.Entry
	err := c.Entries(ctx, func(e searchindex.Entry) error {
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
