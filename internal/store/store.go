// Package store persists production records in sqlite, keyed by source
// hash for idempotent upserts, and can serve as the canonical-play
// directory when the plays table is populated.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stagefind/stagefind/internal/catalog"
	"github.com/stagefind/stagefind/internal/report"
	"github.com/stagefind/stagefind/internal/resolve"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS productions (
	source_hash TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	company_name TEXT,
	title_display TEXT,
	canonical_title TEXT,
	is_shakespeare INTEGER NOT NULL DEFAULT 0,
	start_date TEXT,
	end_date TEXT,
	venue TEXT,
	show_url TEXT,
	source_page TEXT,
	match_confidence REAL,
	raw_dates_text TEXT,
	date_confidence TEXT,
	play_id TEXT,
	first_seen_at TEXT NOT NULL,
	last_seen_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_productions_company ON productions(company_id);

CREATE TABLE IF NOT EXISTS plays (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS play_aliases (
	alias TEXT PRIMARY KEY,
	play_id TEXT NOT NULL REFERENCES plays(id)
)`

// Store wraps a sqlite database holding productions and plays.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at path and applies
// the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// UpsertProduction inserts a record or, when its source hash already
// exists, refreshes the mutable columns and touches last_seen_at. The
// record itself is never modified.
func (s *Store) UpsertProduction(ctx context.Context, rec report.ProductionRecord) error {
	now := rec.FetchedAt.UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO productions (
			source_hash, company_id, company_name, title_display,
			canonical_title, is_shakespeare, start_date, end_date, venue,
			show_url, source_page, match_confidence, raw_dates_text,
			date_confidence, play_id, first_seen_at, last_seen_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_hash) DO UPDATE SET
			canonical_title = excluded.canonical_title,
			is_shakespeare = excluded.is_shakespeare,
			match_confidence = excluded.match_confidence,
			date_confidence = excluded.date_confidence,
			play_id = excluded.play_id,
			last_seen_at = excluded.last_seen_at`,
		rec.SourceHash, rec.CompanyID, rec.CompanyName, rec.TitleDisplay,
		rec.CanonicalTitle, boolInt(rec.IsShakespeare), rec.StartDate, rec.EndDate, rec.Venue,
		rec.ShowURL, rec.SourcePage, rec.MatchConfidence, rec.RawDatesText,
		rec.DateConfidence, rec.PlayID, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting production %s: %w", rec.SourceHash, err)
	}
	return nil
}

// TouchProduction updates last_seen_at for a known source hash.
func (s *Store) TouchProduction(ctx context.Context, sourceHash string, seenAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE productions SET last_seen_at = ? WHERE source_hash = ?`,
		seenAt.UTC().Format(time.RFC3339), sourceHash,
	)
	if err != nil {
		return fmt.Errorf("touching production %s: %w", sourceHash, err)
	}
	return nil
}

// SeedPlays populates the plays and aliases tables from a catalog,
// replacing existing rows. Play slugs become directory IDs.
func (s *Store) SeedPlays(ctx context.Context, c *catalog.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM play_aliases`); err != nil {
		return fmt.Errorf("clearing aliases: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM plays`); err != nil {
		return fmt.Errorf("clearing plays: %w", err)
	}
	for _, p := range c.Plays() {
		if _, err := tx.Exec(`INSERT INTO plays (id, title) VALUES (?, ?)`, p.Slug, p.Title); err != nil {
			return fmt.Errorf("inserting play %s: %w", p.Slug, err)
		}
		for _, a := range p.Aliases {
			if _, err := tx.Exec(
				`INSERT INTO play_aliases (alias, play_id) VALUES (?, ?)`,
				strings.ToLower(a), p.Slug,
			); err != nil {
				return fmt.Errorf("inserting alias %q: %w", a, err)
			}
		}
	}
	return tx.Commit()
}

// FindPlayByTitle implements resolve.Directory over the plays table.
func (s *Store) FindPlayByTitle(ctx context.Context, title string) (*resolve.Play, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title FROM plays WHERE lower(title) = lower(?)`, strings.TrimSpace(title))
	return scanPlay(row)
}

// FindPlayByAlias implements resolve.Directory over the aliases table.
func (s *Store) FindPlayByAlias(ctx context.Context, title string) (*resolve.Play, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.title FROM plays p
		JOIN play_aliases a ON a.play_id = p.id
		WHERE a.alias = lower(?)`, strings.TrimSpace(title))
	return scanPlay(row)
}

func scanPlay(row *sql.Row) (*resolve.Play, error) {
	var p resolve.Play
	if err := row.Scan(&p.ID, &p.Title); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
