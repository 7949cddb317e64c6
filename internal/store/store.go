// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists ingested records and linking-run audit rows in
// a SQLite database. Upserts are idempotent on (source_id, url) so
// collectors can re-deliver batches safely.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/story-linker/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "stories.db"
)

// Store manages the record database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at dataDir/index/stories.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			source_id TEXT NOT NULL,
			url TEXT NOT NULL,
			tier INTEGER NOT NULL,
			kind TEXT,
			title TEXT,
			published_at TEXT,
			date_confidence TEXT,
			content_hash TEXT,
			metadata TEXT,
			ingested_at TEXT NOT NULL,
			UNIQUE(source_id, url)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_source ON records(source_id)`,
		`CREATE TABLE IF NOT EXISTS link_runs (
			run_id TEXT PRIMARY KEY,
			generated_at TEXT NOT NULL,
			items_in INTEGER NOT NULL,
			stories_out INTEGER NOT NULL,
			merges_total INTEGER NOT NULL,
			fallback_merges INTEGER NOT NULL,
			checksum TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// UpsertSummary holds counts from one record ingestion.
type UpsertSummary struct {
	Inserted  int
	Updated   int
	Unchanged int
}

// Total returns the number of records processed.
func (u UpsertSummary) Total() int {
	return u.Inserted + u.Updated + u.Unchanged
}

// UpsertRecords writes a record batch. Records already present with the
// same content hash are left untouched; changed records are updated in
// place. The whole batch commits in one transaction.
func (s *Store) UpsertRecords(ctx context.Context, records []types.Record) (UpsertSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UpsertSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary UpsertSummary
	now := time.Now().UTC().Format(time.RFC3339)

	for _, r := range records {
		var existingHash string
		err := tx.QueryRowContext(ctx,
			`SELECT content_hash FROM records WHERE source_id = ? AND url = ?`,
			r.SourceID, r.URL,
		).Scan(&existingHash)

		switch {
		case err == sql.ErrNoRows:
			summary.Inserted++
		case err != nil:
			return summary, fmt.Errorf("checking record %s: %w", r.URL, err)
		case existingHash == r.ContentHash:
			summary.Unchanged++
			continue
		default:
			summary.Updated++
		}

		metadataJSON, _ := json.Marshal(r.Metadata)
		publishedAt := ""
		if r.PublishedAt != nil {
			publishedAt = r.PublishedAt.UTC().Format(time.RFC3339)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (source_id, url, tier, kind, title, published_at, date_confidence, content_hash, metadata, ingested_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(source_id, url) DO UPDATE SET
				tier=excluded.tier, kind=excluded.kind, title=excluded.title,
				published_at=excluded.published_at, date_confidence=excluded.date_confidence,
				content_hash=excluded.content_hash, metadata=excluded.metadata`,
			r.SourceID, r.URL, r.Tier, r.Kind, r.Title,
			publishedAt, string(r.DateConfidence), r.ContentHash, string(metadataJSON), now,
		)
		if err != nil {
			return summary, fmt.Errorf("upserting record %s: %w", r.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing batch: %w", err)
	}
	return summary, nil
}

// LoadRecords returns all stored records in insertion order.
func (s *Store) LoadRecords(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_id, url, tier, kind, title, published_at, date_confidence, content_hash, metadata
		 FROM records ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var r types.Record
		var publishedAt, confidence, metadataJSON string
		if err := rows.Scan(&r.SourceID, &r.URL, &r.Tier, &r.Kind, &r.Title,
			&publishedAt, &confidence, &r.ContentHash, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if publishedAt != "" {
			if t, err := time.Parse(time.RFC3339, publishedAt); err == nil {
				r.PublishedAt = &t
			}
		}
		r.DateConfidence = types.DateConfidence(confidence)
		if metadataJSON != "" {
			// Corrupt metadata degrades to none: linking still works
			// without the blob.
			_ = json.Unmarshal([]byte(metadataJSON), &r.Metadata)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecordRun persists the audit row for one linking run.
func (s *Store) RecordRun(ctx context.Context, runID string, generatedAt time.Time, result types.LinkerResult, checksum string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO link_runs (run_id, generated_at, items_in, stories_out, merges_total, fallback_merges, checksum)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, generatedAt.UTC().Format(time.RFC3339),
		result.ItemsIn, result.StoriesOut, result.MergesTotal, result.FallbackMerges, checksum,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}
	return nil
}
