// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package store persists the capture journal.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/demorec/internal/domain/capture/ports"
	"github.com/ManuGH/demorec/internal/persistence/sqlite"
)

const schemaVersion = 1

// DefaultRecentLimit applies when RecentCaptures is asked for zero or fewer rows.
const DefaultRecentLimit = 50

// ErrClosed is returned after Close.
var ErrClosed = errors.New("capture journal closed")

// SqliteJournal implements ports.Journal on SQLite.
type SqliteJournal struct {
	DB *sql.DB
}

var _ ports.Journal = (*SqliteJournal)(nil)

// NewSqliteJournal opens (and migrates) the journal at dbPath.
func NewSqliteJournal(dbPath string) (*SqliteJournal, error) {
	db, err := sqlite.Open(dbPath, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	j := &SqliteJournal{DB: db}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("capture journal: migration failed: %w", err)
	}
	return j, nil
}

func (j *SqliteJournal) Close() error {
	if j.DB == nil {
		return nil
	}
	err := j.DB.Close()
	j.DB = nil
	return err
}

func (j *SqliteJournal) migrate() error {
	current, err := sqlite.SchemaVersion(j.DB)
	if err != nil {
		return err
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := j.DB.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS captures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		map TEXT NOT NULL,
		artifact TEXT NOT NULL,
		session_dir TEXT NOT NULL,
		retry INTEGER NOT NULL,
		started_at_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_captures_session ON captures(session_id);
	`
	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordCapture appends one row.
func (j *SqliteJournal) RecordCapture(ctx context.Context, e ports.CaptureEntry) error {
	if j.DB == nil {
		return ErrClosed
	}
	_, err := j.DB.ExecContext(ctx, `
		INSERT INTO captures (session_id, mode, map, artifact, session_dir, retry, started_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Mode, e.Map, e.Artifact, e.SessionDirectory, e.Retry, e.StartedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("capture journal: insert: %w", err)
	}
	return nil
}

// RecentCaptures returns up to limit entries, newest first.
func (j *SqliteJournal) RecentCaptures(ctx context.Context, limit int) ([]ports.CaptureEntry, error) {
	if j.DB == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := j.DB.QueryContext(ctx, `
		SELECT session_id, mode, map, artifact, session_dir, retry, started_at_ms
		FROM captures
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("capture journal: query: %w", err)
	}
	defer rows.Close()

	out := make([]ports.CaptureEntry, 0, limit)
	for rows.Next() {
		var (
			e         ports.CaptureEntry
			startedMs int64
		)
		if err := rows.Scan(&e.SessionID, &e.Mode, &e.Map, &e.Artifact, &e.SessionDirectory, &e.Retry, &startedMs); err != nil {
			return nil, fmt.Errorf("capture journal: scan: %w", err)
		}
		e.StartedAt = time.UnixMilli(startedMs).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("capture journal: rows: %w", err)
	}
	return out, nil
}
