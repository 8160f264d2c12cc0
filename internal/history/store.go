// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a local SQLite ledger of batch runs and the
// per-file outcomes they produced.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/heic-converter/pkg/types"
)

// Run is one recorded batch.
type Run struct {
	ID        int64         `json:"id" yaml:"id"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	InputDir  string        `json:"input_dir" yaml:"input_dir"`
	OutputDir string        `json:"output_dir" yaml:"output_dir"`
	Total     int           `json:"total" yaml:"total"`
	Converted int           `json:"converted" yaml:"converted"`
	Errors    int           `json:"errors" yaml:"errors"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and its schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			total INTEGER NOT NULL,
			converted INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			source_path TEXT NOT NULL,
			file_name TEXT NOT NULL,
			output_path TEXT,
			success INTEGER NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores a run and all of its outcomes in one transaction and
// returns the new run ID. run.ID is ignored.
func (s *Store) RecordRun(ctx context.Context, run Run, outcomes []types.ConversionOutcome) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, input_dir, output_dir, total, converted, errors, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.InputDir, run.OutputDir,
		run.Total, run.Converted, run.Errors, run.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, source_path, file_name, output_path, success, error)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.ExecContext(ctx, id, o.SourcePath, o.FileName, o.OutputPath, o.Success, o.Error); err != nil {
			return 0, fmt.Errorf("inserting outcome %s: %w", o.FileName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, input_dir, output_dir, total, converted, errors, duration_ms
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&r.ID, &startedAt, &r.InputDir, &r.OutputDir,
			&r.Total, &r.Converted, &r.Errors, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing start time of run %d: %w", r.ID, err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Failures returns the failed outcomes recorded for runID.
func (s *Store) Failures(ctx context.Context, runID int64) ([]types.ConversionOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_path, file_name, error FROM outcomes
		 WHERE run_id = ? AND success = 0 ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var out []types.ConversionOutcome
	for rows.Next() {
		var (
			o   types.ConversionOutcome
			msg sql.NullString
		)
		if err := rows.Scan(&o.SourcePath, &o.FileName, &msg); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Error = msg.String
		out = append(out, o)
	}
	return out, rows.Err()
}
