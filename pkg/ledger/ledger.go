// Package ledger provides persistent run history for issue creation.
//
// Every synchronization run is recorded in a local SQLite database
// together with the issues it created, so past runs can be listed and
// inspected without querying the ticketing backend.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lerenn/spec-sync/pkg/ticketing"
	_ "modernc.org/sqlite"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=ledger.go -destination=mocks/ledger.gen.go -package=mocks

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	spec_file TEXT NOT NULL,
	system TEXT NOT NULL,
	dry_run INTEGER NOT NULL DEFAULT 0,
	total_created INTEGER NOT NULL,
	total_failed INTEGER NOT NULL,
	started_at TIMESTAMP NOT NULL,
	elapsed_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_spec_file ON runs(spec_file);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

CREATE TABLE IF NOT EXISTS run_issues (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	remote_id TEXT NOT NULL,
	identifier TEXT,
	url TEXT,
	title TEXT NOT NULL,
	status TEXT,
	parent_remote_id TEXT,
	local_id TEXT,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_issues_run_id ON run_issues(run_id);
`

// Run is one recorded synchronization run.
type Run struct {
	ID           int64
	SpecFile     string
	System       string
	DryRun       bool
	TotalCreated int
	TotalFailed  int
	StartedAt    time.Time
	Elapsed      time.Duration
}

// Manager defines the interface for run history management.
type Manager interface {
	// RecordRun stores a run and its created issues in one transaction.
	// The run's ID field is set to the assigned row id on success.
	RecordRun(run *Run, created []*ticketing.CreatedIssue) error

	// Runs lists recorded runs, most recent first. A limit <= 0 returns
	// all runs.
	Runs(limit int) ([]*Run, error)

	// LastRun returns the most recent run for the given specification
	// file, or nil when the file has never been synchronized.
	LastRun(specFile string) (*Run, error)

	// IssuesForRun returns the issues created by the given run.
	IssuesForRun(runID int64) ([]*ticketing.CreatedIssue, error)

	// Stats returns aggregate totals over the whole history.
	Stats() (runs, issues int, err error)

	// Close closes the underlying database.
	Close() error
}

type realManager struct {
	db   *sql.DB
	path string
}

// NewManager creates or opens the run history database at path,
// creating parent directories as needed.
func NewManager(path string) (Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLedgerOpen, path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrLedgerOpen, p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: initialize schema: %w", ErrLedgerOpen, err)
	}

	return &realManager{db: db, path: path}, nil
}

func (m *realManager) RecordRun(run *Run, created []*ticketing.CreatedIssue) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
		INSERT INTO runs (spec_file, system, dry_run, total_created, total_failed, started_at, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.SpecFile, run.System, run.DryRun, run.TotalCreated, run.TotalFailed,
		run.StartedAt, run.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	for _, record := range created {
		_, err := tx.Exec(`
			INSERT INTO run_issues (run_id, remote_id, identifier, url, title, status, parent_remote_id, local_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, record.ID, record.Identifier, record.URL, record.Title,
			string(record.Status), record.ParentID, record.LocalID, record.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to record issue %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	run.ID = runID
	return nil
}

func (m *realManager) Runs(limit int) ([]*Run, error) {
	query := `
		SELECT id, spec_file, system, dry_run, total_created, total_failed, started_at, elapsed_ms
		FROM runs
		ORDER BY started_at DESC, id DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (m *realManager) LastRun(specFile string) (*Run, error) {
	row := m.db.QueryRow(`
		SELECT id, spec_file, system, dry_run, total_created, total_failed, started_at, elapsed_ms
		FROM runs
		WHERE spec_file = ?
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`, specFile)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (m *realManager) IssuesForRun(runID int64) ([]*ticketing.CreatedIssue, error) {
	var exists int
	err := m.db.QueryRow("SELECT COUNT(*) FROM runs WHERE id = ?", runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues for run %d: %w", runID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}

	rows, err := m.db.Query(`
		SELECT remote_id, identifier, url, title, status, parent_remote_id, local_id, created_at
		FROM run_issues
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues for run %d: %w", runID, err)
	}
	defer rows.Close()

	var created []*ticketing.CreatedIssue
	for rows.Next() {
		var record ticketing.CreatedIssue
		var identifier, url, status, parentID, localID sql.NullString

		err := rows.Scan(&record.ID, &identifier, &url, &record.Title,
			&status, &parentID, &localID, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}

		record.Identifier = identifier.String
		record.URL = url.String
		record.Status = ticketing.Status(status.String)
		record.ParentID = parentID.String
		record.LocalID = localID.String

		created = append(created, &record)
	}

	return created, rows.Err()
}

func (m *realManager) Stats() (runs, issues int, err error) {
	if err = m.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&runs); err != nil {
		err = fmt.Errorf("failed to compute stats: %w", err)
		return
	}
	if err = m.db.QueryRow("SELECT COUNT(*) FROM run_issues").Scan(&issues); err != nil {
		err = fmt.Errorf("failed to compute stats: %w", err)
		return
	}
	return
}

func (m *realManager) Close() error {
	return m.db.Close()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var elapsedMs int64

	err := s.Scan(&run.ID, &run.SpecFile, &run.System, &run.DryRun,
		&run.TotalCreated, &run.TotalFailed, &run.StartedAt, &elapsedMs)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return &run, nil
}
