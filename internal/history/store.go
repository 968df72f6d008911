// Package history archives generation run reports in a local SQLite
// database so past runs can be listed and inspected from the CLI.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
	"git.home.luguber.info/inful/pkgfoundry/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	project     TEXT NOT NULL,
	package     TEXT NOT NULL,
	output_dir  TEXT NOT NULL,
	status      TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL,
	file_count  INTEGER NOT NULL,
	report      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
`

// RunSummary is one row of the run listing.
type RunSummary struct {
	RunID     string          `json:"run_id"`
	Project   string          `json:"project"`
	Package   string          `json:"package"`
	OutputDir string          `json:"output_dir"`
	Status    pipeline.Status `json:"status"`
	StartedAt time.Time       `json:"started_at"`
	FileCount int             `json:"file_count"`
}

// Store is the report archive.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path. ":memory:" works for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.IO(err, "open history database").WithContext("path", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.IO(err, "create history schema").WithContext("path", path)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record archives one run report. Recording the same run twice replaces
// the earlier row.
func (s *Store) Record(ctx context.Context, report *pipeline.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, errors.KindInternal, errors.SeverityFatal, "encode run report")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(run_id, project, package, output_dir, status, started_at, finished_at, file_count, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.ProjectName, report.PackageName, report.OutputDir,
		string(report.Status), report.StartedAt, report.FinishedAt, len(report.Files), string(payload))
	if err != nil {
		return errors.IO(err, "record run").WithContext("run_id", report.RunID)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, project, package, output_dir, status, started_at, file_count
		FROM runs ORDER BY started_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.IO(err, "list runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var status string
		if err := rows.Scan(&r.RunID, &r.Project, &r.Package, &r.OutputDir, &status, &r.StartedAt, &r.FileCount); err != nil {
			return nil, errors.IO(err, "scan run row")
		}
		r.Status = pipeline.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns the full archived report for a run ID.
func (s *Store) Get(ctx context.Context, runID string) (*pipeline.Report, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM runs WHERE run_id = ?`, runID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.Validation("unknown run").WithContext("run_id", runID)
	}
	if err != nil {
		return nil, errors.IO(err, "load run report").WithContext("run_id", runID)
	}
	var report pipeline.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, errors.SeverityFatal, "decode run report").
			WithContext("run_id", runID)
	}
	return &report, nil
}
