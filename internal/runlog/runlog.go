// Package runlog persists a provenance record of every tool run in a
// local sqlite database.
package runlog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB wraps the run-log database connection.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if necessary) the run-log database at path and
// ensures the baseline schema exists. Use MigrateUp for versioned schema
// changes beyond the baseline.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tool_runs (
			run_id       TEXT PRIMARY KEY,
			tool_name    TEXT NOT NULL,
			args         TEXT,
			working_dir  TEXT,
			elapsed_ms   BIGINT,
			success      INTEGER NOT NULL,
			error_text   TEXT,
			created_at   BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tool_runs_created ON tool_runs(created_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("runlog: ensure schema: %w", err)
	}

	return &DB{db}, nil
}

// ToolRun is one provenance record.
type ToolRun struct {
	RunID      string
	ToolName   string
	Args       []string
	WorkingDir string
	Elapsed    time.Duration
	Success    bool
	ErrorText  string
	CreatedAt  int64 // unix nanos
}

// RecordRun inserts a run record, assigning a UUID and timestamp when absent.
func (db *DB) RecordRun(run *ToolRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	_, err := db.Exec(`
		INSERT INTO tool_runs (run_id, tool_name, args, working_dir, elapsed_ms, success, error_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.ToolName, strings.Join(run.Args, " "), run.WorkingDir,
		run.Elapsed.Milliseconds(), boolToInt(run.Success), run.ErrorText, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("runlog: record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]*ToolRun, error) {
	rows, err := db.Query(`
		SELECT run_id, tool_name, args, working_dir, elapsed_ms, success, error_text, created_at
		FROM tool_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*ToolRun
	for rows.Next() {
		var (
			r         ToolRun
			args      string
			elapsedMs int64
			success   int
		)
		if err := rows.Scan(&r.RunID, &r.ToolName, &args, &r.WorkingDir,
			&elapsedMs, &success, &r.ErrorText, &r.CreatedAt); err != nil {
			return nil, err
		}
		if args != "" {
			r.Args = strings.Fields(args)
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		r.Success = success != 0
		runs = append(runs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
