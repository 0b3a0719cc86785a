// Package history records ingestion runs in a local SQLite ledger so
// operators can see what was loaded, when, and with what outcome.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rrbanda/dataloader/internal/types"
)

// RunRecord is one row in the run ledger.
type RunRecord struct {
	RunID       string
	Environment string
	StartedAt   time.Time
	FinishedAt  time.Time
	SystemCount int
	EventCount  int
	FailedCount int
	FailedIDs   string
}

// Store is the SQLite-backed run ledger.
type Store struct {
	conn *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	environment  TEXT NOT NULL,
	started_at   TIMESTAMP NOT NULL,
	finished_at  TIMESTAMP NOT NULL,
	system_count INTEGER NOT NULL DEFAULT 0,
	event_count  INTEGER NOT NULL DEFAULT 0,
	failed_count INTEGER NOT NULL DEFAULT 0,
	failed_ids   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS runs_started_at_idx ON runs(started_at);
`

// Open opens (creating if needed) the ledger at path. WAL mode keeps the
// ledger usable while a run is still writing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, types.WrapError(types.HISTORY_OPEN_FAILED, "failed to create history directory", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(types.HISTORY_OPEN_FAILED, "failed to open history database", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, types.WrapError(types.HISTORY_OPEN_FAILED, "failed to ping history database", err)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, types.WrapError(types.HISTORY_OPEN_FAILED, "failed to apply history schema", err)
	}

	return &Store{conn: conn, path: path}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Path returns the ledger file path.
func (s *Store) Path() string {
	return s.path
}

// RecordRun appends one run record inside a transaction.
func (s *Store) RecordRun(ctx context.Context, record RunRecord) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (run_id, environment, started_at, finished_at,
			                  system_count, event_count, failed_count, failed_ids)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			record.RunID, record.Environment,
			record.StartedAt.UTC(), record.FinishedAt.UTC(),
			record.SystemCount, record.EventCount,
			record.FailedCount, record.FailedIDs,
		)
		return err
	})
	if err != nil {
		return types.WrapError(types.HISTORY_WRITE_FAILED, "failed to record run", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT run_id, environment, started_at, finished_at,
		       system_count, event_count, failed_count, failed_ids
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, types.WrapError(types.HISTORY_QUERY_FAILED, "failed to query runs", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		err := rows.Scan(&r.RunID, &r.Environment, &r.StartedAt, &r.FinishedAt,
			&r.SystemCount, &r.EventCount, &r.FailedCount, &r.FailedIDs)
		if err != nil {
			return nil, types.WrapError(types.HISTORY_QUERY_FAILED, "failed to scan run row", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.HISTORY_QUERY_FAILED, "failed to iterate run rows", err)
	}
	return records, nil
}

// withTx runs fn inside a transaction, rolling back on error or panic.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
