package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mailnudge/internal/model"

	_ "modernc.org/sqlite"
)

// Ledger records follow-up dispatch attempts across runs in a local SQLite
// database. It is an audit surface for the TUI, not a deduplication
// mechanism: eligibility is always derived from thread history.
type Ledger struct {
	db *sql.DB
}

// NewLedger opens (or creates) the database at the given path and runs migrations.
func NewLedger(dbPath string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL keeps concurrent reads cheap while a run is appending.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Ledger{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS dispatches (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	thread_id TEXT NOT NULL,
	recipient TEXT NOT NULL DEFAULT '',
	subject   TEXT NOT NULL DEFAULT '',
	attempt   INTEGER NOT NULL,
	status    TEXT NOT NULL,
	run_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dispatches_thread ON dispatches(thread_id);

CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordDispatches appends one row per candidate processed in this run.
func (l *Ledger) RecordDispatches(ctx context.Context, cands []model.Candidate, runAt time.Time) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dispatches (thread_id, recipient, subject, attempt, status, run_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	at := runAt.UTC().Format(time.RFC3339)
	for _, c := range cands {
		if _, err := stmt.ExecContext(ctx, c.ThreadID, c.To, c.Subject, c.FollowupCount+1, c.Status, at); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AttemptsForThread counts prior recorded dispatches for a thread.
func (l *Ledger) AttemptsForThread(ctx context.Context, threadID string) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dispatches WHERE thread_id = ?", threadID).Scan(&n)
	return n, err
}

// RecentDispatches returns the newest ledger rows, most recent first.
func (l *Ledger) RecentDispatches(ctx context.Context, limit int) ([]model.DispatchRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT thread_id, recipient, subject, attempt, status, run_at
		FROM dispatches ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DispatchRecord
	for rows.Next() {
		var r model.DispatchRecord
		if err := rows.Scan(&r.ThreadID, &r.Recipient, &r.Subject, &r.Attempt, &r.Status, &r.RunAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LastRunAt returns the recorded time of the previous run, "" when none.
func (l *Ledger) LastRunAt(ctx context.Context) (string, error) {
	var val string
	err := l.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = 'last_run_at'").Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

func (l *Ledger) SetLastRunAt(ctx context.Context, runAt time.Time) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES ('last_run_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, runAt.UTC().Format(time.RFC3339))
	return err
}
