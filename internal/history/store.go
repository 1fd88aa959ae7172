// Package history records finished workout sessions in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// ErrInvalidLimit is returned by Recent for a non-positive limit.
var ErrInvalidLimit = errors.New("limit must be positive")

// Entry is one finished session.
type Entry struct {
	ID             string
	PlanID         string
	Title          string
	StartedAt      time.Time
	FinishedAt     time.Time
	ElapsedSeconds int
	Completed      []string
	Skipped        []string
}

// Store manages the sessions table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and initializes the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id              TEXT PRIMARY KEY,
		plan_id         TEXT NOT NULL,
		title           TEXT NOT NULL,
		started_at      TEXT NOT NULL,
		finished_at     TEXT NOT NULL,
		elapsed_seconds INTEGER NOT NULL DEFAULT 0,
		completed       TEXT NOT NULL DEFAULT '[]',
		skipped         TEXT NOT NULL DEFAULT '[]'
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_finished ON sessions(finished_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a finished session. A missing ID is filled with a new UUID and
// written back into the returned entry.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.FinishedAt.IsZero() {
		e.FinishedAt = time.Now()
	}

	completed, err := encodeNames(e.Completed)
	if err != nil {
		return e, err
	}
	skipped, err := encodeNames(e.Skipped)
	if err != nil {
		return e, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, plan_id, title, started_at, finished_at, elapsed_seconds, completed, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.PlanID, e.Title,
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.FinishedAt.UTC().Format(time.RFC3339Nano),
		e.ElapsedSeconds, completed, skipped,
	)
	if err != nil {
		return e, fmt.Errorf("record session %s: %w", e.ID, err)
	}
	return e, nil
}

// Recent returns up to limit sessions, most recently finished first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plan_id, title, started_at, finished_at, elapsed_seconds, completed, skipped
		 FROM sessions ORDER BY finished_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                  Entry
			started, finished  string
			completed, skipped string
		)
		if err := rows.Scan(&e.ID, &e.PlanID, &e.Title, &started, &finished, &e.ElapsedSeconds, &completed, &skipped); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if e.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("session %s started_at: %w", e.ID, err)
		}
		if e.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("session %s finished_at: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(completed), &e.Completed); err != nil {
			return nil, fmt.Errorf("session %s completed: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(skipped), &e.Skipped); err != nil {
			return nil, fmt.Errorf("session %s skipped: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func encodeNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	b, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("encode names: %w", err)
	}
	return string(b), nil
}
