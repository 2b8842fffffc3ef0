package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
)

// Options bound how much history is kept
type Options struct {
	RetentionDays int // entries older than this are pruned; 0 keeps everything
	Limit         int // most recent entries kept per connection; 0 means no limit
}

// DefaultOptions keeps 90 days and at most 1000 entries per connection
func DefaultOptions() Options {
	return Options{RetentionDays: 90, Limit: 1000}
}

// Store manages query history persistence
type Store struct {
	db   *sql.DB
	opts Options
}

// DefaultPath returns the XDG data path of the history database
func DefaultPath() (string, error) {
	return xdg.DataFile("ferrumdb/history.db")
}

// NewStore opens (creating if needed) the history database at path
func NewStore(path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("history dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history pragma: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			connection TEXT NOT NULL,
			query TEXT NOT NULL,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			duration_ms INTEGER NOT NULL,
			row_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_history_connection ON history(connection);
		CREATE INDEX IF NOT EXISTS idx_history_executed_at ON history(executed_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history schema: %w", err)
	}

	store := &Store{db: db, opts: opts}
	if err := store.cleanup(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history cleanup: %w", err)
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a new execution into history and prunes the connection's overflow
func (s *Store) Add(entry *Entry) error {
	res, err := s.db.Exec(`
		INSERT INTO history (connection, query, executed_at, duration_ms, row_count, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.Connection,
		entry.Query,
		entry.ExecutedAt.UTC(),
		entry.DurationMs,
		entry.RowCount,
		entry.Status,
		entry.ErrorMessage,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id

	if s.opts.Limit > 0 {
		return s.enforceLimit(entry.Connection, s.opts.Limit)
	}
	return nil
}

// enforceLimit keeps only the most recent N entries per connection
func (s *Store) enforceLimit(connection string, limit int) error {
	_, err := s.db.Exec(`
		DELETE FROM history
		WHERE connection = ?
		AND id NOT IN (
			SELECT id FROM history
			WHERE connection = ?
			ORDER BY executed_at DESC, id DESC
			LIMIT ?
		)
	`, connection, connection, limit)
	return err
}

// List returns paginated history entries for a connection, newest first
func (s *Store) List(connection string, limit, offset int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, connection, query, executed_at, duration_ms, row_count, status, error_message
		FROM history
		WHERE connection = ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, connection, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Connection, &e.Query, &e.ExecutedAt,
			&e.DurationMs, &e.RowCount, &e.Status, &e.ErrorMessage); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the total number of history entries for a connection
func (s *Store) Count(connection string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM history WHERE connection = ?`, connection).Scan(&count)
	return count, err
}

// cleanup removes entries older than the retention window
func (s *Store) cleanup() error {
	if s.opts.RetentionDays <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM history
		WHERE executed_at < datetime('now', ?)
	`, fmt.Sprintf("-%d days", s.opts.RetentionDays))
	return err
}
