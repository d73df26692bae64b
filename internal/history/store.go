package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultMaxEntries is how many documents the store remembers
const DefaultMaxEntries = 20

// Entry is a remembered document
type Entry struct {
	Path     string
	OpenedAt time.Time
}

// Store is a recent documents list backed by SQLite
type Store struct {
	db         *sql.DB
	maxEntries int
	now        func() time.Time
}

// DefaultPath returns the database location under the XDG state directory
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "state", "rstedit", "history.db")
}

// Open opens or creates the database at dbPath
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// one connection keeps writes ordered
	db.SetMaxOpenConns(1)

	s := &Store{
		db:         db,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables() error {
	query := `CREATE TABLE IF NOT EXISTS recent (
		path      TEXT PRIMARY KEY,
		opened_at INTEGER NOT NULL
	)`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}
	return nil
}

// SetMaxEntries changes how many documents are kept
func (s *Store) SetMaxEntries(n int) {
	if n < 1 {
		n = 1
	}
	s.maxEntries = n
}

// Record marks path as used now
func (s *Store) Record(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO recent (path, opened_at) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET opened_at = excluded.opened_at`,
		abs, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", abs, err)
	}

	return s.prune()
}

// prune drops everything beyond the newest maxEntries rows
func (s *Store) prune() error {
	_, err := s.db.Exec(
		`DELETE FROM recent WHERE path NOT IN (
			SELECT path FROM recent ORDER BY opened_at DESC LIMIT ?
		)`,
		s.maxEntries,
	)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}

// List returns up to limit entries, most recent first. A limit of zero or
// less returns everything.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`SELECT path, opened_at FROM recent ORDER BY opened_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var openedAt int64
		if err := rows.Scan(&e.Path, &openedAt); err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		e.OpenedAt = time.Unix(0, openedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove forgets path
func (s *Store) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if _, err := s.db.Exec(`DELETE FROM recent WHERE path = ?`, abs); err != nil {
		return fmt.Errorf("failed to remove %s: %w", abs, err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
