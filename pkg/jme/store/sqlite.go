package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists definitions to SQLite.
// It is suitable for single-process use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens or creates a store at path, a file path or
// ":memory:".
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS definitions (
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			version INTEGER NOT NULL,
			updated TEXT NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (kind, name)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(kind Kind, name string, data []byte) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}
	if data == nil {
		data = []byte{}
	}

	var version int
	err := s.db.QueryRow(`
		INSERT INTO definitions (kind, name, version, updated, data)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(kind, name) DO UPDATE SET
			version = definitions.version + 1,
			updated = excluded.updated,
			data = excluded.data
		RETURNING version
	`, string(kind), name, time.Now().UTC().Format(time.RFC3339Nano), data).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("put definition: %w", err)
	}
	return version, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(kind Kind, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRow(`
		SELECT data FROM definitions
		WHERE kind = ? AND name = ?
	`, string(kind), name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get definition: %w", err)
	}
	return data, nil
}

// List implements Store.
func (s *SQLiteStore) List(kind Kind) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT name, version, updated, LENGTH(data)
		FROM definitions
		WHERE kind = ?
		ORDER BY name
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		info := Info{Kind: kind}
		var updated string
		if err := rows.Scan(&info.Name, &info.Version, &updated, &info.Size); err != nil {
			return nil, fmt.Errorf("scan definition info: %w", err)
		}
		info.Updated, _ = time.Parse(time.RFC3339Nano, updated)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate definitions: %w", err)
	}
	return infos, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(kind Kind, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`
		DELETE FROM definitions
		WHERE kind = ? AND name = ?
	`, string(kind), name); err != nil {
		return fmt.Errorf("delete definition: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
