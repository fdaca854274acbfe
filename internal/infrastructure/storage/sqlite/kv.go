// Package sqlite provides a SQLite-backed implementation of
// domain.KeyValueStore, used to persist carts on a single host.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"

	"github.com/mrops-br/chaverito-api/internal/domain"

	// pure-Go driver, registered as "sqlite"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
    key         TEXT PRIMARY KEY,
    value       TEXT NOT NULL,
    -- RFC3339 timestamp of the last write
    updated_at  TEXT NOT NULL
);
`

// KeyValueStore is the SQLite implementation of domain.KeyValueStore
type KeyValueStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	kv, err := sqlite.Open("./data/cart.db")
func Open(path string) (*KeyValueStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "sqlite: create directory %q", dir)
		}
	}

	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "sqlite: open %q", path)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "sqlite: apply schema")
	}

	return &KeyValueStore{db: db}, nil
}

// Close releases the database connection
func (s *KeyValueStore) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key
func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM kv_entries WHERE key = ?`

	var value string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "sqlite: get %q", key)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, q, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrapf(err, "sqlite: set %q", key)
	}
	return nil
}
