package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // driver: sqlite
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS roots (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`

// SQLite is a Store backed by a single SQLite database file. Transactions on
// one handle are serialized by mu and the pool is capped at one connection;
// across processes SQLite's write lock (taken at BEGIN via _txlock=immediate)
// keeps read-modify-write cycles from interleaving.
type SQLite struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	closed bool
}

// Open opens the store at path, creating the file, its parent directory and
// the schema if they do not exist. Opening an existing store is a no-op
// beyond connecting.
func Open(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("store: empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("store: mkdir %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schemaSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: schema %q: %w", path, err)
	}
	return &SQLite{db: db, path: path}, nil
}

// dsn builds the connection URI for path. The path is percent-escaped so
// '?', '#' and '%' in a file name reach SQLite intact instead of being read
// as the query string, a fragment or an escape.
func dsn(path string) string {
	u := url.URL{Path: filepath.ToSlash(path)}
	return "file:" + u.EscapedPath() + "?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000)"
}

// OpenSQLite is an Opener for SQLite stores.
func OpenSQLite(ctx context.Context, path string) (Store, error) {
	s, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Transaction implements Store.
func (s *SQLite) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	if err := fn(&sqliteTx{ctx: ctx, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Close releases the database handle. Further transactions fail with
// ErrClosed.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

type sqliteTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *sqliteTx) Fetch(key string, dst any) (bool, error) {
	var raw string
	err := t.tx.QueryRowContext(t.ctx, `SELECT value FROM roots WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: fetch %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("store: decode %q: %w", key, err)
	}
	return true, nil
}

func (t *sqliteTx) Put(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", key, err)
	}
	_, err = t.tx.ExecContext(t.ctx,
		`INSERT INTO roots (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("store: put %q: %w", key, err)
	}
	return nil
}

func (t *sqliteTx) Delete(key string) error {
	if _, err := t.tx.ExecContext(t.ctx, `DELETE FROM roots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}

func (t *sqliteTx) Roots() ([]string, error) {
	rows, err := t.tx.QueryContext(t.ctx, `SELECT key FROM roots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("store: roots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("store: roots: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: roots: %w", err)
	}
	return keys, nil
}
