// Package sqlite persists the record list in a single-row SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	sqldocs "subprofile/docs/schema/sql"
	"subprofile/internal/infra/persistence/state"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "subprofile.db"

// Store keeps the serialized record list in the state table, one row per
// storage key.
type Store struct {
	*state.Records
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at path and ensures the
// state table exists.
func NewStore(path, key string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if key == "" {
		return nil, fmt.Errorf("storage key required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, stmt := range sqldocs.SplitStatements(sqldocs.SQLite) {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create state table: %w", err)
		}
	}
	return &Store{Records: state.NewRecords(&bucket{db: db, key: key}), db: db, path: path}, nil
}

// DB exposes the underlying handle for tests.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

type bucket struct {
	db  *sql.DB
	key string
}

func (b *bucket) Read(ctx context.Context) ([]byte, bool, error) {
	var payload []byte
	err := b.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, b.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select state: %w", err)
	}
	return payload, true, nil
}

func (b *bucket) Write(ctx context.Context, payload []byte) (retErr error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, b.key, payload); err != nil {
		return fmt.Errorf("upsert %s: %w", b.key, err)
	}
	return tx.Commit()
}
