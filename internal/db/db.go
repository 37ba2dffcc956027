// Package db owns the client's one durable file: a small SQLite store that
// remembers the bearer token for each API the user signs in to.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// memoryPath opens a private in-memory store, used by tests.
const memoryPath = ":memory:"

// storePragmas configure the store's single connection. The CLI and a
// running TUI may hold the file at the same time, so writers wait instead of
// failing with BUSY.
var storePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
}

// OpenDB opens the token store at path, creating it readable by the owner
// only, and applies migrations. The store is pinned to one connection so the
// pragmas and, for an in-memory store, the schema hold for every query.
func OpenDB(path string) (*sql.DB, error) {
	if path != memoryPath {
		if err := ensureStoreFile(path); err != nil {
			return nil, err
		}
	}

	store, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}
	store.SetMaxOpenConns(1)

	for _, p := range storePragmas {
		if _, err := store.Exec(p); err != nil {
			store.Close()
			return nil, fmt.Errorf("configuring token store (%s): %w", p, err)
		}
	}
	if err := Migrate(store); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrating token store: %w", err)
	}
	return store, nil
}

// ensureStoreFile creates the parent directory and the store file, and
// keeps the file at 0600 whether or not it already existed.
func ensureStoreFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating token store directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("creating token store: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("creating token store: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("restricting token store: %w", err)
	}
	return nil
}
