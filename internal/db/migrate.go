package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// The client keeps no durable copy of server data; the bearer token is the
// only thing persisted, one row per API base URL.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS auth_tokens (
		base_url TEXT PRIMARY KEY,
		token    TEXT NOT NULL CHECK(token <> ''),
		saved_at TEXT NOT NULL
	)`,
}
