package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/dealflow/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB returns a migrated in-memory token store, closed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

// OpenTestDBFile opens (or reopens) a migrated store at name inside dir, so
// a test can close it and check what survives a restart.
func OpenTestDBFile(t *testing.T, dir, name string) *sql.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(dir, name))
}

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "open test store %s", path)
	t.Cleanup(func() { _ = database.Close() })
	return database
}
