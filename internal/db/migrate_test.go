package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTokenTable(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='auth_tokens'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "auth_tokens", name)
}

func TestMigrate_RejectsEmptyToken(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO auth_tokens (base_url, token, saved_at) VALUES ('http://x', '', 'now')`)
	assert.Error(t, err, "CHECK constraint should reject an empty token")
}

func TestOpenDB_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "dealflow.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO auth_tokens (base_url, token, saved_at) VALUES ('http://x', 'tok', 'now')`)
	require.NoError(t, err)
}

func TestOpenDB_TokenStoreIsOwnerOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dealflow.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestOpenDB_WaitsOnBusyStore(t *testing.T) {
	db := openTestDB(t)

	var timeout int
	require.NoError(t, db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}
