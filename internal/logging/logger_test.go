package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dealflow.log")

	l, err := Open(path, slog.LevelInfo)
	require.NoError(t, err)
	l.Info("first", "deal_id", 7)
	l.Debug("hidden")
	require.NoError(t, l.Close())

	l, err = Open(path, slog.LevelInfo)
	require.NoError(t, err)
	l.Warn("second")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "msg=first deal_id=7")
	assert.Contains(t, out, "msg=second")
	assert.NotContains(t, out, "hidden")
}

func TestClose_NilSafe(t *testing.T) {
	var l *Logger
	assert.NoError(t, l.Close())
}
